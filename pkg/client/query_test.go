package client

import (
	"coursehub_backend/internal/model"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mk(id, title, category, difficulty string) model.Course {
	c := model.Course{Title: title, Category: category, Difficulty: difficulty}
	c.ID = id
	return c
}

func titles(courses []model.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Title)
	}
	return out
}

func catalog() []model.Course {
	return []model.Course{
		mk("1", "Intro to Go", "Programming", "Beginner"),
		mk("2", "advanced go", "Programming", "Advanced"),
		mk("3", "Watercolor", "Art", "Beginner"),
		mk("4", "Baking Bread", "Cooking", "Intermediate"),
	}
}

func TestQueryFilter(t *testing.T) {
	all := catalog()

	assert.Equal(t, []string{"Intro to Go", "advanced go"}, titles(Query{Term: "GO"}.Apply(all)))
	assert.Equal(t, []string{"Intro to Go", "Watercolor"}, titles(Query{Difficulty: "Beginner"}.Apply(all)))
	assert.Equal(t, []string{"advanced go"}, titles(Query{Term: "go", Difficulty: "Advanced"}.Apply(all)))
	assert.Empty(t, Query{Category: "programming"}.Apply(all))
	assert.Len(t, Query{}.Apply(all), 4)
}

func TestQueryMatchesTitleOnly(t *testing.T) {
	c := mk("1", "Bread", "Cooking", "Beginner")
	c.Description = "learn to bake sourdough"

	assert.Empty(t, Query{Term: "sourdough"}.Apply([]model.Course{c}))
}

func TestQuerySort(t *testing.T) {
	all := catalog()

	assert.Equal(t, []string{"advanced go", "Baking Bread", "Intro to Go", "Watercolor"}, titles(Query{Sort: SortAZ}.Apply(all)))
	assert.Equal(t, []string{"Watercolor", "Intro to Go", "Baking Bread", "advanced go"}, titles(Query{Sort: SortZA}.Apply(all)))

	// 不修改入参
	assert.Equal(t, "Intro to Go", all[0].Title)
}

func TestPaginate(t *testing.T) {
	var all []model.Course
	for i := 0; i < 23; i++ {
		all = append(all, mk(fmt.Sprint(i), fmt.Sprintf("course %02d", i), "", ""))
	}

	page, total := Paginate(all, 1, 0)
	assert.Equal(t, 3, total)
	assert.Len(t, page, DefaultPageSize)

	page, _ = Paginate(all, 3, DefaultPageSize)
	assert.Equal(t, []string{"course 20", "course 21", "course 22"}, titles(page))

	page, _ = Paginate(all, 4, DefaultPageSize)
	assert.Empty(t, page)

	page, total = Paginate(nil, 1, DefaultPageSize)
	assert.Empty(t, page)
	assert.Equal(t, 0, total)
}

func TestSelection(t *testing.T) {
	var s Selection

	s.Toggle("a")
	s.Toggle("b")
	assert.True(t, s.Has("a"))
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	s.Toggle("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, 1, s.Len())

	s.SelectPage(catalog()[:2])
	assert.Equal(t, []string{"1", "2"}, s.IDs())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
}
