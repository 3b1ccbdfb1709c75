package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheDropsStaleLoads(t *testing.T) {
	c := NewCourseCache()

	first := c.BeginLoad()
	second := c.BeginLoad()
	assert.True(t, c.Loading())

	assert.True(t, c.ApplyLoad(second, catalog()[:1]))
	assert.False(t, c.ApplyLoad(first, catalog()))
	assert.Equal(t, []string{"Intro to Go"}, titles(c.Courses()))
	assert.False(t, c.Loading())

	assert.False(t, c.FailLoad(first, "late failure"))
	assert.Empty(t, c.Err())
}

func TestCacheFailLoadKeepsList(t *testing.T) {
	c := NewCourseCache()
	c.ApplyLoad(c.BeginLoad(), catalog())

	ticket := c.BeginLoad()
	assert.True(t, c.FailLoad(ticket, "network down"))
	assert.Equal(t, "network down", c.Err())
	assert.False(t, c.Loading())
	assert.Len(t, c.Courses(), 4)
}

func TestCacheLocalPatches(t *testing.T) {
	c := NewCourseCache()
	c.ApplyLoad(c.BeginLoad(), catalog())

	c.Added(mk("5", "Pottery", "Art", "Beginner"))
	assert.Equal(t, "Pottery", c.Courses()[4].Title)

	assert.True(t, c.Updated(mk("2", "Advanced Go", "Programming", "Advanced")))
	assert.Equal(t, "Advanced Go", c.Courses()[1].Title)
	assert.False(t, c.Updated(mk("99", "Ghost", "", "")))
	assert.Len(t, c.Courses(), 5)

	c.Fail("delete failed")
	c.Removed("1", "3", "missing")
	assert.Equal(t, []string{"Advanced Go", "Baking Bread", "Pottery"}, titles(c.Courses()))
	assert.Empty(t, c.Err())
}

func TestCacheCoursesReturnsCopy(t *testing.T) {
	c := NewCourseCache()
	c.ApplyLoad(c.BeginLoad(), catalog())

	got := c.Courses()
	got[0].Title = "mutated"
	assert.Equal(t, "Intro to Go", c.Courses()[0].Title)
}
