package repository

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(courses []model.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Title)
	}
	return out
}

func TestCourseRepositoryCreateAndFind(t *testing.T) {
	repo := NewCourseRepository(testutil.NewDB(t))
	ctx := context.Background()

	course := testutil.SampleCourse("Go")
	require.NoError(t, repo.Create(ctx, course))
	assert.True(t, model.IsValidID(course.ID))
	assert.False(t, course.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", found.Title)
	require.Len(t, found.Sections, 2)
	assert.Equal(t, "Control flow", found.Sections[0].Lessons[1].Title)
	assert.Equal(t, 3, found.TotalLessons())
}

func TestCourseRepositoryFindMissing(t *testing.T) {
	repo := NewCourseRepository(testutil.NewDB(t))

	_, err := repo.FindByID(context.Background(), model.GenerateUUID())
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseRepositorySearch(t *testing.T) {
	repo := NewCourseRepository(testutil.NewDB(t))
	ctx := context.Background()

	react := testutil.SampleCourse("React Basics")
	sql := testutil.SampleCourse("SQL")
	sql.Description = "Querying data, with a react-ive mindset"
	percent := testutil.SampleCourse("100% Go")
	for _, c := range []*model.Course{react, sql, percent} {
		require.NoError(t, repo.Create(ctx, c))
	}

	upper, err := repo.Search(ctx, "REACT")
	require.NoError(t, err)
	lower, err := repo.Search(ctx, "react")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"React Basics", "SQL"}, titles(upper))
	assert.ElementsMatch(t, titles(upper), titles(lower))

	// 通配符按字面匹配
	wild, err := repo.Search(ctx, "%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Go"}, titles(wild))

	none, err := repo.Search(ctx, "_x_")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCourseRepositoryUpdateReplacesSections(t *testing.T) {
	repo := NewCourseRepository(testutil.NewDB(t))
	ctx := context.Background()

	course := testutil.SampleCourse("Go")
	require.NoError(t, repo.Create(ctx, course))

	course.Title = "Go 2"
	course.Sections = course.Sections[:1]
	require.NoError(t, repo.Update(ctx, course))

	found, err := repo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go 2", found.Title)
	assert.Len(t, found.Sections, 1)
	assert.Equal(t, 2, found.TotalLessons())
}

func TestCourseRepositoryUpdateMissing(t *testing.T) {
	repo := NewCourseRepository(testutil.NewDB(t))

	course := testutil.SampleCourse("Ghost")
	course.ID = model.GenerateUUID()
	assert.ErrorIs(t, repo.Update(context.Background(), course), ErrCourseNotFound)
}

func TestCourseRepositoryDelete(t *testing.T) {
	repo := NewCourseRepository(testutil.NewDB(t))
	ctx := context.Background()

	course := testutil.SampleCourse("Go")
	require.NoError(t, repo.Create(ctx, course))

	require.NoError(t, repo.Delete(ctx, course.ID))
	_, err := repo.FindByID(ctx, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, course.ID), ErrCourseNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
