package database

import (
	"context"
	"coursehub_backend/internal/model"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestLoadCourseFixtures(t *testing.T) {
	fixtures, err := LoadCourseFixtures(filepath.Join("..", "..", "configs", "seed.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)
	assert.Equal(t, "Fundamentals JavaScript Course", fixtures[0].Title)
	assert.Len(t, fixtures[0].Sections, 2)
	assert.Len(t, fixtures[0].Sections[0].Lessons, 2)
}

func TestLoadCourseFixturesRequiresTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("courses:\n  - description: no title\n"), 0o600))

	_, err := LoadCourseFixtures(path)
	assert.ErrorContains(t, err, "has no title")
}

func TestSeedCoursesReplacesExisting(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Course{Title: "Old"}).Error)

	n, err := SeedCourses(ctx, db, []CourseFixture{
		{Title: "A", Sections: []model.Section{{Title: "S", Lessons: []model.Lesson{{Title: "L"}}}}},
		{Title: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var courses []model.Course
	require.NoError(t, db.Order("title").Find(&courses).Error)
	require.Len(t, courses, 2)
	assert.Equal(t, "A", courses[0].Title)
	assert.Equal(t, 1, courses[0].TotalLessons())
	assert.NotNil(t, courses[1].Sections)
	assert.NotEqual(t, courses[0].ID, courses[1].ID)
}
