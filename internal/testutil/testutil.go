// Package testutil 测试用的数据库和配置
package testutil

import (
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/database"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB 每个测试一个独立的内存 sqlite，已完成迁移
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:coursehub_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// NewConfig 测试配置：本地存储、不限流、AI 指向 aiBaseURL
func NewConfig(t testing.TB, aiBaseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test"},
		JWT: config.JWTConfig{
			Secret:     "test-secret-that-is-long-enough-for-hs256",
			ExpireTime: time.Hour,
		},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		AI: config.AIConfig{
			BaseURL:        aiBaseURL,
			APIKey:         "test-key",
			Model:          "test-model",
			TimeoutSeconds: 5,
			RequireAuth:    true,
		},
	}
}

// SampleCourse 两个章节：第 0 章两个课时，第 1 章一个课时
func SampleCourse(title string) *model.Course {
	return &model.Course{
		Title:       title,
		Description: "Learn " + title,
		Category:    "Programming",
		Difficulty:  "Beginner",
		Sections: []model.Section{
			{
				Title: "Basics",
				Lessons: []model.Lesson{
					{Title: "Intro", Content: "Variables and types"},
					{Title: "Control flow", Content: "if, for and switch"},
				},
			},
			{
				Title: "Advanced",
				Lessons: []model.Lesson{
					{Title: "Closures", Content: "Functions capturing scope"},
				},
			},
		},
	}
}
