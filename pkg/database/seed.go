package database

import (
	"context"
	"coursehub_backend/internal/model"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseFixture 种子文件中的一门课程
type CourseFixture struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Thumbnail   string          `yaml:"thumbnail"`
	Category    string          `yaml:"category"`
	Difficulty  string          `yaml:"difficulty"`
	Sections    []model.Section `yaml:"sections"`
}

type seedFile struct {
	Courses []CourseFixture `yaml:"courses"`
}

// LoadCourseFixtures 读取 YAML 种子文件
func LoadCourseFixtures(path string) ([]CourseFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, c := range f.Courses {
		if c.Title == "" {
			return nil, fmt.Errorf("seed course #%d has no title", i+1)
		}
	}
	return f.Courses, nil
}

// SeedCourses 清空现有课程后批量导入，整体在一个事务中完成
func SeedCourses(ctx context.Context, db *gorm.DB, fixtures []CourseFixture) (int, error) {
	courses := make([]model.Course, 0, len(fixtures))
	for _, f := range fixtures {
		sections := f.Sections
		if sections == nil {
			sections = []model.Section{}
		}
		courses = append(courses, model.Course{
			Title:       f.Title,
			Description: f.Description,
			Thumbnail:   f.Thumbnail,
			Category:    f.Category,
			Difficulty:  f.Difficulty,
			Sections:    datatypes.JSONSlice[model.Section](sections),
		})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Course{}).Error; err != nil {
			return err
		}
		if len(courses) == 0 {
			return nil
		}
		return tx.Create(&courses).Error
	})
	if err != nil {
		return 0, err
	}
	return len(courses), nil
}
