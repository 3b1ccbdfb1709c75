package repository

import (
	"context"
	"coursehub_backend/internal/model"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrCourseNotFound 课程不存在
var ErrCourseNotFound = errors.New("course not found")

// CourseRepository 课程内容存储。不做权限校验，权限只在服务层检查。
type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) FindAll(ctx context.Context) ([]model.Course, error) {
	courses := []model.Course{}
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Search 标题或描述包含 term（不区分大小写的子串匹配）
func (r *CourseRepository) Search(ctx context.Context, term string) ([]model.Course, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	courses := []model.Course{}
	err := r.DB.WithContext(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

// Update 整条记录覆盖写，并发更新时后写者胜出
func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	course.UpdatedAt = time.Now()
	result := r.DB.WithContext(ctx).
		Model(&model.Course{}).
		Where("id = ?", course.ID).
		Select("title", "description", "thumbnail", "category", "difficulty", "sections", "updated_at").
		Updates(course)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// Delete 单条删除，章节和课时随文档一起删除
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
