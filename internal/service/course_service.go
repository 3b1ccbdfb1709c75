package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// CourseStore 课程存储端口，由 repository.CourseRepository 实现
type CourseStore interface {
	Create(ctx context.Context, course *model.Course) error
	FindAll(ctx context.Context) ([]model.Course, error)
	FindByID(ctx context.Context, id string) (*model.Course, error)
	Search(ctx context.Context, term string) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}

// Caller 来自服务端校验过的令牌，而不是客户端提交的数据
type Caller struct {
	UserID uint
	Role   model.UserRole
}

func CallerFromClaims(claims *util.Claims) Caller {
	if claims == nil {
		return Caller{}
	}
	return Caller{UserID: claims.UserID, Role: claims.Role}
}

func (c Caller) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// CourseDraft 创建课程的请求体
// swagger:model CourseDraft
type CourseDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	Category    string          `json:"category"`
	Difficulty  string          `json:"difficulty"`
	Sections    []model.Section `json:"sections"`
}

// CoursePatch 浅合并：未提供的字段保留，提供的字段整体替换（包括整个 sections）
// swagger:model CoursePatch
type CoursePatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Thumbnail   *string          `json:"thumbnail"`
	Category    *string          `json:"category"`
	Difficulty  *string          `json:"difficulty"`
	Sections    *[]model.Section `json:"sections"`
}

type CourseService struct {
	Store CourseStore
}

func NewCourseService(store CourseStore) *CourseService {
	return &CourseService{Store: store}
}

func (s *CourseService) Create(ctx context.Context, draft CourseDraft, caller Caller) (*model.Course, error) {
	if !caller.IsAdmin() {
		return nil, util.ErrForbidden
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: Title is required", util.ErrInvalidInput)
	}

	course := &model.Course{
		Title:       draft.Title,
		Description: draft.Description,
		Thumbnail:   draft.Thumbnail,
		Category:    draft.Category,
		Difficulty:  draft.Difficulty,
		Sections:    sectionsOf(draft.Sections),
		CreatedBy:   caller.UserID,
	}
	if err := s.Store.Create(ctx, course); err != nil {
		return nil, storeError(err)
	}
	return course, nil
}

func (s *CourseService) GetAll(ctx context.Context) ([]model.Course, error) {
	courses, err := s.Store.FindAll(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return courses, nil
}

func (s *CourseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	if !model.IsValidID(id) {
		return nil, errInvalidCourseID
	}
	course, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return course, nil
}

// Search 空关键字等同于 GetAll
func (s *CourseService) Search(ctx context.Context, term string) ([]model.Course, error) {
	if strings.TrimSpace(term) == "" {
		return s.GetAll(ctx)
	}
	courses, err := s.Store.Search(ctx, term)
	if err != nil {
		return nil, storeError(err)
	}
	return courses, nil
}

func (s *CourseService) Update(ctx context.Context, id string, patch CoursePatch, caller Caller) (*model.Course, error) {
	if !caller.IsAdmin() {
		return nil, util.ErrForbidden
	}
	if !model.IsValidID(id) {
		return nil, errInvalidCourseID
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: Title is required", util.ErrInvalidInput)
	}

	course, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	applyPatch(course, patch)

	if err := s.Store.Update(ctx, course); err != nil {
		return nil, storeError(err)
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string, caller Caller) error {
	if !caller.IsAdmin() {
		return util.ErrForbidden
	}
	if !model.IsValidID(id) {
		return errInvalidCourseID
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	return nil
}

// BulkDelete 所有 ID 先校验格式，再逐个删除；已不存在的 ID 跳过。返回实际删除的 ID。
func (s *CourseService) BulkDelete(ctx context.Context, ids []string, caller Caller) ([]string, error) {
	if !caller.IsAdmin() {
		return nil, util.ErrForbidden
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids are required", util.ErrInvalidInput)
	}
	for _, id := range ids {
		if !model.IsValidID(id) {
			return nil, errInvalidCourseID
		}
	}

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		err := s.Store.Delete(ctx, id)
		if errors.Is(err, repository.ErrCourseNotFound) {
			continue
		}
		if err != nil {
			return deleted, storeError(err)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

var errInvalidCourseID = fmt.Errorf("%w: Invalid Course ID", util.ErrInvalidInput)

func applyPatch(course *model.Course, patch CoursePatch) {
	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.Thumbnail != nil {
		course.Thumbnail = *patch.Thumbnail
	}
	if patch.Category != nil {
		course.Category = *patch.Category
	}
	if patch.Difficulty != nil {
		course.Difficulty = *patch.Difficulty
	}
	if patch.Sections != nil {
		course.Sections = sectionsOf(*patch.Sections)
	}
}

func sectionsOf(sections []model.Section) datatypes.JSONSlice[model.Section] {
	if sections == nil {
		return datatypes.JSONSlice[model.Section]{}
	}
	for i := range sections {
		if sections[i].Lessons == nil {
			sections[i].Lessons = []model.Lesson{}
		}
	}
	return datatypes.JSONSlice[model.Section](sections)
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrCourseNotFound) {
		return fmt.Errorf("%w: Not found", util.ErrNotFound)
	}
	return fmt.Errorf("%w: %v", util.ErrStore, err)
}
