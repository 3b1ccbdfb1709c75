package client

import (
	"context"
	"coursehub_backend/internal/model"
	"sync"
)

// Ticket 一次加载的代号。只有最新一次加载的结果会被采用。
type Ticket uint64

// CourseCache 界面持有的“当前列表”。变更后按规则本地修补，不强制重新拉取：
// 新建追加到末尾，更新原位替换，删除按 ID 过滤，搜索整体替换。
type CourseCache struct {
	mu         sync.Mutex
	courses    []model.Course
	generation Ticket
	loading    bool
	err        string
}

func NewCourseCache() *CourseCache {
	return &CourseCache{courses: []model.Course{}}
}

// BeginLoad 开始一次全量加载或搜索，之前未完成的加载随之作废
func (c *CourseCache) BeginLoad() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.loading = true
	c.err = ""
	return c.generation
}

// ApplyLoad 用结果替换整个列表；过期的响应被丢弃并返回 false
func (c *CourseCache) ApplyLoad(t Ticket, courses []model.Course) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t != c.generation {
		return false
	}
	c.courses = append([]model.Course{}, courses...)
	c.loading = false
	c.err = ""
	return true
}

// FailLoad 结束加载状态并记录一条错误信息；列表保持不变
func (c *CourseCache) FailLoad(t Ticket, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t != c.generation {
		return false
	}
	c.loading = false
	c.err = message
	return true
}

// Fail 非加载类操作（创建、更新、删除）失败时记录错误
func (c *CourseCache) Fail(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = message
}

func (c *CourseCache) Added(course model.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = append(c.courses, course)
	c.err = ""
}

// Updated 找不到对应 ID 时静默忽略，下一次全量加载会修复
func (c *CourseCache) Updated(course model.Course) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = ""
	for i := range c.courses {
		if c.courses[i].ID == course.ID {
			c.courses[i] = course
			return true
		}
	}
	return false
}

// Removed 按 ID 过滤，保持剩余顺序；不存在的 ID 无影响
func (c *CourseCache) Removed(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = ""

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := c.courses[:0:0]
	for _, course := range c.courses {
		if _, ok := drop[course.ID]; !ok {
			kept = append(kept, course)
		}
	}
	c.courses = kept
}

// Courses 返回副本
func (c *CourseCache) Courses() []model.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Course{}, c.courses...)
}

func (c *CourseCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *CourseCache) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Refresh 全量拉取
func (c *CourseCache) Refresh(ctx context.Context, api *Client) error {
	t := c.BeginLoad()
	courses, err := api.ListCourses(ctx)
	if err != nil {
		c.FailLoad(t, err.Error())
		return err
	}
	c.ApplyLoad(t, courses)
	return nil
}

// Search 结果整体替换当前列表，不与全量列表合并
func (c *CourseCache) Search(ctx context.Context, api *Client, term string) error {
	t := c.BeginLoad()
	courses, err := api.SearchCourses(ctx, term)
	if err != nil {
		c.FailLoad(t, err.Error())
		return err
	}
	c.ApplyLoad(t, courses)
	return nil
}

func (c *CourseCache) Create(ctx context.Context, api *Client, draft CourseDraft) (*model.Course, error) {
	course, err := api.CreateCourse(ctx, draft)
	if err != nil {
		c.Fail(err.Error())
		return nil, err
	}
	c.Added(*course)
	return course, nil
}

func (c *CourseCache) Update(ctx context.Context, api *Client, id string, patch CoursePatch) (*model.Course, error) {
	course, err := api.UpdateCourse(ctx, id, patch)
	if err != nil {
		c.Fail(err.Error())
		return nil, err
	}
	c.Updated(*course)
	return course, nil
}

func (c *CourseCache) Delete(ctx context.Context, api *Client, id string) error {
	if err := api.DeleteCourse(ctx, id); err != nil {
		c.Fail(err.Error())
		return err
	}
	c.Removed(id)
	return nil
}

// BulkDelete 从列表中移除全部请求的 ID，包括服务端已不存在的
func (c *CourseCache) BulkDelete(ctx context.Context, api *Client, ids []string) ([]string, error) {
	deleted, err := api.BulkDeleteCourses(ctx, ids)
	if err != nil {
		c.Fail(err.Error())
		return nil, err
	}
	c.Removed(ids...)
	return deleted, nil
}
