// Package progress 客户端本地的课时完成进度，与服务端状态无关。
package progress

import (
	"coursehub_backend/internal/model"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
)

const (
	KeyProgress         = "progress"
	KeyCompletedCourses = "completedCourses"
)

// ErrNoSuchLesson 地址不在当前课程结构内
var ErrNoSuchLesson = errors.New("lesson not found")

// CompletionMap "sectionIndex-lessonIndex" -> 是否完成；缺失等同于未完成
type CompletionMap map[string]bool

func LessonKey(sectionIndex, lessonIndex int) string {
	return model.Address{SectionIndex: sectionIndex, LessonIndex: lessonIndex}.Key()
}

// Toggle 返回翻转后的新表，不修改入参。翻转为未完成时删除该键，因此连续两次翻转得到原表。
func Toggle(m CompletionMap, sectionIndex, lessonIndex int) CompletionMap {
	key := LessonKey(sectionIndex, lessonIndex)
	next := make(CompletionMap, len(m)+1)
	for k, v := range m {
		if v {
			next[k] = v
		}
	}
	if m[key] {
		delete(next, key)
	} else {
		next[key] = true
	}
	return next
}

// ComputeProgress 百分比，四舍五入。分母是当前课程的课时数，不存在的地址（孤儿键）不计入；没有课时的课程为 0。
func ComputeProgress(course *model.Course, m CompletionMap) int {
	total := course.TotalLessons()
	if total == 0 {
		return 0
	}

	done := 0
	for _, addr := range course.Addresses() {
		if m[addr.Key()] {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// FindNextIncomplete 按文档顺序找第一个未完成课时；全部完成或没有课时时 ok=false
func FindNextIncomplete(course *model.Course, m CompletionMap) (model.Address, bool) {
	for _, addr := range course.Addresses() {
		if !m[addr.Key()] {
			return addr, true
		}
	}
	return model.Address{}, false
}

// Status 某门课程的进度快照
type Status struct {
	CourseID  string         `json:"courseId"`
	Percent   int            `json:"percent"`
	Completed bool           `json:"completed"` // 曾经达到过 100%
	Next      *model.Address `json:"next,omitempty"`
	Lessons   CompletionMap  `json:"lessons"`
}

// Tracker 读写 KV 中的 progress 与 completedCourses 两个键。
// 每次变更覆盖该课程的整张表，后写者胜出。
type Tracker struct {
	mu sync.Mutex
	kv KV
}

func NewTracker(kv KV) *Tracker {
	return &Tracker{kv: kv}
}

func (t *Tracker) loadAll() (map[string]CompletionMap, error) {
	all := map[string]CompletionMap{}
	raw, ok, err := t.kv.Get(KeyProgress)
	if err != nil || !ok || raw == "" {
		return all, err
	}
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyProgress, err)
	}
	return all, nil
}

func (t *Tracker) loadCompleted() ([]string, error) {
	var ids []string
	raw, ok, err := t.kv.Get(KeyCompletedCourses)
	if err != nil || !ok || raw == "" {
		return []string{}, err
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyCompletedCourses, err)
	}
	return ids, nil
}

func (t *Tracker) save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return t.kv.Set(key, string(data))
}

// Progress 返回课程的完成表，从未记录过时为空表
func (t *Tracker) Progress(courseID string) (CompletionMap, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.loadAll()
	if err != nil {
		return nil, err
	}
	if m, ok := all[courseID]; ok && m != nil {
		return m, nil
	}
	return CompletionMap{}, nil
}

// CompletedCourses 曾经完成过的课程，只增不减
func (t *Tracker) CompletedCourses() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadCompleted()
}

// ToggleLesson 翻转课时状态并持久化；达到 100% 时把课程加入 completedCourses
func (t *Tracker) ToggleLesson(course *model.Course, sectionIndex, lessonIndex int) (*Status, error) {
	if _, ok := course.LessonAt(sectionIndex, lessonIndex); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchLesson, LessonKey(sectionIndex, lessonIndex))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.loadAll()
	if err != nil {
		return nil, err
	}
	m := Toggle(all[course.ID], sectionIndex, lessonIndex)
	all[course.ID] = m
	if err := t.save(KeyProgress, all); err != nil {
		return nil, err
	}

	completed, err := t.loadCompleted()
	if err != nil {
		return nil, err
	}
	percent := ComputeProgress(course, m)
	if percent == 100 && !contains(completed, course.ID) {
		completed = append(completed, course.ID)
		if err := t.save(KeyCompletedCourses, completed); err != nil {
			return nil, err
		}
	}

	return buildStatus(course, m, percent, contains(completed, course.ID)), nil
}

// Status 只读，不会修改 completedCourses
func (t *Tracker) Status(course *model.Course) (*Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.loadAll()
	if err != nil {
		return nil, err
	}
	completed, err := t.loadCompleted()
	if err != nil {
		return nil, err
	}

	m := all[course.ID]
	if m == nil {
		m = CompletionMap{}
	}
	return buildStatus(course, m, ComputeProgress(course, m), contains(completed, course.ID)), nil
}

func buildStatus(course *model.Course, m CompletionMap, percent int, completed bool) *Status {
	s := &Status{
		CourseID:  course.ID,
		Percent:   percent,
		Completed: completed,
		Lessons:   m,
	}
	if next, ok := FindNextIncomplete(course, m); ok {
		s.Next = &next
	}
	return s
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
