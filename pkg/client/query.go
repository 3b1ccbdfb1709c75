package client

import (
	"coursehub_backend/internal/model"
	"sort"
	"strings"
)

const DefaultPageSize = 10

type SortOrder string

const (
	SortNone SortOrder = ""
	SortAZ   SortOrder = "az"
	SortZA   SortOrder = "za"
)

// Query 本地筛选：标题包含 Term（不区分大小写），分类和难度精确匹配，按标题排序
type Query struct {
	Term       string
	Category   string
	Difficulty string
	Sort       SortOrder
}

// Apply 返回新切片，不修改入参
func (q Query) Apply(courses []model.Course) []model.Course {
	term := strings.ToLower(strings.TrimSpace(q.Term))

	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if term != "" && !strings.Contains(strings.ToLower(c.Title), term) {
			continue
		}
		if q.Category != "" && c.Category != q.Category {
			continue
		}
		if q.Difficulty != "" && c.Difficulty != q.Difficulty {
			continue
		}
		out = append(out, c)
	}

	switch q.Sort {
	case SortAZ:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortZA:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) > strings.ToLower(out[j].Title)
		})
	}
	return out
}

// Paginate page 从 1 开始；size<=0 时用默认值。越界页返回空切片。
func Paginate(courses []model.Course, page, size int) ([]model.Course, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := (len(courses) + size - 1) / size
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	if start >= len(courses) {
		return []model.Course{}, totalPages
	}
	end := start + size
	if end > len(courses) {
		end = len(courses)
	}
	return courses[start:end], totalPages
}

// Selection 批量操作的选中集合，保持选中顺序
type Selection struct {
	ids []string
}

func (s *Selection) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *Selection) Toggle(id string) {
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// SelectPage 选中集合替换为当前页的全部课程
func (s *Selection) SelectPage(page []model.Course) {
	s.ids = make([]string, 0, len(page))
	for _, c := range page {
		s.ids = append(s.ids, c.ID)
	}
}

func (s *Selection) Clear() {
	s.ids = nil
}

func (s *Selection) IDs() []string {
	return append([]string{}, s.ids...)
}

func (s *Selection) Len() int {
	return len(s.ids)
}
