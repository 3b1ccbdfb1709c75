package model

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson 没有独立 ID，只能通过 (sectionIndex, lessonIndex) 定位
type Lesson struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Content     string `json:"content" yaml:"content"` // 富文本
}

type Section struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Lessons     []Lesson `json:"lessons" yaml:"lessons"`
}

// Course 章节整体作为一个 JSON 文档存储，更新时整体替换
// swagger:model Course
type Course struct {
	UUIDBase
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Thumbnail   string                      `gorm:"size:512" json:"thumbnail"`
	Category    string                      `gorm:"size:100;index" json:"category"`
	Difficulty  string                      `gorm:"size:50" json:"difficulty"` // Beginner / Intermediate / Advanced，不强制
	Sections    datatypes.JSONSlice[Section] `json:"sections"`
	CreatedBy   uint                        `gorm:"index" json:"createdBy"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) AfterFind(tx *gorm.DB) error {
	if c.Sections == nil {
		c.Sections = datatypes.JSONSlice[Section]{}
	}
	return nil
}

// Address 课时的逻辑地址
type Address struct {
	SectionIndex int `json:"sectionIndex"`
	LessonIndex  int `json:"lessonIndex"`
}

// Key 进度表使用的键，格式 "sectionIndex-lessonIndex"
func (a Address) Key() string {
	return fmt.Sprintf("%d-%d", a.SectionIndex, a.LessonIndex)
}

// TotalLessons 按当前课程结构实时计算
func (c *Course) TotalLessons() int {
	total := 0
	for _, s := range c.Sections {
		total += len(s.Lessons)
	}
	return total
}

// LessonAt 越界（包括负数）返回 false
func (c *Course) LessonAt(sectionIndex, lessonIndex int) (*Lesson, bool) {
	if sectionIndex < 0 || sectionIndex >= len(c.Sections) {
		return nil, false
	}
	lessons := c.Sections[sectionIndex].Lessons
	if lessonIndex < 0 || lessonIndex >= len(lessons) {
		return nil, false
	}
	return &lessons[lessonIndex], true
}

// Addresses 按文档顺序（先章节后课时，均升序）列出所有课时地址
func (c *Course) Addresses() []Address {
	addrs := make([]Address, 0, c.TotalLessons())
	for si, s := range c.Sections {
		for li := range s.Lessons {
			addrs = append(addrs, Address{SectionIndex: si, LessonIndex: li})
		}
	}
	return addrs
}
