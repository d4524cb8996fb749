package model

import "fmt"

type BookCategory string

const (
	CategoryHighSchool    BookCategory = "high_school"
	CategoryUndergraduate BookCategory = "undergraduate"
	CategoryGraduate      BookCategory = "graduate"
)

// swagger:model Book
type Book struct {
	BaseModel
	Slug        string       `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Author      string       `gorm:"size:200;not null" json:"author"`
	Description string       `gorm:"type:text" json:"description"`
	Category    BookCategory `gorm:"size:50;default:'undergraduate'" json:"category"`
	Topic       string       `gorm:"size:100;default:'algebra'" json:"topic"`
	Chapters    []Chapter    `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// swagger:model Chapter
type Chapter struct {
	BaseModel
	BookID uint   `gorm:"index;not null" json:"bookId"`
	Number int    `gorm:"not null" json:"number"`
	Title  string `gorm:"size:200;not null" json:"title"`
	// 小节总数，包含没有习题的阅读小节
	SectionCount int        `gorm:"default:0" json:"sectionCount"`
	Exercises    []Exercise `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// swagger:model Exercise
type Exercise struct {
	BaseModel
	ChapterID  uint     `gorm:"index;not null" json:"chapterId"`
	Section    *int     `json:"section,omitempty"`
	Number     int      `gorm:"not null" json:"number"`
	Difficulty string   `gorm:"size:20" json:"difficulty,omitempty"`
	Points     int      `gorm:"default:0" json:"points"`
	Chapter    *Chapter `gorm:"foreignKey:ChapterID" json:"-"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// DisplayNumber 题号展示格式：章.节.题 或 章.题
func (e *Exercise) DisplayNumber(chapterNumber int) string {
	if e.Section != nil && *e.Section > 0 {
		return fmt.Sprintf("%d.%d.%d", chapterNumber, *e.Section, e.Number)
	}
	return fmt.Sprintf("%d.%d", chapterNumber, e.Number)
}
