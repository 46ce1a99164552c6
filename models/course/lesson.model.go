package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson belongs to exactly one course. Order must be unique within the
// course; the controllers enforce it so soft-deleted lessons free their slot.
type Lesson struct {
	gorm.Model
	CourseID    uint           `json:"course_id" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text;default:''"`
	Type        string         `json:"type" gorm:"default:'VIDEO'"` // VIDEO, TEXT, PDF, QUIZ
	Order       int            `json:"order" gorm:"column:lesson_order;not null"`
	Duration    int            `json:"duration" gorm:"default:0"` // seconds
	VideoURL    string         `json:"video_url" gorm:"default:''"`
	Content     string         `json:"content" gorm:"type:text;default:''"`
	QuizData    datatypes.JSON `json:"quiz_data,omitempty"` // question payload for QUIZ lessons
	IsPreview   bool           `json:"is_preview" gorm:"default:false"`
	IsDeleted   bool           `json:"-" gorm:"default:false"`
}
