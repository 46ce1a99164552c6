package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's relationship to one course with aggregate
// progress. Enrollments are never deleted; IsCompleted flips false→true
// exactly once and is terminal.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_enroll_user_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_enroll_user_course;not null"`
	Progress    float64    `json:"progress" gorm:"default:0"` // completion percentage (0-100), one decimal
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
}
