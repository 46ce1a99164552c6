package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress is the per-user, per-lesson completion and watch-time
// record, created lazily on first interaction. CourseID is denormalized so
// the recompute can count without a join.
type LessonProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID    uint       `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	WatchTime   int        `json:"watch_time" gorm:"default:0"` // seconds
	CompletedAt *time.Time `json:"completed_at"`
}
