package models

import "gorm.io/gorm"

// Review is one user's rating of one course. Uniqueness per (user, course)
// is enforced in the controller because reviews are soft-deletable.
type Review struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"` // Who gave the review
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5 rating
	Comment   string `json:"comment" gorm:"type:text;default:''"`                      // Optional comment
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
