package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the issued proof of completion, at most one per
// (user, course). Admin deletion is a hard delete so the pair can be
// re-issued if needed.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"uniqueIndex:idx_cert_user_course;not null"`
	CourseID          uint      `json:"course_id" gorm:"uniqueIndex:idx_cert_user_course;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique;not null"`
	CertificateURL    string    `json:"certificate_url" gorm:"default:''"`
	IssuedAt          time.Time `json:"issued_at"`
}
