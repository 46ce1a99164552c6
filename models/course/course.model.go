package course

import "gorm.io/gorm"

// Course represents a learning course authored by an instructor
type Course struct {
	gorm.Model
	Title           string  `json:"title" gorm:"not null"`
	Description     string  `json:"description" gorm:"type:text;default:''"`
	InstructorID    uint    `json:"instructor_id" gorm:"index;not null"`
	Price           float64 `json:"price" gorm:"default:0"`
	Category        string  `json:"category" gorm:"default:''"`
	Level           string  `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	ThumbnailURL    string  `json:"thumbnail_url" gorm:"default:''"`
	Status          string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PENDING_APPROVAL, PUBLISHED, ARCHIVED
	IsPublished     bool    `json:"is_published" gorm:"default:false"`
	RejectionReason string  `json:"rejection_reason" gorm:"default:''"`
	IsDeleted       bool    `json:"-" gorm:"default:false"`
}
