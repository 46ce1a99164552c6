package progressController

import (
	"log"
	"time"

	"smartlearn/database"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	"smartlearn/utils"

	"gorm.io/gorm"
)

// UpdateCourseProgress recomputes the enrollment's aggregate progress from
// lesson completion counts and stores the rounded percentage. The counts and
// the write share one transaction. The completion transition fires on the
// exact counts, not the rounded value: 1999 of 2000 lessons rounds to 100.0
// for display but must not complete the course.
func UpdateCourseProgress(userID, courseID uint) (float64, error) {
	db := database.Database.Db

	var progress float64
	var totalLessons, completedLessons int64
	var enrollment courseModels.Enrollment

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
			return err
		}

		if err := tx.Model(&courseModels.Lesson{}).
			Where("course_id = ? AND is_deleted = ?", courseID, false).
			Count(&totalLessons).Error; err != nil {
			return err
		}

		// Count only completions that still point at a live lesson, so a
		// removed lesson cannot push progress past 100
		if err := tx.Model(&courseModels.LessonProgress{}).
			Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id AND lessons.is_deleted = ?", false).
			Where("lesson_progresses.user_id = ? AND lesson_progresses.course_id = ? AND lesson_progresses.is_completed = ?", userID, courseID, true).
			Count(&completedLessons).Error; err != nil {
			return err
		}

		progress = 0
		if totalLessons > 0 {
			progress = utils.Round1(float64(completedLessons) / float64(totalLessons) * 100)
		}

		return tx.Model(&courseModels.Enrollment{}).
			Where("id = ?", enrollment.ID).
			Update("progress", progress).Error
	})
	if err != nil {
		return 0, err
	}

	if totalLessons > 0 && completedLessons == totalLessons {
		if _, err := TryCompleteEnrollment(enrollment.ID); err != nil {
			return progress, err
		}
	}

	return progress, nil
}

// TryCompleteEnrollment is the single place an enrollment flips to
// completed. The guarded update only matches while is_completed is still
// false, so completedAt is written once and the certificate is issued once
// no matter how many callers race or which path (lesson recompute or the
// explicit completion endpoint) triggers it. Returns whether this call made
// the transition.
func TryCompleteEnrollment(enrollmentID uint) (bool, error) {
	db := database.Database.Db
	now := time.Now()

	res := db.Model(&courseModels.Enrollment{}).
		Where("id = ? AND is_completed = ?", enrollmentID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": now,
			"progress":     float64(100),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// Already completed; the original completedAt stays untouched
		return false, nil
	}

	var enrollment courseModels.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return true, err
	}

	cert, _, err := utils.EnsureCertificate(enrollment.UserID, enrollment.CourseID)
	if err != nil {
		// The completion stands; the generate endpoint can ensure the
		// certificate row later
		log.Printf("Error issuing certificate for enrollment %d: %v", enrollmentID, err)
		return true, nil
	}

	// Load everything the notifications need before handing off; the
	// goroutine must not touch the database handle after this call returns
	var user models.User
	if err := db.First(&user, enrollment.UserID).Error; err != nil {
		log.Printf("Error loading user %d for completion notification: %v", enrollment.UserID, err)
		return true, nil
	}
	var course courseModels.Course
	if err := db.First(&course, enrollment.CourseID).Error; err != nil {
		log.Printf("Error loading course %d for completion notification: %v", enrollment.CourseID, err)
		return true, nil
	}

	go notifyCompletion(user, course, enrollment, cert.CertificateNumber)

	return true, nil
}

func notifyCompletion(user models.User, course courseModels.Course, enrollment courseModels.Enrollment, certificateNumber string) {
	utils.SendCompletionEmail(user.Email, user.Name, course.Title, utils.CertificateDownloadURL(certificateNumber))

	utils.NotifyCourseCompleted(utils.CompletionEvent{
		UserID:            enrollment.UserID,
		CourseID:          enrollment.CourseID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: certificateNumber,
		CompletedAt:       enrollment.CompletedAt,
	})
}
