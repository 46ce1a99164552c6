package progressController

import (
	"log"
	"time"

	"smartlearn/database"
	courseModels "smartlearn/models/course"

	"github.com/robfig/cron/v3"
)

func logScheduler(message string) {
	log.Printf("[PROGRESS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartProgressScheduler runs the nightly reconciliation at 02:00. Progress
// writes are last-write-wins under concurrent lesson completions and lesson
// edits change the denominator after the fact; the nightly recount bounds
// how long any drift can survive.
func StartProgressScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("0 2 * * *", ReconcileEnrollmentProgress); err != nil {
		log.Fatalf("Failed to register progress reconciliation job: %v", err)
	}

	c.Start()
	logScheduler("Progress reconciliation scheduler started")
	return c
}

// ReconcileEnrollmentProgress recomputes every active enrollment from the
// lesson completion counts
func ReconcileEnrollmentProgress() {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("is_completed = ?", false).Find(&enrollments).Error; err != nil {
		logScheduler("Error fetching enrollments: " + err.Error())
		return
	}

	reconciled := 0
	for _, enrollment := range enrollments {
		if _, err := UpdateCourseProgress(enrollment.UserID, enrollment.CourseID); err != nil {
			logScheduler("Error reconciling enrollment " + err.Error())
			continue
		}
		reconciled++
	}

	log.Printf("[PROGRESS-SCHEDULER] Reconciled %d of %d active enrollments", reconciled, len(enrollments))
}
