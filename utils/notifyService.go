package utils

import (
	"log"
	"time"

	"smartlearn/config"

	"github.com/go-resty/resty/v2"
)

// CompletionEvent is the payload posted to the analytics webhook when an
// enrollment transitions to completed
type CompletionEvent struct {
	Event             string     `json:"event"`
	UserID            uint       `json:"user_id"`
	CourseID          uint       `json:"course_id"`
	EnrollmentID      uint       `json:"enrollment_id"`
	CertificateNumber string     `json:"certificate_number"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// NotifyCourseCompleted posts a completion event to the configured webhook.
// Disabled when COMPLETION_WEBHOOK_URL is empty; failures are logged only.
func NotifyCourseCompleted(event CompletionEvent) {
	url := config.AppConfig.CompletionWebhookURL
	if url == "" {
		return
	}

	event.Event = "course.completed"

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		log.Printf("Error posting completion webhook: %v", err)
		return
	}
	if resp.StatusCode() >= 400 {
		log.Printf("Completion webhook returned %d: %s", resp.StatusCode(), resp.String())
	}
}
