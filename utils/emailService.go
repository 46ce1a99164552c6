package utils

import (
	"fmt"
	"log"

	"smartlearn/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendEmail delivers one HTML email through SendGrid. Failures are logged
// and swallowed; email is never allowed to fail a request.
func sendEmail(toName, toEmail, subject, htmlBody string) {
	if config.AppConfig.SendgridKey == "" {
		log.Printf("Email disabled, skipping %q to %s", subject, toEmail)
		return
	}

	from := mail.NewEmail("SmartLearn", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
	}
}

// getEmailTemplate wraps body content in the shared SmartLearn layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1e40af; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1f2937; line-height: 1.6; }
			.content h2 { color: #1e40af; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3b82f6; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3b82f6; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SMARTLEARN</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 SmartLearn. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendEnrollmentEmail confirms a new enrollment
func SendEnrollmentEmail(email, userName, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">Your progress starts at 0%%. Complete every lesson to earn your certificate.</div>
		<p>Happy learning!</p>
	`, userName, courseTitle)

	sendEmail(userName, email, "Course Enrollment Confirmation - SmartLearn",
		getEmailTemplate("Enrollment Confirmed", body))
}

// SendCompletionEmail congratulates a student on finishing a course
func SendCompletionEmail(email, userName, courseTitle, certificateURL string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations! You have completed <strong>%s</strong>.</p>
		<p>Your certificate is ready:</p>
		<a class="btn" href="%s">Download Certificate</a>
	`, userName, courseTitle, certificateURL)

	sendEmail(userName, email, "Course Completed - SmartLearn",
		getEmailTemplate("Course Completed", body))
}

// SendCourseApprovedEmail notifies an instructor their course went live
func SendCourseApprovedEmail(email, userName, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your course <strong>%s</strong> has been approved and is now published.</p>
	`, userName, courseTitle)

	sendEmail(userName, email, "Course Approved - SmartLearn",
		getEmailTemplate("Course Approved", body))
}

// SendCourseRejectedEmail notifies an instructor of a rejection with the reason
func SendCourseRejectedEmail(email, userName, courseTitle, reason string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your course <strong>%s</strong> was not approved.</p>
		<div class="info-box">%s</div>
		<p>You can edit the course and submit it again.</p>
	`, userName, courseTitle, reason)

	sendEmail(userName, email, "Course Review Update - SmartLearn",
		getEmailTemplate("Course Not Approved", body))
}
