package enrollmentRoutes

import (
	enrollmentController "smartlearn/controllers/enrollment"
	"smartlearn/middleware"
	enrollmentValidator "smartlearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up the student enrollment lifecycle routes
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollGroup := app.Group("/enrollments", middleware.JWTMiddleware)

	enrollGroup.Post("/enroll", enrollmentValidator.Enroll(), enrollmentController.EnrollInCourse)
	enrollGroup.Get("/", enrollmentValidator.List(), enrollmentController.GetEnrollments)
	enrollGroup.Get("/:id", enrollmentValidator.EnrollmentID(), enrollmentController.GetEnrollmentByID)
	enrollGroup.Patch("/:id/progress", enrollmentValidator.EnrollmentID(), enrollmentValidator.UpdateProgress(), enrollmentController.UpdateProgress)
	enrollGroup.Patch("/:id/complete", enrollmentValidator.EnrollmentID(), enrollmentController.CompleteCourse)
}
