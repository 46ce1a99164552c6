package adminRoutes

import (
	courseController "smartlearn/controllers/course"
	"smartlearn/middleware"
	courseValidator "smartlearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the moderation and platform administration routes
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	adminGroup.Get("/stats", courseController.GetAdminStats)
	adminGroup.Get("/courses/pending", courseController.GetPendingCourses)
	adminGroup.Patch("/courses/:id/approve", courseValidator.CourseID(), courseController.ApproveCourse)
	adminGroup.Patch("/courses/:id/reject", courseValidator.CourseID(), courseValidator.Reject(), courseController.RejectCourse)
	adminGroup.Get("/users", courseController.GetUsers)
	adminGroup.Patch("/users/:id/status", courseController.UpdateUserStatus)
	adminGroup.Delete("/users/:id", courseController.DeleteUser)
}
