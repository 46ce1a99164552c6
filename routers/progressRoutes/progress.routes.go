package progressRoutes

import (
	progressController "smartlearn/controllers/progress"
	"smartlearn/middleware"
	progressValidator "smartlearn/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up the lesson progress tracking routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	progressGroup.Put("/lessons/:lessonId/progress", progressValidator.LessonID(), progressValidator.UpdateLessonProgress(), progressController.UpdateLessonProgress)
	progressGroup.Post("/lessons/:lessonId/complete", progressValidator.LessonID(), progressController.MarkLessonComplete)
	progressGroup.Get("/lessons/:lessonId", progressValidator.LessonID(), progressController.GetLessonProgress)
	progressGroup.Get("/courses/:courseId/progress", progressValidator.CourseID(), progressController.GetCourseProgress)
	progressGroup.Get("/stats", progressController.GetLearningStats)
}
