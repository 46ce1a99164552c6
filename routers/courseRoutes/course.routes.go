package courseRoutes

import (
	courseController "smartlearn/controllers/course"
	reviewController "smartlearn/controllers/review"
	"smartlearn/middleware"
	courseValidator "smartlearn/validators/course"
	reviewValidator "smartlearn/validators/review"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the public catalog, instructor authoring, and
// lesson routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Public catalog
	courseGroup.Get("/", courseValidator.List(), courseController.GetAllCourses)

	// Instructor authoring
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), courseValidator.CreateCourse(), courseController.CreateCourse)
	courseGroup.Get("/mine", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), courseController.GetMyCourses)

	courseGroup.Get("/:id", courseValidator.CourseID(), courseController.GetCourseDetails)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), courseValidator.CourseID(), courseValidator.CreateCourse(), courseController.UpdateCourse)
	courseGroup.Patch("/:id/submit", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), courseValidator.CourseID(), courseController.SubmitCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR", "ADMIN"), courseValidator.CourseID(), courseController.DeleteCourse)
	courseGroup.Get("/:id/enrollments", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR", "ADMIN"), courseValidator.CourseID(), courseController.GetCourseEnrollments)

	// Lessons
	courseGroup.Post("/:id/lessons", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), courseValidator.CourseID(), courseValidator.CreateLesson(), courseController.CreateLesson)

	lessonGroup := app.Group("/lessons")
	lessonGroup.Get("/:id", middleware.JWTMiddleware, courseValidator.LessonID(), courseController.GetLesson)
	lessonGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), courseValidator.LessonID(), courseValidator.UpdateLesson(), courseController.UpdateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR"), courseValidator.LessonID(), courseController.DeleteLesson)

	// Reviews
	courseGroup.Get("/:id/reviews", courseValidator.CourseID(), reviewController.GetCourseReviews)

	reviewGroup := app.Group("/reviews")
	reviewGroup.Post("/", middleware.JWTMiddleware, reviewValidator.Create(), reviewController.CreateReview)
	reviewGroup.Put("/:id", middleware.JWTMiddleware, reviewValidator.ReviewID(), reviewValidator.Review(), reviewController.UpdateReview)
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, reviewValidator.ReviewID(), reviewController.DeleteReview)
}
