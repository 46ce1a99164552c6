package progressValidator

import (
	"strconv"
	"strings"

	"smartlearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// LessonProgressRequest is a partial update: only supplied fields change
type LessonProgressRequest struct {
	IsCompleted *bool `json:"isCompleted"`
	WatchTime   *int  `json:"watchTime"`
}

// LessonID validates the :lessonId path parameter
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lessonId"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// CourseID validates the :courseId path parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("courseId"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// UpdateLessonProgress validates the partial lesson progress body
func UpdateLessonProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonProgressRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.WatchTime != nil && *reqData.WatchTime < 0 {
			errors["watchTime"] = "Watch time cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonProgress", reqData)
		return c.Next()
	}
}
