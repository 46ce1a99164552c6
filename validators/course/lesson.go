package courseValidator

import (
	"encoding/json"
	"strconv"
	"strings"

	"smartlearn/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LessonRequest is the instructor-facing lesson creation body
type LessonRequest struct {
	Title       string          `json:"title" validate:"required,min=2,max=200"`
	Description string          `json:"description"`
	Type        string          `json:"type" validate:"omitempty,oneof=VIDEO TEXT PDF QUIZ"`
	Order       int             `json:"order" validate:"required,gt=0"`
	Duration    int             `json:"duration" validate:"gte=0"`
	VideoURL    string          `json:"video_url"`
	Content     string          `json:"content"`
	QuizData    json.RawMessage `json:"quiz_data"`
	IsPreview   bool            `json:"is_preview"`
}

// LessonUpdateRequest is a partial update: only supplied fields change
type LessonUpdateRequest struct {
	Title       *string         `json:"title" validate:"omitempty,min=2,max=200"`
	Description *string         `json:"description"`
	Type        *string         `json:"type" validate:"omitempty,oneof=VIDEO TEXT PDF QUIZ"`
	Order       *int            `json:"order" validate:"omitempty,gt=0"`
	Duration    *int            `json:"duration" validate:"omitempty,gte=0"`
	VideoURL    *string         `json:"video_url"`
	Content     *string         `json:"content"`
	QuizData    json.RawMessage `json:"quiz_data"`
	IsPreview   *bool           `json:"is_preview"`
}

// LessonID validates the :id path parameter on lesson routes
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("id"))
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

// CreateLesson validates the lesson creation body
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validates the partial lesson update body
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonUpdateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson data!", nil)
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}
