package courseValidator

import (
	"strconv"
	"strings"

	"smartlearn/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CourseRequest is the instructor-facing create/update body
type CourseRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"gte=0"`
	Category     string  `json:"category"`
	Level        string  `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

// RejectRequest carries the moderation reason
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ListRequest carries catalog filters and pagination
type ListRequest struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Level    string
}

// CourseID validates the :id path parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
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

// List validates catalog query parameters
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &ListRequest{Page: 1, Limit: 12}

		if pageStr := c.Query("page"); pageStr != "" {
			page, err := strconv.Atoi(pageStr)
			if err != nil || page < 1 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Page must be greater than 0!", nil)
			}
			reqData.Page = page
		}

		if limitStr := c.Query("limit"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit < 1 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Limit must be greater than 0!", nil)
			}
			reqData.Limit = limit
		}

		reqData.Search = strings.TrimSpace(c.Query("search"))
		reqData.Category = strings.TrimSpace(c.Query("category"))
		reqData.Level = strings.TrimSpace(c.Query("level"))

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// CreateCourse validates the course body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)

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

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// Reject validates the moderation rejection body
func Reject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RejectRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rejection reason is required!", nil)
		}

		c.Locals("validatedReject", reqData)
		return c.Next()
	}
}
