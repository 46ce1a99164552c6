package enrollmentValidator

import (
	"strconv"
	"strings"

	"smartlearn/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// EnrollRequest is the body of POST /enrollments/enroll
type EnrollRequest struct {
	CourseID uint `json:"courseId" validate:"required,gt=0"`
}

// ProgressOverrideRequest is the body of PATCH /enrollments/:id/progress
type ProgressOverrideRequest struct {
	Progress *float64 `json:"progress" validate:"required"`
}

// ListRequest carries pagination and the optional status filter
type ListRequest struct {
	Page   int
	Limit  int
	Status string // "", "active" or "completed"
}

// Enroll validates the enrollment body
func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// EnrollmentID validates the :id path parameter
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

// UpdateProgress validates the manual progress override body
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressOverrideRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Progress is required!", nil)
		}

		c.Locals("validatedProgressOverride", reqData)
		return c.Next()
	}
}

// List validates pagination and the status filter query parameters
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

		status := c.Query("status")
		if status != "" && status != "active" && status != "completed" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be active or completed!", nil)
		}
		reqData.Status = status

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}
