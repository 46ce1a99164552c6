package reviewValidator

import (
	"strconv"
	"strings"

	"smartlearn/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateReviewRequest is the body of POST /reviews
type CreateReviewRequest struct {
	CourseID uint   `json:"courseId" validate:"required,gt=0"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// ReviewRequest is the update body
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ReviewID validates the :id path parameter
func ReviewID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviewIDStr := strings.TrimSpace(c.Params("id"))
		if reviewIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Review ID is required!", nil)
		}

		reviewID, err := strconv.Atoi(reviewIDStr)
		if err != nil || reviewID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Review ID!", nil)
		}

		c.Locals("reviewID", reviewID)
		return c.Next()
	}
}

// Create validates the review creation body
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateReviewRequest)

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

		c.Locals("validatedCreateReview", reqData)
		return c.Next()
	}
}

// Review validates the review update body
func Review() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)

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

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
