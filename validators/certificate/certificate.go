package certificateValidator

import (
	"strconv"
	"strings"

	"smartlearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentID validates the :enrollmentId path parameter
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentIDStr := strings.TrimSpace(c.Params("enrollmentId"))
		if enrollmentIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		enrollmentID, err := strconv.Atoi(enrollmentIDStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		return c.Next()
	}
}

// CertificateNumber validates the :certificateNumber path parameter
func CertificateNumber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.TrimSpace(c.Params("certificateNumber"))
		if number == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
		}

		c.Locals("certificateNumber", number)
		return c.Next()
	}
}
