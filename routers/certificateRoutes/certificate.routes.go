package certificateRoutes

import (
	certificateController "smartlearn/controllers/certificate"
	"smartlearn/middleware"
	certificateValidator "smartlearn/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up certificate generation and retrieval routes
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificates", middleware.JWTMiddleware)

	certGroup.Post("/generate/:enrollmentId", certificateValidator.EnrollmentID(), certificateController.GenerateCertificate)
	certGroup.Get("/", certificateController.GetUserCertificates)
	certGroup.Get("/:certificateNumber/download", certificateValidator.CertificateNumber(), certificateController.DownloadCertificate)
	certGroup.Delete("/:certificateNumber", middleware.RequireRole("ADMIN"), certificateValidator.CertificateNumber(), certificateController.DeleteCertificate)
}
