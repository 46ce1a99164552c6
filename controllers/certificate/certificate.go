package certificateController

import (
	"log"
	"os"

	"smartlearn/database"
	"smartlearn/middleware"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	"smartlearn/utils"

	"github.com/gofiber/fiber/v2"
)

// GenerateCertificate renders the PDF for a completed enrollment. The row is
// created on completion; this endpoint materializes the file and records its
// download URL. Safe to call again after a lost file.
func GenerateCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only generate certificates for your own enrollments!", nil)
	}

	if !enrollment.IsCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not completed yet!", nil)
	}

	cert, _, err := utils.EnsureCertificate(enrollment.UserID, enrollment.CourseID)
	if err != nil {
		log.Printf("Error ensuring certificate for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	var student models.User
	db.Where("id = ?", enrollment.UserID).First(&student)

	var course courseModels.Course
	db.Where("id = ?", enrollment.CourseID).First(&course)

	var instructor models.User
	db.Where("id = ?", course.InstructorID).First(&instructor)

	completedAt := cert.IssuedAt
	if enrollment.CompletedAt != nil {
		completedAt = *enrollment.CompletedAt
	}

	if _, err := utils.RenderCertificate(utils.CertificateData{
		StudentName:    student.Name,
		StudentEmail:   student.Email,
		CourseTitle:    course.Title,
		InstructorName: instructor.Name,
		CompletionDate: completedAt,
		CertificateID:  cert.CertificateNumber,
	}); err != nil {
		log.Printf("Error rendering certificate %s: %v", cert.CertificateNumber, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	downloadURL := utils.CertificateDownloadURL(cert.CertificateNumber)
	if cert.CertificateURL != downloadURL {
		if err := db.Model(cert).Update("certificate_url", downloadURL).Error; err != nil {
			log.Printf("Error saving certificate URL for %s: %v", cert.CertificateNumber, err)
		}
		cert.CertificateURL = downloadURL
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate generated successfully!", cert)
}

// GetUserCertificates lists the caller's certificates with course titles
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		result[i] = CertificateWithCourse{Certificate: cert}

		var course courseModels.Course
		if err := database.Database.Db.Select("title").Where("id = ?", cert.CourseID).First(&course).Error; err == nil {
			result[i].CourseTitle = course.Title
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", result)
}

// DownloadCertificate streams the PDF. Owner or ADMIN only.
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	certificateNumber := c.Locals("certificateNumber").(string)

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("certificate_number = ?", certificateNumber).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if cert.UserID != userID && role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only download your own certificates!", nil)
	}

	filePath := utils.CertificateFilePath(cert.CertificateNumber)
	if _, err := os.Stat(filePath); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate file has not been generated yet!", nil)
	}

	return c.Download(filePath, "certificate-"+cert.CertificateNumber+".pdf")
}

// DeleteCertificate hard-deletes a certificate row and its PDF so the pair
// can be re-issued. ADMIN only.
func DeleteCertificate(c *fiber.Ctx) error {
	certificateNumber := c.Locals("certificateNumber").(string)

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("certificate_number = ?", certificateNumber).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if err := database.Database.Db.Unscoped().Delete(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete certificate!", nil)
	}

	if err := utils.DeleteCertificateFile(cert.CertificateNumber); err != nil {
		log.Printf("Error removing certificate file %s: %v", cert.CertificateNumber, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate deleted successfully!", nil)
}
