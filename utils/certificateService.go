package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smartlearn/config"
	"smartlearn/database"
	courseModels "smartlearn/models/course"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// CertificateData carries everything the PDF layout needs
type CertificateData struct {
	StudentName    string
	StudentEmail   string
	CourseTitle    string
	InstructorName string
	CompletionDate time.Time
	CertificateID  string
}

// EnsureCertificate returns the certificate row for (user, course), creating
// it when absent. The unique index on the pair makes the insert the loser of
// a race; in that case the existing row is re-fetched. The bool reports
// whether a new row was created.
func EnsureCertificate(userID, courseID uint) (*courseModels.Certificate, bool, error) {
	db := database.Database.Db

	var cert courseModels.Certificate
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err == nil {
		return &cert, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cert = courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: uuid.NewString(),
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&cert).Error; err != nil {
		// Lost the race: another request inserted the pair first
		if ferr := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error; ferr == nil {
			return &cert, false, nil
		}
		return nil, false, err
	}

	return &cert, true, nil
}

// CertificateFilePath returns the on-disk path for a certificate PDF
func CertificateFilePath(certificateNumber string) string {
	return filepath.Join(config.AppConfig.CertificatesDir, fmt.Sprintf("certificate-%s.pdf", certificateNumber))
}

// CertificateDownloadURL returns the public retrieval handle for a certificate
func CertificateDownloadURL(certificateNumber string) string {
	return fmt.Sprintf("%s/certificates/%s/download", config.AppConfig.PublicBaseURL, certificateNumber)
}

// RenderCertificate draws the completion certificate and writes it next to
// previously generated ones. The layout is deterministic; re-rendering the
// same certificate number overwrites the prior file.
func RenderCertificate(data CertificateData) (string, error) {
	if err := os.MkdirAll(config.AppConfig.CertificatesDir, 0o755); err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()

	// Double border
	pdf.SetDrawColor(30, 64, 175)
	pdf.SetLineWidth(3)
	pdf.Rect(20, 20, pageWidth-40, pageHeight-40, "D")
	pdf.SetDrawColor(59, 130, 246)
	pdf.SetLineWidth(1)
	pdf.Rect(30, 30, pageWidth-60, pageHeight-60, "D")

	// Header
	pdf.SetTextColor(30, 64, 175)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetY(80)
	pdf.CellFormat(0, 28, "CERTIFICATE OF COMPLETION", "", 1, "C", false, 0, "")

	pdf.SetTextColor(59, 130, 246)
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetY(120)
	pdf.CellFormat(0, 20, "SmartLearn E-Learning Platform", "", 1, "C", false, 0, "")

	pdf.SetDrawColor(229, 231, 235)
	pdf.SetLineWidth(2)
	pdf.Line(150, 160, pageWidth-150, 160)

	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Helvetica", "", 18)
	pdf.SetY(200)
	pdf.CellFormat(0, 22, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.SetTextColor(30, 64, 175)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetY(240)
	pdf.CellFormat(0, 36, tr(data.StudentName), "", 1, "C", false, 0, "")

	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Helvetica", "", 18)
	pdf.SetY(300)
	pdf.CellFormat(0, 22, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.SetTextColor(30, 64, 175)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetY(340)
	pdf.CellFormat(0, 28, tr(data.CourseTitle), "", 1, "C", false, 0, "")

	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetY(390)
	pdf.CellFormat(0, 20, tr(fmt.Sprintf("Instructor: %s", data.InstructorName)), "", 1, "C", false, 0, "")

	pdf.SetTextColor(107, 114, 128)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetY(450)
	pdf.CellFormat(0, 18, fmt.Sprintf("Completed on %s", data.CompletionDate.Format("January 2, 2006")), "", 1, "C", false, 0, "")

	pdf.SetTextColor(156, 163, 175)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetY(480)
	pdf.CellFormat(0, 14, fmt.Sprintf("Certificate ID: %s", data.CertificateID), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(229, 231, 235)
	pdf.SetLineWidth(1)
	pdf.Line(150, 520, pageWidth-150, 520)

	// Signature block
	pdf.SetTextColor(107, 114, 128)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(pageWidth-220, 540)
	pdf.CellFormat(140, 16, "SmartLearn Administration", "", 0, "C", false, 0, "")
	pdf.SetDrawColor(156, 163, 175)
	pdf.Line(pageWidth-200, 562, pageWidth-80, 562)

	filePath := CertificateFilePath(data.CertificateID)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	return filePath, nil
}

// DeleteCertificateFile removes a rendered PDF. Missing files are not an
// error; the row may have been created without a render.
func DeleteCertificateFile(certificateNumber string) error {
	err := os.Remove(CertificateFilePath(certificateNumber))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
