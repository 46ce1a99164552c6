package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"smartlearn/config"
	"smartlearn/database"
	"smartlearn/middleware"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	adminRoutes "smartlearn/routers/adminRoutes"
	authRoutes "smartlearn/routers/authRoutes"
	certificateRoutes "smartlearn/routers/certificateRoutes"
	courseRoutes "smartlearn/routers/courseRoutes"
	enrollmentRoutes "smartlearn/routers/enrollmentRoutes"
	progressRoutes "smartlearn/routers/progressRoutes"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// SetupApp builds a fiber app with every route registered against a fresh
// in-memory database. Each call gets its own database so tests stay isolated.
func SetupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:            "3000",
		JWTKey:          "test-secret",
		SaltRound:       bcrypt.MinCost,
		CertificatesDir: t.TempDir(),
		PublicBaseURL:   "http://localhost:3000",
		EmailSender:     "no-reply@test.local",
	}

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	return app
}

// CreateUser inserts a user and returns it with a valid bearer token
func CreateUser(t *testing.T, name, email, role string) (models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := database.Database.Db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return user, token
}

// CreateCourse inserts a published course for the instructor
func CreateCourse(t *testing.T, instructorID uint, title string) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:        title,
		Description:  "Test course",
		InstructorID: instructorID,
		Price:        49.99,
		Category:     "Programming",
		Level:        "BEGINNER",
		Status:       "PUBLISHED",
		IsPublished:  true,
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}
	return course
}

// CreateDraftCourse inserts an unpublished course for the instructor
func CreateDraftCourse(t *testing.T, instructorID uint, title string) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:        title,
		Description:  "Draft course",
		InstructorID: instructorID,
		Category:     "Programming",
		Level:        "BEGINNER",
		Status:       "DRAFT",
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create draft course: %v", err)
	}
	return course
}

// CreateLesson inserts a lesson at the given order
func CreateLesson(t *testing.T, courseID uint, title string, order int) courseModels.Lesson {
	t.Helper()

	lesson := courseModels.Lesson{
		CourseID: courseID,
		Title:    title,
		Type:     "VIDEO",
		Order:    order,
		Duration: 600,
	}
	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		t.Fatalf("failed to create lesson: %v", err)
	}
	return lesson
}

// Enroll inserts an enrollment row directly
func Enroll(t *testing.T, userID, courseID uint) courseModels.Enrollment {
	t.Helper()

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		t.Fatalf("failed to create enrollment: %v", err)
	}
	return enrollment
}

// Request performs a JSON request against the app and decodes the envelope
func Request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("failed to decode response body %q: %v", string(raw), err)
		}
	}

	return resp, decoded
}
