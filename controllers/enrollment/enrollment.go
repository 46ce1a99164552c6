package enrollmentController

import (
	"errors"

	progressController "smartlearn/controllers/progress"
	"smartlearn/database"
	"smartlearn/middleware"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	"smartlearn/utils"
	enrollmentValidator "smartlearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInCourse creates the enrollment after the gate checks, in order:
// course exists, course is open for enrollment, caller is not the course's
// instructor, caller is not already enrolled. First failure wins.
func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedEnroll").(*enrollmentValidator.EnrollRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	courseID := reqData.CourseID

	// Check if course exists
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Only published courses accept enrollments
	if course.Status != "PUBLISHED" || !course.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not available for enrollment!", nil)
	}

	// An instructor cannot enroll in their own course
	if course.InstructorID == userID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot enroll in your own course!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}

	// The unique index on (user_id, course_id) is the duplicate check; a
	// read-then-create would 500 when two submits race the window
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	go utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Successfully enrolled in course!", fiber.Map{
		"enrollment":   enrollment,
		"course_title": course.Title,
	})
}

// GetEnrollments lists the caller's enrollments with course summaries
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*enrollmentValidator.ListRequest)
	if !ok {
		reqData = &enrollmentValidator.ListRequest{Page: 1, Limit: 12}
	}
	offset := (reqData.Page - 1) * reqData.Limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ?", userID)
	if reqData.Status == "completed" {
		db = db.Where("is_completed = ?", true)
	} else if reqData.Status == "active" {
		db = db.Where("is_completed = ?", false)
	}

	// Get total count
	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(reqData.Limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseTitle     string `json:"course_title"`
		CourseThumbnail string `json:"course_thumbnail"`
		InstructorName  string `json:"instructor_name"`
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		result[i] = EnrollmentWithCourse{Enrollment: e}

		var course courseModels.Course
		if err := database.Database.Db.Where("id = ?", e.CourseID).First(&course).Error; err == nil {
			result[i].CourseTitle = course.Title
			result[i].CourseThumbnail = course.ThumbnailURL

			var instructor models.User
			if err := database.Database.Db.Select("name").Where("id = ?", course.InstructorID).First(&instructor).Error; err == nil {
				result[i].InstructorName = instructor.Name
			}
		}
	}

	response := map[string]interface{}{
		"enrollments": result,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// GetEnrollmentByID returns one enrollment with the course's lessons merged
// with the owner's progress. Owner or ADMIN only.
func GetEnrollmentByID(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	enrollmentID := c.Locals("enrollmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.UserID != userID && role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only access your own enrollments!", nil)
	}

	var course courseModels.Course
	database.Database.Db.Where("id = ?", enrollment.CourseID).First(&course)

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Order("lesson_order asc").Find(&lessons)

	var progresses []courseModels.LessonProgress
	database.Database.Db.Where("user_id = ? AND course_id = ?", enrollment.UserID, enrollment.CourseID).Find(&progresses)

	progressByLesson := make(map[uint]courseModels.LessonProgress, len(progresses))
	for _, p := range progresses {
		progressByLesson[p.LessonID] = p
	}

	lessonResult := make([]fiber.Map, len(lessons))
	for i, lesson := range lessons {
		entry := fiber.Map{
			"id":         lesson.ID,
			"title":      lesson.Title,
			"type":       lesson.Type,
			"order":      lesson.Order,
			"duration":   lesson.Duration,
			"is_preview": lesson.IsPreview,
		}
		if p, found := progressByLesson[lesson.ID]; found {
			entry["progress"] = fiber.Map{
				"is_completed": p.IsCompleted,
				"watch_time":   p.WatchTime,
				"completed_at": p.CompletedAt,
			}
		} else {
			entry["progress"] = fiber.Map{
				"is_completed": false,
				"watch_time":   0,
				"completed_at": nil,
			}
		}
		lessonResult[i] = entry
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"course":     course,
		"lessons":    lessonResult,
	})
}

// UpdateProgress is the manual override path. It clamps to [0,100] and
// writes progress only; completion state is owned by the lesson-driven
// recompute and the explicit completion endpoint.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	reqData, ok := c.Locals("validatedProgressOverride").(*enrollmentValidator.ProgressOverrideRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	// Check ownership
	if enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own enrollment progress!", nil)
	}

	progress := utils.ClampProgress(*reqData.Progress)
	if err := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("id = ?", enrollment.ID).
		Update("progress", progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	enrollment.Progress = progress

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// CompleteCourse is the explicit completion endpoint. Calling it on an
// already completed enrollment is an error, not a no-op.
func CompleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	// Check ownership
	if enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only complete your own enrollments!", nil)
	}

	if enrollment.IsCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is already completed!", nil)
	}

	transitioned, err := progressController.TryCompleteEnrollment(enrollment.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete course!", nil)
	}
	if !transitioned {
		// Lost a race with the lesson-driven path between the read above
		// and the guarded update
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is already completed!", nil)
	}

	database.Database.Db.Where("id = ?", enrollment.ID).First(&enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Congratulations! Course completed successfully!", enrollment)
}
