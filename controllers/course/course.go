package courseController

import (
	"smartlearn/database"
	"smartlearn/middleware"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	courseValidator "smartlearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists the published catalog with search and filters
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*courseValidator.ListRequest)
	if !ok {
		reqData = &courseValidator.ListRequest{Page: 1, Limit: 12}
	}
	offset := (reqData.Page - 1) * reqData.Limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND status = ? AND is_published = ?", false, "PUBLISHED", true)

	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		db = db.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Level != "" {
		db = db.Where("level = ?", reqData.Level)
	}

	// Get total count
	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(reqData.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]fiber.Map, len(courses))
	for i, course := range courses {
		result[i] = courseSummary(course)
	}

	response := map[string]interface{}{
		"courses": result,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// courseSummary enriches a catalog row with instructor and review data
func courseSummary(course courseModels.Course) fiber.Map {
	db := database.Database.Db

	var instructor models.User
	db.Select("id, name, avatar").Where("id = ?", course.InstructorID).First(&instructor)

	var lessonCount int64
	db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&lessonCount)

	var enrollmentCount int64
	db.Model(&courseModels.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollmentCount)

	var avgRating float64
	var reviewCount int64
	db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&reviewCount)
	if reviewCount > 0 {
		db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Select("AVG(rating)").Scan(&avgRating)
	}

	return fiber.Map{
		"course": course,
		"instructor": fiber.Map{
			"id":     instructor.ID,
			"name":   instructor.Name,
			"avatar": instructor.Avatar,
		},
		"lesson_count":     lessonCount,
		"enrollment_count": enrollmentCount,
		"average_rating":   avgRating,
		"review_count":     reviewCount,
	}
}

// GetCourseDetails returns one published course with its lesson outline.
// Lesson content is withheld; preview lessons are marked so the player can
// offer them to un-enrolled visitors.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ? AND is_published = ?",
		courseID, false, "PUBLISHED", true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("lesson_order asc").Find(&lessons)

	outline := make([]fiber.Map, len(lessons))
	for i, lesson := range lessons {
		outline[i] = fiber.Map{
			"id":         lesson.ID,
			"title":      lesson.Title,
			"type":       lesson.Type,
			"order":      lesson.Order,
			"duration":   lesson.Duration,
			"is_preview": lesson.IsPreview,
		}
	}

	summary := courseSummary(course)
	summary["lessons"] = outline

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", summary)
}

// CreateCourse creates a DRAFT course owned by the calling instructor
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	level := reqData.Level
	if level == "" {
		level = "BEGINNER"
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		InstructorID: userID,
		Price:        reqData.Price,
		Category:     reqData.Category,
		Level:        level,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       "DRAFT",
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse edits a DRAFT course owned by the caller
func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own courses!", nil)
	}

	if course.Status != "DRAFT" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only draft courses can be edited!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Price = reqData.Price
	course.Category = reqData.Category
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	course.ThumbnailURL = reqData.ThumbnailURL

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// SubmitCourse moves a DRAFT course into the moderation queue
func SubmitCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only submit your own courses!", nil)
	}

	if course.Status != "DRAFT" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only draft courses can be submitted for approval!", nil)
	}

	// A course needs at least one lesson before review
	var lessonCount int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&lessonCount)
	if lessonCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Add at least one lesson before submitting for approval!", nil)
	}

	course.Status = "PENDING_APPROVAL"
	course.RejectionReason = ""

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course submitted for approval!", course)
}

// DeleteCourse soft-deletes a course. Instructors may delete their own,
// admins any; a course with enrollments cannot be deleted.
func DeleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if role != "ADMIN" && course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own courses!", nil)
	}

	var enrollmentCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollmentCount)
	if enrollmentCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot delete course with active enrollments!", nil)
	}

	if err := database.Database.Db.Model(&course).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// GetMyCourses lists the calling instructor's courses in every status
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("instructor_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseEnrollments lists students of a course with their progress.
// Owning instructor or ADMIN only.
func GetCourseEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if role != "ADMIN" && course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view enrollments for your own courses!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ?", courseID).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course enrollments!", nil)
	}

	type EnrollmentWithStudent struct {
		courseModels.Enrollment
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	result := make([]EnrollmentWithStudent, len(enrollments))
	for i, e := range enrollments {
		result[i] = EnrollmentWithStudent{Enrollment: e}

		var student models.User
		if err := database.Database.Db.Select("name, email").Where("id = ?", e.UserID).First(&student).Error; err == nil {
			result[i].StudentName = student.Name
			result[i].StudentEmail = student.Email
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollments fetched successfully!", result)
}
