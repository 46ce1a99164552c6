package courseController

import (
	"smartlearn/database"
	"smartlearn/middleware"
	courseModels "smartlearn/models/course"
	courseValidator "smartlearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// orderTaken reports whether a live lesson in the course already uses the
// order slot, ignoring the lesson being edited
func orderTaken(courseID uint, order int, excludeLessonID uint) bool {
	var count int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND lesson_order = ? AND is_deleted = ? AND id <> ?", courseID, order, false, excludeLessonID).
		Count(&count)
	return count > 0
}

// CreateLesson adds a lesson to a course owned by the caller
func CreateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only add lessons to your own courses!", nil)
	}

	// No two lessons in a course may share an order value
	if orderTaken(course.ID, reqData.Order, 0) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order already exists in this course!", nil)
	}

	lessonType := reqData.Type
	if lessonType == "" {
		lessonType = "VIDEO"
	}

	lesson := courseModels.Lesson{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Type:        lessonType,
		Order:       reqData.Order,
		Duration:    reqData.Duration,
		VideoURL:    reqData.VideoURL,
		Content:     reqData.Content,
		IsPreview:   reqData.IsPreview,
	}
	if len(reqData.QuizData) > 0 {
		lesson.QuizData = datatypes.JSON(reqData.QuizData)
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// UpdateLesson applies a partial edit to a lesson in the caller's course
func UpdateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedLessonUpdate").(*courseValidator.LessonUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update lessons in your own courses!", nil)
	}

	if reqData.Order != nil && *reqData.Order != lesson.Order {
		if orderTaken(course.ID, *reqData.Order, lesson.ID) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order already exists in this course!", nil)
		}
		lesson.Order = *reqData.Order
	}

	if reqData.Title != nil {
		lesson.Title = *reqData.Title
	}
	if reqData.Description != nil {
		lesson.Description = *reqData.Description
	}
	if reqData.Type != nil {
		lesson.Type = *reqData.Type
	}
	if reqData.Duration != nil {
		lesson.Duration = *reqData.Duration
	}
	if reqData.VideoURL != nil {
		lesson.VideoURL = *reqData.VideoURL
	}
	if reqData.Content != nil {
		lesson.Content = *reqData.Content
	}
	if len(reqData.QuizData) > 0 {
		lesson.QuizData = datatypes.JSON(reqData.QuizData)
	}
	if reqData.IsPreview != nil {
		lesson.IsPreview = *reqData.IsPreview
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson soft-deletes a lesson, freeing its order slot. Enrollment
// percentages pick the new denominator up on the next recompute or the
// nightly reconciliation.
func DeleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.InstructorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete lessons in your own courses!", nil)
	}

	if err := database.Database.Db.Model(&lesson).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// GetLesson returns full lesson content for enrolled students, the owning
// instructor, or an admin. Preview lessons are open to any signed-in user.
func GetLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if !lesson.IsPreview && role != "ADMIN" {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", lesson.CourseID).First(&course)

		if course.InstructorID != userID {
			var enrollment courseModels.Enrollment
			if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).First(&enrollment).Error; err != nil {
				return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to view this lesson!", nil)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}
