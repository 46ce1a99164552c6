package progressController

import (
	"time"

	"smartlearn/database"
	"smartlearn/middleware"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	"smartlearn/utils"
	progressValidator "smartlearn/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// UpdateLessonProgress is the partial upsert behind
// PUT /progress/lessons/:lessonId/progress. Omitted fields keep their prior
// values; a false→true completion stamps completedAt.
func UpdateLessonProgress(c *fiber.Ctx) error {
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

	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedLessonProgress").(*progressValidator.LessonProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if lesson exists
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	// Check if user is enrolled in the lesson's course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to track progress!", nil)
	}

	lessonProgress, err := upsertLessonProgress(userID, lesson, reqData.IsCompleted, reqData.WatchTime)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson progress!", nil)
	}

	// Recalculate course progress
	progress, err := UpdateCourseProgress(userID, lesson.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress updated successfully!", fiber.Map{
		"lesson_progress": lessonProgress,
		"course_progress": progress,
	})
}

// MarkLessonComplete is the shortcut behind
// POST /progress/lessons/:lessonId/complete
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to track progress!", nil)
	}

	completed := true
	lessonProgress, err := upsertLessonProgress(userID, lesson, &completed, nil)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson as completed!", nil)
	}

	progress, err := UpdateCourseProgress(userID, lesson.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", fiber.Map{
		"lesson_progress": lessonProgress,
		"course_progress": progress,
	})
}

// upsertLessonProgress creates the record on first interaction, otherwise
// applies only the supplied fields. completedAt is stamped on the false→true
// transition and never cleared afterwards.
func upsertLessonProgress(userID uint, lesson courseModels.Lesson, isCompleted *bool, watchTime *int) (*courseModels.LessonProgress, error) {
	db := database.Database.Db
	now := time.Now()

	var lessonProgress courseModels.LessonProgress
	err := db.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&lessonProgress).Error
	if err != nil {
		lessonProgress = courseModels.LessonProgress{
			UserID:   userID,
			LessonID: lesson.ID,
			CourseID: lesson.CourseID,
		}
		if isCompleted != nil {
			lessonProgress.IsCompleted = *isCompleted
			if *isCompleted {
				lessonProgress.CompletedAt = &now
			}
		}
		if watchTime != nil {
			lessonProgress.WatchTime = *watchTime
		}
		if err := db.Create(&lessonProgress).Error; err != nil {
			return nil, err
		}
		return &lessonProgress, nil
	}

	if isCompleted != nil {
		if *isCompleted && !lessonProgress.IsCompleted {
			lessonProgress.CompletedAt = &now
		}
		lessonProgress.IsCompleted = *isCompleted
	}
	if watchTime != nil {
		lessonProgress.WatchTime = *watchTime
	}

	if err := db.Save(&lessonProgress).Error; err != nil {
		return nil, err
	}

	return &lessonProgress, nil
}

// GetLessonProgress returns the caller's record for one lesson, or a
// not-started default shape
func GetLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var lessonProgress courseModels.LessonProgress
	if err := database.Database.Db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&lessonProgress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress fetched successfully!", fiber.Map{
			"lesson_id":    lesson.ID,
			"is_completed": false,
			"watch_time":   0,
			"completed_at": nil,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress fetched successfully!", lessonProgress)
}

// GetCourseProgress is the aggregate view behind
// GET /progress/courses/:courseId/progress. Requires an enrollment.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// A user without an enrollment gets NotFound, not an empty overview
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var lessons []courseModels.Lesson
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("lesson_order asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	var progresses []courseModels.LessonProgress
	database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&progresses)

	progressByLesson := make(map[uint]courseModels.LessonProgress, len(progresses))
	for _, p := range progresses {
		progressByLesson[p.LessonID] = p
	}

	completedLessons := 0
	result := make([]fiber.Map, len(lessons))
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
			if p.IsCompleted {
				completedLessons++
			}
		} else {
			entry["progress"] = fiber.Map{
				"is_completed": false,
				"watch_time":   0,
				"completed_at": nil,
			}
		}
		result[i] = entry
	}

	overallProgress := 0.0
	if len(lessons) > 0 {
		overallProgress = utils.Round1(float64(completedLessons) / float64(len(lessons)) * 100)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", fiber.Map{
		"enrollment":        enrollment,
		"overall_progress":  overallProgress,
		"total_lessons":     len(lessons),
		"completed_lessons": completedLessons,
		"lessons":           result,
	})
}

// GetLearningStats summarizes the caller's activity across all courses
func GetLearningStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("user_id = ?", userID).Order("updated_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch learning statistics!", nil)
	}

	completedCourses := 0
	inProgressCourses := 0
	progressSum := 0.0
	for _, e := range enrollments {
		if e.IsCompleted {
			completedCourses++
		} else if e.Progress > 0 {
			inProgressCourses++
		}
		progressSum += e.Progress
	}

	averageProgress := 0.0
	if len(enrollments) > 0 {
		averageProgress = utils.Round1(progressSum / float64(len(enrollments)))
	}

	var lessonsCompleted int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ? AND is_completed = ?", userID, true).Count(&lessonsCompleted)

	var totalWatchTime int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(watch_time), 0)").Scan(&totalWatchTime)

	var certificates int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", userID).Count(&certificates)

	// Recent courses, newest activity first
	type RecentCourse struct {
		CourseID uint    `json:"course_id"`
		Title    string  `json:"title"`
		Progress float64 `json:"progress"`
	}
	recent := make([]RecentCourse, 0, 5)
	for _, e := range enrollments {
		if len(recent) == 5 {
			break
		}
		var course courseModels.Course
		if err := db.First(&course, e.CourseID).Error; err == nil {
			recent = append(recent, RecentCourse{CourseID: course.ID, Title: course.Title, Progress: e.Progress})
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning statistics fetched successfully!", fiber.Map{
		"total_enrollments":        len(enrollments),
		"completed_courses":        completedCourses,
		"in_progress_courses":      inProgressCourses,
		"total_lessons_completed":  lessonsCompleted,
		"total_study_time_minutes": totalWatchTime / 60,
		"certificates_earned":      certificates,
		"average_progress":         averageProgress,
		"recent_courses":           recent,
	})
}
