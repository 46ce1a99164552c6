package courseController

import (
	"strconv"
	"strings"

	"smartlearn/database"
	"smartlearn/middleware"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	"smartlearn/utils"
	courseValidator "smartlearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats returns platform-wide aggregates for the admin dashboard
func GetAdminStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalStudents, totalInstructors int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&models.User{}).Where("is_deleted = ? AND role = ?", false, "STUDENT").Count(&totalStudents)
	db.Model(&models.User{}).Where("is_deleted = ? AND role = ?", false, "INSTRUCTOR").Count(&totalInstructors)

	var totalCourses, publishedCourses, pendingCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND status = ?", false, "PUBLISHED").Count(&publishedCourses)
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND status = ?", false, "PENDING_APPROVAL").Count(&pendingCourses)

	var totalEnrollments, completedEnrollments int64
	db.Model(&courseModels.Enrollment{}).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_completed = ?", true).Count(&completedEnrollments)

	var totalCertificates int64
	db.Model(&courseModels.Certificate{}).Count(&totalCertificates)

	// Revenue is the sum of course prices across enrollments
	var totalRevenue float64
	db.Model(&courseModels.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Select("COALESCE(SUM(courses.price), 0)").Scan(&totalRevenue)

	stats := fiber.Map{
		"users": fiber.Map{
			"total":       totalUsers,
			"students":    totalStudents,
			"instructors": totalInstructors,
		},
		"courses": fiber.Map{
			"total":            totalCourses,
			"published":        publishedCourses,
			"pending_approval": pendingCourses,
		},
		"enrollments": fiber.Map{
			"total":     totalEnrollments,
			"completed": completedEnrollments,
		},
		"certificates":  totalCertificates,
		"total_revenue": totalRevenue,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Platform stats fetched successfully!", stats)
}

// GetPendingCourses lists courses waiting for moderation, oldest first
func GetPendingCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("is_deleted = ? AND status = ?", false, "PENDING_APPROVAL").
		Order("updated_at asc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending courses!", nil)
	}

	result := make([]fiber.Map, len(courses))
	for i, course := range courses {
		result[i] = courseSummary(course)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending courses fetched successfully!", result)
}

// ApproveCourse publishes a pending course and notifies the instructor
func ApproveCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != "PENDING_APPROVAL" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not pending approval!", nil)
	}

	course.Status = "PUBLISHED"
	course.IsPublished = true
	course.RejectionReason = ""

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve course!", nil)
	}

	var instructor models.User
	if err := database.Database.Db.Where("id = ?", course.InstructorID).First(&instructor).Error; err == nil {
		go utils.SendCourseApprovedEmail(instructor.Email, instructor.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course approved successfully!", course)
}

// RejectCourse sends a pending course back to DRAFT with a reason
func RejectCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedReject").(*courseValidator.RejectRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != "PENDING_APPROVAL" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not pending approval!", nil)
	}

	course.Status = "DRAFT"
	course.IsPublished = false
	course.RejectionReason = reqData.Reason

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject course!", nil)
	}

	var instructor models.User
	if err := database.Database.Db.Where("id = ?", course.InstructorID).First(&instructor).Error; err == nil {
		go utils.SendCourseRejectedEmail(instructor.Email, instructor.Name, course.Title, reqData.Reason)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course rejected!", course)
}

// GetUsers lists platform users with role, status, and search filters
func GetUsers(c *fiber.Ctx) error {
	page := 1
	limit := 20
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)

	if role := strings.TrimSpace(c.Query("role")); role != "" {
		db = db.Where("role = ?", strings.ToUpper(role))
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		db = db.Where("is_active = ?", strings.EqualFold(status, "active"))
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		db = db.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", response)
}

// UpdateUserStatus activates or deactivates a user account
func UpdateUserStatus(c *fiber.Ctx) error {
	userIDStr := strings.TrimSpace(c.Params("id"))
	targetID, err := strconv.Atoi(userIDStr)
	if err != nil || targetID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin accounts cannot be deactivated!", nil)
	}

	if err := database.Database.Db.Model(&user).Update("is_active", !user.IsActive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user status!", nil)
	}

	user.IsActive = !user.IsActive
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated successfully!", user)
}

// DeleteUser soft-deletes a user account. The email is prefixed so the
// address can register again later.
func DeleteUser(c *fiber.Ctx) error {
	callerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	userIDStr := strings.TrimSpace(c.Params("id"))
	targetID, err := strconv.Atoi(userIDStr)
	if err != nil || targetID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.ID == callerID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	if err := database.Database.Db.Model(&user).Updates(map[string]interface{}{
		"is_deleted": true,
		"is_active":  false,
		"email":      "deleted_" + user.Email,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}
