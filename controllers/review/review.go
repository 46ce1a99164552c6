package reviewController

import (
	"strconv"

	"smartlearn/database"
	"smartlearn/middleware"
	"smartlearn/models"
	courseModels "smartlearn/models/course"
	reviewValidator "smartlearn/validators/review"

	"github.com/gofiber/fiber/v2"
)

// CreateReview lets an enrolled student rate a course once
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateReview").(*reviewValidator.CreateReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	courseID := reqData.CourseID

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Reviews are for students with an enrollment
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to leave a review!", nil)
	}

	var existing models.Review
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	review := models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}

	if err := db.Create(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review created successfully!", review)
}

// GetCourseReviews lists a course's reviews, newest first. Public.
func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	page := 1
	limit := 10
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

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	query := db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", courseID, false)

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	type ReviewWithAuthor struct {
		models.Review
		AuthorName   string `json:"author_name"`
		AuthorAvatar string `json:"author_avatar"`
	}

	result := make([]ReviewWithAuthor, len(reviews))
	for i, review := range reviews {
		result[i] = ReviewWithAuthor{Review: review}

		var author models.User
		if err := db.Select("name, avatar").Where("id = ?", review.UserID).First(&author).Error; err == nil {
			result[i].AuthorName = author.Name
			result[i].AuthorAvatar = author.Avatar
		}
	}

	var avgRating float64
	if total > 0 {
		db.Model(&models.Review{}).Where("course_id = ? AND is_deleted = ?", courseID, false).
			Select("AVG(rating)").Scan(&avgRating)
	}

	response := map[string]interface{}{
		"reviews":        result,
		"average_rating": avgRating,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", response)
}

// UpdateReview edits the caller's own review
func UpdateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reviewID := c.Locals("reviewID").(int)

	reqData, ok := c.Locals("validatedReview").(*reviewValidator.ReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var review models.Review
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reviewID, false).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	if review.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own reviews!", nil)
	}

	review.Rating = reqData.Rating
	review.Comment = reqData.Comment

	if err := database.Database.Db.Save(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// DeleteReview removes a review. Author or ADMIN only.
func DeleteReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	reviewID := c.Locals("reviewID").(int)

	var review models.Review
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reviewID, false).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	if review.UserID != userID && role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own reviews!", nil)
	}

	if err := database.Database.Db.Model(&review).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}
