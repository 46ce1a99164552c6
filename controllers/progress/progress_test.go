package progressController_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	progressController "smartlearn/controllers/progress"
	"smartlearn/database"
	courseModels "smartlearn/models/course"
	"smartlearn/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseProgressRecomputedOnLessonCompletion(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	lessons := make([]courseModels.Lesson, 4)
	for i := range lessons {
		lessons[i] = testutil.CreateLesson(t, course.ID, "Lesson", i+1)
	}
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	// Complete three of four lessons
	for i := 0; i < 3; i++ {
		resp, body := testutil.Request(t, app, "POST", "/progress/lessons/"+itoa(lessons[i].ID)+"/complete", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, true, body["success"])
	}

	var updated courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, 75.0, updated.Progress)
	assert.False(t, updated.IsCompleted)
	assert.Nil(t, updated.CompletedAt)

	// Completing the last lesson completes the course and issues a certificate
	resp, body := testutil.Request(t, app, "POST", "/progress/lessons/"+itoa(lessons[3].ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 100.0, data["course_progress"])

	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, 100.0, updated.Progress)
	assert.True(t, updated.IsCompleted)
	require.NotNil(t, updated.CompletedAt)
	firstCompletedAt := *updated.CompletedAt

	var certCount int64
	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&certCount)
	assert.Equal(t, int64(1), certCount)

	// Re-completing a lesson must not move completedAt or mint another certificate
	resp, _ = testutil.Request(t, app, "POST", "/progress/lessons/"+itoa(lessons[0].ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.True(t, updated.CompletedAt.Equal(firstCompletedAt))

	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&certCount)
	assert.Equal(t, int64(1), certCount)
}

func TestPartialUpdateKeepsOmittedFields(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	lesson := testutil.CreateLesson(t, course.ID, "Intro", 1)
	testutil.Enroll(t, student.ID, course.ID)

	path := "/progress/lessons/" + itoa(lesson.ID)

	// Mark completed first
	resp, _ := testutil.Request(t, app, "PUT", path+"/progress", token, map[string]interface{}{"isCompleted": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Updating only watchTime must not clear the completion flag
	resp, _ = testutil.Request(t, app, "PUT", path+"/progress", token, map[string]interface{}{"watchTime": 340})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var progress courseModels.LessonProgress
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND lesson_id = ?", student.ID, lesson.ID).First(&progress).Error)
	assert.True(t, progress.IsCompleted)
	assert.Equal(t, 340, progress.WatchTime)
	assert.NotNil(t, progress.CompletedAt)
}

func TestProgressRequiresEnrollment(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	_, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	lesson := testutil.CreateLesson(t, course.ID, "Intro", 1)

	resp, body := testutil.Request(t, app, "POST", "/progress/lessons/"+itoa(lesson.ID)+"/complete", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestNegativeWatchTimeRejected(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	lesson := testutil.CreateLesson(t, course.ID, "Intro", 1)
	testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "PUT", "/progress/lessons/"+itoa(lesson.ID)+"/progress", token,
		map[string]interface{}{"watchTime": -5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCourseProgressOverviewRequiresEnrollment(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	_, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	testutil.CreateLesson(t, course.ID, "Intro", 1)

	resp, _ := testutil.Request(t, app, "GET", "/progress/courses/"+itoa(course.ID)+"/progress", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCourseProgressOverview(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	first := testutil.CreateLesson(t, course.ID, "Intro", 1)
	testutil.CreateLesson(t, course.ID, "Pointers", 2)
	testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "POST", "/progress/lessons/"+itoa(first.ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := testutil.Request(t, app, "GET", "/progress/courses/"+itoa(course.ID)+"/progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, 50.0, data["overall_progress"])
	assert.Equal(t, 2.0, data["total_lessons"])
	assert.Equal(t, 1.0, data["completed_lessons"])
	assert.Len(t, data["lessons"], 2)
}

func TestEmptyCourseProgressIsZero(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Empty Course")
	testutil.Enroll(t, student.ID, course.ID)

	resp, body := testutil.Request(t, app, "GET", "/progress/courses/"+itoa(course.ID)+"/progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, 0.0, data["overall_progress"])
	assert.Equal(t, 0.0, data["total_lessons"])
}

func TestRoundedProgressDoesNotCompleteCourse(t *testing.T) {
	testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, _ := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Giant Course")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	// 1999 of 2000 lessons rounds to 100.0 for display but the course is
	// not finished
	const totalLessons = 2000
	lessons := make([]courseModels.Lesson, totalLessons)
	for i := range lessons {
		lessons[i] = courseModels.Lesson{CourseID: course.ID, Title: "Lesson", Type: "VIDEO", Order: i + 1, Duration: 60}
	}
	require.NoError(t, database.Database.Db.CreateInBatches(&lessons, 200).Error)

	now := time.Now()
	progresses := make([]courseModels.LessonProgress, totalLessons-1)
	for i := range progresses {
		progresses[i] = courseModels.LessonProgress{
			UserID:      student.ID,
			LessonID:    lessons[i].ID,
			CourseID:    course.ID,
			IsCompleted: true,
			CompletedAt: &now,
		}
	}
	require.NoError(t, database.Database.Db.CreateInBatches(&progresses, 200).Error)

	progress, err := progressController.UpdateCourseProgress(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress)

	var updated courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, 100.0, updated.Progress)
	assert.False(t, updated.IsCompleted)
	assert.Nil(t, updated.CompletedAt)

	var certCount int64
	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&certCount)
	assert.Equal(t, int64(0), certCount)

	// The genuine last lesson does complete it
	last := courseModels.LessonProgress{
		UserID:      student.ID,
		LessonID:    lessons[totalLessons-1].ID,
		CourseID:    course.ID,
		IsCompleted: true,
		CompletedAt: &now,
	}
	require.NoError(t, database.Database.Db.Create(&last).Error)

	_, err = progressController.UpdateCourseProgress(student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.True(t, updated.IsCompleted)
	assert.NotNil(t, updated.CompletedAt)
}

func TestReconcileEnrollmentProgress(t *testing.T) {
	testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, _ := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	first := testutil.CreateLesson(t, course.ID, "Intro", 1)
	testutil.CreateLesson(t, course.ID, "Pointers", 2)
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	now := time.Now()
	require.NoError(t, database.Database.Db.Create(&courseModels.LessonProgress{
		UserID:      student.ID,
		LessonID:    first.ID,
		CourseID:    course.ID,
		IsCompleted: true,
		CompletedAt: &now,
	}).Error)

	// Skew the stored value away from the lesson counts
	require.NoError(t, database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("id = ?", enrollment.ID).Update("progress", 5.0).Error)

	progressController.ReconcileEnrollmentProgress()

	var reconciled courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&reconciled, enrollment.ID).Error)
	assert.Equal(t, 50.0, reconciled.Progress)
	assert.False(t, reconciled.IsCompleted)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
