package enrollmentController_test

import (
	"net/http"
	"strconv"
	"testing"

	"smartlearn/database"
	courseModels "smartlearn/models/course"
	"smartlearn/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestEnrollInCourse(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	_, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")

	resp, body := testutil.Request(t, app, "POST", "/enrollments/enroll", token,
		map[string]interface{}{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// Enrolling twice is a conflict
	resp, body = testutil.Request(t, app, "POST", "/enrollments/enroll", token,
		map[string]interface{}{"courseId": course.ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestEnrollGateChecks(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, instructorToken := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	_, studentToken := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	published := testutil.CreateCourse(t, instructor.ID, "Published")
	draft := testutil.CreateDraftCourse(t, instructor.ID, "Draft")

	// Missing course
	resp, _ := testutil.Request(t, app, "POST", "/enrollments/enroll", studentToken,
		map[string]interface{}{"courseId": 99999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unpublished course
	resp, _ = testutil.Request(t, app, "POST", "/enrollments/enroll", studentToken,
		map[string]interface{}{"courseId": draft.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Instructor enrolling in their own course
	resp, body := testutil.Request(t, app, "POST", "/enrollments/enroll", instructorToken,
		map[string]interface{}{"courseId": published.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "You cannot enroll in your own course!", errObj["message"])
}

func TestManualProgressOverrideClamps(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	path := "/enrollments/" + itoa(enrollment.ID) + "/progress"

	resp, _ := testutil.Request(t, app, "PATCH", path, token, map[string]interface{}{"progress": 150.0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, 100.0, updated.Progress)
	// The override writes progress only; completion stays untouched
	assert.False(t, updated.IsCompleted)

	resp, _ = testutil.Request(t, app, "PATCH", path, token, map[string]interface{}{"progress": -10.0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, 0.0, updated.Progress)
}

func TestManualProgressOverrideOwnerOnly(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, _ := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	_, otherToken := testutil.CreateUser(t, "Olga Other", "olga@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "PATCH", "/enrollments/"+itoa(enrollment.ID)+"/progress", otherToken,
		map[string]interface{}{"progress": 50.0})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCompleteCourse(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	path := "/enrollments/" + itoa(enrollment.ID) + "/complete"

	resp, body := testutil.Request(t, app, "PATCH", path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var updated courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, 100.0, updated.Progress)
	require.NotNil(t, updated.CompletedAt)
	firstCompletedAt := *updated.CompletedAt

	var certCount int64
	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&certCount)
	assert.Equal(t, int64(1), certCount)

	// Completing twice is an error, and nothing changes
	resp, body = testutil.Request(t, app, "PATCH", path, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.True(t, updated.CompletedAt.Equal(firstCompletedAt))

	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&certCount)
	assert.Equal(t, int64(1), certCount)
}

func TestGetEnrollmentsStatusFilter(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	courseA := testutil.CreateCourse(t, instructor.ID, "Course A")
	courseB := testutil.CreateCourse(t, instructor.ID, "Course B")
	testutil.Enroll(t, student.ID, courseA.ID)
	done := testutil.Enroll(t, student.ID, courseB.ID)

	resp, _ := testutil.Request(t, app, "PATCH", "/enrollments/"+itoa(done.ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := testutil.Request(t, app, "GET", "/enrollments/?status=completed", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["enrollments"], 1)

	resp, body = testutil.Request(t, app, "GET", "/enrollments/?status=active", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Len(t, data["enrollments"], 1)
}

func TestGetEnrollmentByIDOwnerOnly(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	_, otherToken := testutil.CreateUser(t, "Olga Other", "olga@test.local", "STUDENT")
	_, adminToken := testutil.CreateUser(t, "Ada Admin", "ada@test.local", "ADMIN")

	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	testutil.CreateLesson(t, course.ID, "Intro", 1)
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	path := "/enrollments/" + itoa(enrollment.ID)

	resp, body := testutil.Request(t, app, "GET", path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["lessons"], 1)

	resp, _ = testutil.Request(t, app, "GET", path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, "GET", path, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
