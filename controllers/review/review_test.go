package reviewController_test

import (
	"net/http"
	"strconv"
	"testing"

	"smartlearn/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestCreateReviewRequiresEnrollment(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	_, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")

	resp, body := testutil.Request(t, app, "POST", "/reviews/", token,
		map[string]interface{}{"courseId": course.ID, "rating": 5, "comment": "Great course"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestCreateReviewOncePerCourse(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "POST", "/reviews/", token,
		map[string]interface{}{"courseId": course.ID, "rating": 4, "comment": "Solid intro"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = testutil.Request(t, app, "POST", "/reviews/", token,
		map[string]interface{}{"courseId": course.ID, "rating": 5, "comment": "Changed my mind"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReviewRatingBounds(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "POST", "/reviews/", token,
		map[string]interface{}{"courseId": course.ID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCourseReviewsPublic(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "POST", "/reviews/", token,
		map[string]interface{}{"courseId": course.ID, "rating": 4, "comment": "Solid intro"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// No token: the listing is public
	resp, body := testutil.Request(t, app, "GET", "/courses/"+itoa(course.ID)+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Len(t, data["reviews"], 1)
	assert.Equal(t, 4.0, data["average_rating"])
}

func TestDeleteReviewAuthorOrAdmin(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	_, otherToken := testutil.CreateUser(t, "Olga Other", "olga@test.local", "STUDENT")
	_, adminToken := testutil.CreateUser(t, "Ada Admin", "ada@test.local", "ADMIN")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	testutil.Enroll(t, student.ID, course.ID)

	resp, body := testutil.Request(t, app, "POST", "/reviews/", token,
		map[string]interface{}{"courseId": course.ID, "rating": 3, "comment": "Okay"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reviewID := body["data"].(map[string]interface{})["ID"].(float64)
	path := "/reviews/" + strconv.Itoa(int(reviewID))

	resp, _ = testutil.Request(t, app, "DELETE", path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, "DELETE", path, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
