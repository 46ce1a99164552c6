package certificateController_test

import (
	"net/http"
	"os"
	"strconv"
	"testing"

	"smartlearn/database"
	courseModels "smartlearn/models/course"
	"smartlearn/testutil"
	"smartlearn/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestGenerateCertificateLifecycle(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	generatePath := "/certificates/generate/" + itoa(enrollment.ID)

	// Not completed yet
	resp, _ := testutil.Request(t, app, "POST", generatePath, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = testutil.Request(t, app, "PATCH", "/enrollments/"+itoa(enrollment.ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := testutil.Request(t, app, "POST", generatePath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	certNumber := data["certificate_number"].(string)
	require.NotEmpty(t, certNumber)
	assert.Contains(t, data["certificate_url"], certNumber)

	// The PDF exists on disk
	if _, err := os.Stat(utils.CertificateFilePath(certNumber)); err != nil {
		t.Fatalf("expected certificate file to exist: %v", err)
	}

	// Generating again reuses the same certificate
	resp, body = testutil.Request(t, app, "POST", generatePath, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, certNumber, body["data"].(map[string]interface{})["certificate_number"])

	var certCount int64
	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&certCount)
	assert.Equal(t, int64(1), certCount)

	// Download works for the owner
	resp, _ = testutil.Request(t, app, "GET", "/certificates/"+certNumber+"/download", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateCertificateOwnerOnly(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	_, otherToken := testutil.CreateUser(t, "Olga Other", "olga@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "PATCH", "/enrollments/"+itoa(enrollment.ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = testutil.Request(t, app, "POST", "/certificates/generate/"+itoa(enrollment.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListUserCertificates(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "PATCH", "/enrollments/"+itoa(enrollment.ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := testutil.Request(t, app, "GET", "/certificates/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	certs := body["data"].([]interface{})
	require.Len(t, certs, 1)
	assert.Equal(t, "Go Basics", certs[0].(map[string]interface{})["course_title"])
}

func TestDeleteCertificateAdminOnly(t *testing.T) {
	app := testutil.SetupApp(t)

	instructor, _ := testutil.CreateUser(t, "Ina Instructor", "ina@test.local", "INSTRUCTOR")
	student, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	_, adminToken := testutil.CreateUser(t, "Ada Admin", "ada@test.local", "ADMIN")
	course := testutil.CreateCourse(t, instructor.ID, "Go Basics")
	enrollment := testutil.Enroll(t, student.ID, course.ID)

	resp, _ := testutil.Request(t, app, "PATCH", "/enrollments/"+itoa(enrollment.ID)+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cert courseModels.Certificate
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&cert).Error)

	path := "/certificates/" + cert.CertificateNumber

	resp, _ = testutil.Request(t, app, "DELETE", path, token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.Request(t, app, "DELETE", path, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("certificate_number = ?", cert.CertificateNumber).Count(&count)
	assert.Equal(t, int64(0), count)
}
