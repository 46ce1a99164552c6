package authController_test

import (
	"net/http"
	"testing"

	"smartlearn/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app := testutil.SetupApp(t)

	resp, body := testutil.Request(t, app, "POST", "/auth/register", "",
		map[string]interface{}{"name": "Sam Student", "email": "sam@test.local", "password": "password123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "STUDENT", user["role"])

	resp, body = testutil.Request(t, app, "POST", "/auth/login", "",
		map[string]interface{}{"email": "sam@test.local", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := testutil.SetupApp(t)

	payload := map[string]interface{}{"name": "Sam", "email": "sam@test.local", "password": "password123"}

	resp, _ := testutil.Request(t, app, "POST", "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = testutil.Request(t, app, "POST", "/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	app := testutil.SetupApp(t)

	resp, _ := testutil.Request(t, app, "POST", "/auth/register", "",
		map[string]interface{}{"name": "Eve", "email": "eve@test.local", "password": "password123", "role": "ADMIN"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app := testutil.SetupApp(t)

	testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")

	resp, _ := testutil.Request(t, app, "POST", "/auth/login", "",
		map[string]interface{}{"email": "sam@test.local", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeRequiresToken(t *testing.T) {
	app := testutil.SetupApp(t)

	resp, _ := testutil.Request(t, app, "GET", "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, token := testutil.CreateUser(t, "Sam Student", "sam@test.local", "STUDENT")
	resp, body := testutil.Request(t, app, "GET", "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sam@test.local", body["data"].(map[string]interface{})["email"])
}
