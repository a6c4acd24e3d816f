package dto

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bind(t *testing.T, body string, target interface{}) error {
	t.Helper()
	RegisterValidators()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(target)
}

func TestCreateProjectRequest_Bind(t *testing.T) {
	var req CreateProjectRequest
	err := bind(t, `{"name":"Launch","status":1,"users":[{"userId":"u2","role":"admin"}],"dueDate":"2025-01-01"}`, &req)
	require.NoError(t, err)

	input, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, "Launch", input.Name)
	assert.Equal(t, 1, *input.Status)
	require.Len(t, input.Users, 1)
	assert.Equal(t, "u2", input.Users[0].UserID)
	assert.True(t, input.DueDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCreateProjectRequest_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing name":   `{"status":1,"dueDate":"2025-01-01"}`,
		"missing status": `{"name":"x","dueDate":"2025-01-01"}`,
		"bad date":       `{"name":"x","status":1,"dueDate":"soon"}`,
		"bad role":       `{"name":"x","status":1,"dueDate":"2025-01-01","users":[{"userId":"u","role":"boss"}]}`,
		"missing userId": `{"name":"x","status":1,"dueDate":"2025-01-01","users":[{"role":"ADMIN"}]}`,
	}
	for name, body := range cases {
		var req CreateProjectRequest
		assert.Error(t, bind(t, body, &req), name)
	}
}

func TestUpdateTaskRequest_UsersPresence(t *testing.T) {
	var absent UpdateTaskRequest
	require.NoError(t, bind(t, `{"status":2}`, &absent))
	input, err := absent.ToInput()
	require.NoError(t, err)
	assert.Nil(t, input.Users)
	assert.Equal(t, 2, *input.Status)

	var cleared UpdateTaskRequest
	require.NoError(t, bind(t, `{"users":[]}`, &cleared))
	input, err = cleared.ToInput()
	require.NoError(t, err)
	require.NotNil(t, input.Users)
	assert.Empty(t, *input.Users)
}

func TestBindingMessage(t *testing.T) {
	var req RegisterUserRequest
	err := bind(t, `{"email":"not-an-email","password":"123"}`, &req)
	require.Error(t, err)

	msg := BindingMessage(err)
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "email must be a valid email address")
	assert.Contains(t, msg, "password must be at least 6 characters")
}
