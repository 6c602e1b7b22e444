package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Username string `json:"username" binding:"required"`
	PostID   string `json:"postID" binding:"omitempty,uuid"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Init()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var s sample
	return c.ShouldBindJSON(&s)
}

func TestToDetails(t *testing.T) {
	assert.Nil(t, ToDetails(nil))

	details := ToDetails(bind(t, `{"postID":"nope"}`))
	assert.Equal(t, map[string]string{"username": "is required", "postID": "must be a valid UUID"}, details)

	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(bind(t, `{"username":`)))
	assert.Contains(t, ToDetails(bind(t, ``)), "payload")
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("7c9e6679-7425-40de-944b-e07fc1f90ae7"))
	assert.False(t, IsUUID("507f1f77bcf86cd799439011"))
	assert.False(t, IsUUID(""))
}
