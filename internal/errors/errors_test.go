package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		respond func(*gin.Context)
		status  int
		code    string
		message string
	}{
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "nope") }, http.StatusForbidden, ErrCodeForbidden, "nope"},
		{"not found", func(c *gin.Context) { NotFound(c, "") }, http.StatusNotFound, ErrCodeNotFound, "Resource not found"},
		{"bad request", func(c *gin.Context) { BadRequest(c, "title is required") }, http.StatusBadRequest, ErrCodeInvalidInput, "title is required"},
		{"conflict", func(c *gin.Context) { Conflict(c, "") }, http.StatusConflict, ErrCodeConflict, "Resource conflict"},
		{"bad gateway", func(c *gin.Context) { BadGateway(c, "") }, http.StatusBadGateway, ErrCodeSummarizationFailed, "Upstream service failed"},
		{"internal", func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"},
		{"unavailable", func(c *gin.Context) { ServiceUnavailable(c, "") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.respond(c)

			assert.True(t, c.IsAborted())
			require.Equal(t, tt.status, w.Code)
			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
