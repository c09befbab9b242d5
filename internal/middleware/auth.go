package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/planner-api/internal/auth"
	"github.com/yukikurage/planner-api/internal/constants"
	apierrors "github.com/yukikurage/planner-api/internal/errors"
)

// RequireAuth checks the bearer access token and stores the caller's user
// id in the context.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		userID, err := tokens.VerifyAccessToken(token)
		if err != nil {
			// malformed, forged and expired tokens look the same to clients
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}

func bearerToken(header string) (string, bool) {
	prefix := constants.BearerPrefix
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
