package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/planner-api/internal/constants"
	apierrors "github.com/yukikurage/planner-api/internal/errors"
	"github.com/yukikurage/planner-api/internal/middleware"
	"github.com/yukikurage/planner-api/internal/services"
)

// currentUser returns the authenticated user id, answering 401 when the
// route was mounted without RequireAuth.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}

// respondResourceError translates task, note and journal service errors.
func respondResourceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.BadRequest(c, verr.Message)
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrNoteNotFound),
		errors.Is(err, services.ErrJournalNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSummarizerNotConfigured):
		apierrors.ServiceUnavailable(c, "Summarization is not configured")
	case errors.Is(err, services.ErrSummarizationFailed):
		slog.WarnContext(c.Request.Context(), "summarization failed",
			slog.String("error", err.Error()),
			slog.String("request_id", c.GetString(constants.ContextKeyRequestID)),
		)
		apierrors.BadGateway(c, "Failed to summarize note")
	default:
		respondInternalError(c, err)
	}
}

// respondInternalError logs err and sends a generic 500.
func respondInternalError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("request_id", c.GetString(constants.ContextKeyRequestID)),
	)
	apierrors.InternalError(c, "")
}
