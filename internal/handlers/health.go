package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/planner-api/internal/errors"
)

// Pinger is anything whose reachability can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage Pinger
	timeout time.Duration
}

func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, timeout: 2 * time.Second}
}

// Health reports that the process is serving requests.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Planner API is running",
	})
}

// Ready reports whether the storage backend answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "readiness check failed", slog.String("error", err.Error()))
		apierrors.ServiceUnavailable(c, "Storage is unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
