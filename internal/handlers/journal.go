package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/planner-api/internal/dto"
	apierrors "github.com/yukikurage/planner-api/internal/errors"
	"github.com/yukikurage/planner-api/internal/services"
)

type JournalHandler struct {
	journalService *services.JournalService
}

func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// ListJournals returns the caller's entries ordered by date, latest first.
func (h *JournalHandler) ListJournals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	journals, err := h.journalService.ListJournals(c.Request.Context(), userID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, journals)
}

func (h *JournalHandler) GetJournal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	journal, err := h.journalService.GetJournal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, journal)
}

func (h *JournalHandler) CreateJournal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateJournalRequest struct {
		Content    string     `json:"content" binding:"required"`
		Mood       string     `json:"mood" binding:"required"`
		Activities *string    `json:"activities"`
		Date       *time.Time `json:"date"`
	}

	var req CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), userID, services.CreateJournalInput{
		Content:    req.Content,
		Mood:       req.Mood,
		Activities: req.Activities,
		Date:       utc(req.Date),
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, journal)
}

func (h *JournalHandler) UpdateJournal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch, err := journalPatchFromBody(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, journal)
}

func (h *JournalHandler) DeleteJournal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteJournal(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Journal entry deleted successfully"})
}
