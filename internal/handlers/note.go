package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/planner-api/internal/dto"
	apierrors "github.com/yukikurage/planner-api/internal/errors"
	"github.com/yukikurage/planner-api/internal/services"
)

type NoteHandler struct {
	noteService *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// ListNotes returns the caller's notes, most recently updated first.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	notes, err := h.noteService.ListNotes(c.Request.Context(), userID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateNoteRequest struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Category string `json:"category"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), userID, services.CreateNoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch, err := notePatchFromBody(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Note deleted successfully"})
}

// SummarizeNote generates and stores an AI summary of one of the caller's
// notes.
func (h *NoteHandler) SummarizeNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	type SummarizeRequest struct {
		NoteID string `json:"noteId" binding:"required"`
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "noteId is required")
		return
	}

	note, err := h.noteService.Summarize(c.Request.Context(), userID, req.NoteID)
	if err != nil {
		respondResourceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummarizeResponse(*note))
}
