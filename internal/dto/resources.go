package dto

import "github.com/yukikurage/planner-api/internal/models"

// SummarizeResponse is returned by the note summarization endpoint.
type SummarizeResponse struct {
	Note    models.Note `json:"note"`
	Summary string      `json:"summary"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToSummarizeResponse pairs a summarized note with its summary text.
func ToSummarizeResponse(note models.Note) SummarizeResponse {
	resp := SummarizeResponse{Note: note}
	if note.Summary != nil {
		resp.Summary = *note.Summary
	}
	return resp
}
