package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/yukikurage/planner-api/internal/dto"
	apierrors "github.com/yukikurage/planner-api/internal/errors"
	"github.com/yukikurage/planner-api/internal/models"
	"github.com/yukikurage/planner-api/internal/services"
	"golang.org/x/crypto/bcrypt"
)

func (s *APITestSuite) createNote(token string, body map[string]any) models.Note {
	w := s.do(http.MethodPost, "/api/notes", token, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var note models.Note
	s.decode(w, &note)
	return note
}

func (s *APITestSuite) TestCreateNote_DefaultCategory() {
	alice := s.signup("alice")

	note := s.createNote(alice.AccessToken, map[string]any{"title": "Lecture 1", "content": "Cells are small."})
	s.Equal(alice.User.ID, note.UserID)
	s.Equal(models.DefaultNoteCategory, note.Category)
	s.Nil(note.Summary)
	s.False(note.UpdatedAt.Before(note.CreatedAt))

	note = s.createNote(alice.AccessToken, map[string]any{"title": "Lecture 2", "content": "x", "category": "biology"})
	s.Equal("biology", note.Category)
}

func (s *APITestSuite) TestCreateNote_Validation() {
	alice := s.signup("alice")

	w := s.do(http.MethodPost, "/api/notes", alice.AccessToken, map[string]any{"title": "only a title"})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/api/notes", alice.AccessToken, `{"title":`)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *APITestSuite) TestListNotes_RecentlyUpdatedFirst() {
	alice := s.signup("alice")
	older := s.createNote(alice.AccessToken, map[string]any{"title": "older", "content": "a"})
	newer := s.createNote(alice.AccessToken, map[string]any{"title": "newer", "content": "b"})

	w := s.do(http.MethodGet, "/api/notes", alice.AccessToken, nil)
	var notes []models.Note
	s.decode(w, &notes)
	s.Require().Len(notes, 2)
	s.Equal(newer.ID, notes[0].ID)

	w = s.do(http.MethodPatch, "/api/notes/"+older.ID, alice.AccessToken, map[string]any{"content": "edited"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/notes", alice.AccessToken, nil)
	s.decode(w, &notes)
	s.Require().Len(notes, 2)
	s.Equal(older.ID, notes[0].ID)
	s.Equal("edited", notes[0].Content)
}

func (s *APITestSuite) TestUpdateNote_IgnoresSummary() {
	alice := s.signup("alice")
	note := s.createNote(alice.AccessToken, map[string]any{"title": "t", "content": "c"})

	w := s.do(http.MethodPatch, "/api/notes/"+note.ID, alice.AccessToken, map[string]any{
		"title":   "renamed",
		"summary": "forged",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated models.Note
	s.decode(w, &updated)
	s.Equal("renamed", updated.Title)
	s.Nil(updated.Summary)
	s.True(updated.UpdatedAt.After(note.UpdatedAt))
	s.True(updated.CreatedAt.Equal(note.CreatedAt))
}

func (s *APITestSuite) TestUpdateNote_Validation() {
	alice := s.signup("alice")
	note := s.createNote(alice.AccessToken, map[string]any{"title": "t", "content": "c"})

	for _, body := range []string{`{"title":null}`, `{"content":""}`, `{"category":7}`} {
		w := s.do(http.MethodPatch, "/api/notes/"+note.ID, alice.AccessToken, body)
		s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
	}
}

func (s *APITestSuite) TestSummarizeNote() {
	alice := s.signup("alice")
	note := s.createNote(alice.AccessToken, map[string]any{"title": "Lecture", "content": "Mitochondria produce ATP."})

	w := s.do(http.MethodPost, "/api/notes/summarize", alice.AccessToken, map[string]any{"noteId": note.ID})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.SummarizeResponse
	s.decode(w, &resp)
	s.Equal("A short summary.", resp.Summary)
	s.Equal(note.ID, resp.Note.ID)
	s.Require().NotNil(resp.Note.Summary)
	s.Equal("A short summary.", *resp.Note.Summary)
	s.True(resp.Note.UpdatedAt.After(resp.Note.CreatedAt))

	w = s.do(http.MethodGet, "/api/notes/"+note.ID, alice.AccessToken, nil)
	var stored models.Note
	s.decode(w, &stored)
	s.Require().NotNil(stored.Summary)
	s.Equal("A short summary.", *stored.Summary)
}

func (s *APITestSuite) TestSummarizeNote_Errors() {
	alice := s.signup("alice")
	bob := s.signup("bob")
	note := s.createNote(alice.AccessToken, map[string]any{"title": "t", "content": "c"})

	w := s.do(http.MethodPost, "/api/notes/summarize", alice.AccessToken, map[string]any{})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/api/notes/summarize", alice.AccessToken, map[string]any{"noteId": "   "})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/api/notes/summarize", alice.AccessToken, map[string]any{"noteId": "missing"})
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodPost, "/api/notes/summarize", bob.AccessToken, map[string]any{"noteId": note.ID})
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	s.summarizer.err = errors.New("upstream exploded")
	w = s.do(http.MethodPost, "/api/notes/summarize", alice.AccessToken, map[string]any{"noteId": note.ID})
	s.requireError(w, http.StatusBadGateway, apierrors.ErrCodeSummarizationFailed)
	s.NotContains(w.Body.String(), "upstream exploded")

	w = s.do(http.MethodGet, "/api/notes/"+note.ID, alice.AccessToken, nil)
	var stored models.Note
	s.decode(w, &stored)
	s.Nil(stored.Summary)
}

func (s *APITestSuite) TestNote_CrossTenantAndDelete() {
	alice := s.signup("alice")
	bob := s.signup("bob")
	note := s.createNote(alice.AccessToken, map[string]any{"title": "t", "content": "c"})
	path := "/api/notes/" + note.ID

	w := s.do(http.MethodGet, path, bob.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodDelete, path, bob.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodDelete, path, alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, path, alice.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}

func (s *APITestSuite) TestSummarizeNote_NotConfigured() {
	notes := NewNoteHandler(services.NewNoteService(s.store, nil, time.Second))
	router := NewRouter(Handlers{
		Auth:     NewAuthHandler(services.NewAuthService(s.store, s.tokens, bcrypt.MinCost)),
		Tasks:    NewTaskHandler(services.NewTaskService(s.store)),
		Notes:    notes,
		Journals: NewJournalHandler(services.NewJournalService(s.store)),
		Health:   NewHealthHandler(s.store),
	}, s.tokens, RouterOptions{})

	alice := s.signup("alice")
	note := s.createNote(alice.AccessToken, map[string]any{"title": "t", "content": "c"})

	s.router = router
	w := s.do(http.MethodPost, "/api/notes/summarize", alice.AccessToken, map[string]any{"noteId": note.ID})
	s.requireError(w, http.StatusServiceUnavailable, apierrors.ErrCodeServiceUnavailable)
}
