package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/yukikurage/planner-api/internal/errors"
	"github.com/yukikurage/planner-api/internal/models"
)

func (s *APITestSuite) createJournal(token string, body map[string]any) models.Journal {
	w := s.do(http.MethodPost, "/api/journals", token, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var journal models.Journal
	s.decode(w, &journal)
	return journal
}

func (s *APITestSuite) TestCreateJournal_DateDefaultsToCreation() {
	alice := s.signup("alice")

	entry := s.createJournal(alice.AccessToken, map[string]any{"content": "Good day", "mood": "happy"})
	s.Equal(alice.User.ID, entry.UserID)
	s.True(entry.Date.Equal(entry.CreatedAt))
	s.Nil(entry.Activities)

	dated := s.createJournal(alice.AccessToken, map[string]any{
		"content":    "Exam",
		"mood":       "tired",
		"activities": "studying",
		"date":       "2024-05-01T09:00:00+02:00",
	})
	s.True(dated.Date.Equal(time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)))
	s.Require().NotNil(dated.Activities)
	s.Equal("studying", *dated.Activities)
}

func (s *APITestSuite) TestCreateJournal_Validation() {
	alice := s.signup("alice")

	w := s.do(http.MethodPost, "/api/journals", alice.AccessToken, map[string]any{"content": "no mood"})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/api/journals", alice.AccessToken, map[string]any{"content": "c", "mood": "   "})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *APITestSuite) TestListJournals_LatestDateFirst() {
	alice := s.signup("alice")
	may := s.createJournal(alice.AccessToken, map[string]any{"content": "a", "mood": "ok", "date": "2024-05-01T00:00:00Z"})
	july := s.createJournal(alice.AccessToken, map[string]any{"content": "b", "mood": "ok", "date": "2024-07-01T00:00:00Z"})
	june := s.createJournal(alice.AccessToken, map[string]any{"content": "c", "mood": "ok", "date": "2024-06-01T00:00:00Z"})

	w := s.do(http.MethodGet, "/api/journals", alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var entries []models.Journal
	s.decode(w, &entries)
	s.Require().Len(entries, 3)
	s.Equal([]string{july.ID, june.ID, may.ID}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func (s *APITestSuite) TestUpdateJournal() {
	alice := s.signup("alice")
	entry := s.createJournal(alice.AccessToken, map[string]any{"content": "c", "mood": "calm", "activities": "yoga"})
	path := "/api/journals/" + entry.ID

	w := s.do(http.MethodPatch, path, alice.AccessToken, `{"activities":null,"mood":"great"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated models.Journal
	s.decode(w, &updated)
	s.Nil(updated.Activities)
	s.Equal("great", updated.Mood)
	s.Equal("c", updated.Content)
	s.True(updated.Date.Equal(entry.Date))

	w = s.do(http.MethodPatch, path, alice.AccessToken, `{"date":null}`)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPatch, path, alice.AccessToken, `{"mood":""}`)
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *APITestSuite) TestJournal_CrossTenantAndDelete() {
	alice := s.signup("alice")
	bob := s.signup("bob")
	entry := s.createJournal(alice.AccessToken, map[string]any{"content": "c", "mood": "m"})
	path := "/api/journals/" + entry.ID

	w := s.do(http.MethodPatch, path, bob.AccessToken, map[string]any{"mood": "hijacked"})
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodDelete, path, alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, path, alice.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}
