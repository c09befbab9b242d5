package handlers

import (
	"net/http"

	apierrors "github.com/yukikurage/planner-api/internal/errors"
	"github.com/yukikurage/planner-api/internal/models"
)

func (s *APITestSuite) createTask(token string, body map[string]any) models.Task {
	w := s.do(http.MethodPost, "/api/tasks", token, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task models.Task
	s.decode(w, &task)
	return task
}

func (s *APITestSuite) TestCreateTask_Defaults() {
	alice := s.signup("alice")

	task := s.createTask(alice.AccessToken, map[string]any{
		"title":     "Buy milk",
		"userId":    "someone-else",
		"completed": true,
	})

	s.NotEmpty(task.ID)
	s.Equal(alice.User.ID, task.UserID)
	s.Equal("Buy milk", task.Title)
	s.Equal(models.PriorityMedium, task.Priority)
	s.False(task.Completed)
	s.Nil(task.Description)
	s.Nil(task.DueDate)
	s.False(task.CreatedAt.IsZero())

	w := s.do(http.MethodGet, "/api/tasks", alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var tasks []models.Task
	s.decode(w, &tasks)
	s.Require().Len(tasks, 1)
	s.Equal(task.ID, tasks[0].ID)
	s.False(tasks[0].Completed)
	s.Equal(models.PriorityMedium, tasks[0].Priority)
}

func (s *APITestSuite) TestCreateTask_Validation() {
	alice := s.signup("alice")

	w := s.do(http.MethodPost, "/api/tasks", alice.AccessToken, map[string]any{"description": "no title"})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/api/tasks", alice.AccessToken, map[string]any{"title": "t", "priority": "urgent"})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = s.do(http.MethodPost, "/api/tasks", alice.AccessToken, map[string]any{"title": "t", "dueDate": "tomorrow"})
	s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (s *APITestSuite) TestListTasks_NewestFirst() {
	alice := s.signup("alice")
	first := s.createTask(alice.AccessToken, map[string]any{"title": "first"})
	second := s.createTask(alice.AccessToken, map[string]any{"title": "second"})
	third := s.createTask(alice.AccessToken, map[string]any{"title": "third"})

	w := s.do(http.MethodGet, "/api/tasks", alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var tasks []models.Task
	s.decode(w, &tasks)
	s.Require().Len(tasks, 3)
	s.Equal([]string{third.ID, second.ID, first.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func (s *APITestSuite) TestListTasks_EmptyIsArray() {
	alice := s.signup("alice")

	w := s.do(http.MethodGet, "/api/tasks", alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *APITestSuite) TestUpdateTask_PartialFields() {
	alice := s.signup("alice")
	task := s.createTask(alice.AccessToken, map[string]any{
		"title":       "Buy milk",
		"description": "semi-skimmed",
		"dueDate":     "2024-10-01T10:00:00Z",
		"priority":    "high",
	})

	w := s.do(http.MethodPatch, "/api/tasks/"+task.ID, alice.AccessToken, map[string]any{"completed": true})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/tasks/"+task.ID, alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var updated models.Task
	s.decode(w, &updated)

	s.True(updated.Completed)
	s.Equal("Buy milk", updated.Title)
	s.Equal(models.PriorityHigh, updated.Priority)
	s.Require().NotNil(updated.Description)
	s.Equal("semi-skimmed", *updated.Description)
	s.Require().NotNil(updated.DueDate)
	s.True(task.DueDate.Equal(*updated.DueDate))
	s.True(task.CreatedAt.Equal(updated.CreatedAt))
}

func (s *APITestSuite) TestUpdateTask_NullClearsNullableFields() {
	alice := s.signup("alice")
	task := s.createTask(alice.AccessToken, map[string]any{
		"title":       "t",
		"description": "d",
		"dueDate":     "2024-10-01T10:00:00Z",
	})

	w := s.do(http.MethodPatch, "/api/tasks/"+task.ID, alice.AccessToken, `{"description":null,"dueDate":null,"priority":"low"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated models.Task
	s.decode(w, &updated)
	s.Nil(updated.Description)
	s.Nil(updated.DueDate)
	s.Equal(models.PriorityLow, updated.Priority)
}

func (s *APITestSuite) TestUpdateTask_Validation() {
	alice := s.signup("alice")
	task := s.createTask(alice.AccessToken, map[string]any{"title": "t"})
	path := "/api/tasks/" + task.ID

	for _, body := range []string{
		`{"title":null}`,
		`{"title":"   "}`,
		`{"title":42}`,
		`{"priority":"urgent"}`,
		`{"dueDate":"next week"}`,
		`{"completed":"yes"}`,
		`[1,2,3]`,
	} {
		w := s.do(http.MethodPatch, path, alice.AccessToken, body)
		s.requireError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
	}
}

func (s *APITestSuite) TestTask_CrossTenantIsNotFound() {
	alice := s.signup("alice")
	bob := s.signup("bob")
	task := s.createTask(alice.AccessToken, map[string]any{"title": "private"})
	path := "/api/tasks/" + task.ID

	w := s.do(http.MethodGet, path, bob.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodPatch, path, bob.AccessToken, map[string]any{"title": "mine now"})
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodDelete, path, bob.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodGet, "/api/tasks", bob.AccessToken, nil)
	s.JSONEq(`[]`, w.Body.String())

	// untouched for the owner
	w = s.do(http.MethodGet, path, alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var got models.Task
	s.decode(w, &got)
	s.Equal("private", got.Title)
}

func (s *APITestSuite) TestDeleteTask() {
	alice := s.signup("alice")
	task := s.createTask(alice.AccessToken, map[string]any{"title": "t"})

	w := s.do(http.MethodDelete, "/api/tasks/"+task.ID, alice.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "message")

	w = s.do(http.MethodDelete, "/api/tasks/"+task.ID, alice.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = s.do(http.MethodDelete, "/api/tasks/not-a-valid-id", alice.AccessToken, nil)
	s.requireError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}
