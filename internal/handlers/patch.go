package handlers

import (
	"fmt"
	"time"

	"github.com/yukikurage/planner-api/internal/models"
)

// PATCH bodies are decoded into a raw map so that an explicit null can be
// told apart from an absent field. Unknown fields are ignored.

func stringField(body map[string]any, key string) (value *string, present bool, err error) {
	raw, ok := body[key]
	if !ok {
		return nil, false, nil
	}
	if raw == nil {
		return nil, true, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, true, fmt.Errorf("%s must be a string", key)
	}
	return &s, true, nil
}

func timeField(body map[string]any, key string) (value *time.Time, present bool, err error) {
	s, present, err := stringField(body, key)
	if err != nil || s == nil {
		return nil, present, err
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, true, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	t = t.UTC()
	return &t, true, nil
}

// nonNullString is stringField for fields that cannot be cleared.
func nonNullString(body map[string]any, key string) (*string, error) {
	s, present, err := stringField(body, key)
	if err != nil {
		return nil, err
	}
	if present && s == nil {
		return nil, fmt.Errorf("%s cannot be null", key)
	}
	return s, nil
}

func nonNullBool(body map[string]any, key string) (*bool, error) {
	raw, ok := body[key]
	if !ok {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &b, nil
}

func taskPatchFromBody(body map[string]any) (models.TaskPatch, error) {
	var patch models.TaskPatch
	var err error

	if patch.Title, err = nonNullString(body, "title"); err != nil {
		return patch, err
	}

	description, present, err := stringField(body, "description")
	if err != nil {
		return patch, err
	}
	if present && description == nil {
		patch.ClearDescription = true
	}
	patch.Description = description

	dueDate, present, err := timeField(body, "dueDate")
	if err != nil {
		return patch, err
	}
	if present && dueDate == nil {
		patch.ClearDueDate = true
	}
	patch.DueDate = dueDate

	priority, err := nonNullString(body, "priority")
	if err != nil {
		return patch, err
	}
	if priority != nil {
		p := models.Priority(*priority)
		patch.Priority = &p
	}

	if patch.Completed, err = nonNullBool(body, "completed"); err != nil {
		return patch, err
	}
	return patch, nil
}

// notePatchFromBody never reads "summary"; only summarization writes it.
func notePatchFromBody(body map[string]any) (models.NotePatch, error) {
	var patch models.NotePatch
	var err error

	if patch.Title, err = nonNullString(body, "title"); err != nil {
		return patch, err
	}
	if patch.Content, err = nonNullString(body, "content"); err != nil {
		return patch, err
	}
	if patch.Category, err = nonNullString(body, "category"); err != nil {
		return patch, err
	}
	return patch, nil
}

func journalPatchFromBody(body map[string]any) (models.JournalPatch, error) {
	var patch models.JournalPatch
	var err error

	if patch.Content, err = nonNullString(body, "content"); err != nil {
		return patch, err
	}
	if patch.Mood, err = nonNullString(body, "mood"); err != nil {
		return patch, err
	}

	activities, present, err := stringField(body, "activities")
	if err != nil {
		return patch, err
	}
	if present && activities == nil {
		patch.ClearActivities = true
	}
	patch.Activities = activities

	date, present, err := timeField(body, "date")
	if err != nil {
		return patch, err
	}
	if present && date == nil {
		return patch, fmt.Errorf("date cannot be null")
	}
	patch.Date = date
	return patch, nil
}
