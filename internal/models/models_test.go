package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPriorityValid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Priority("").Valid())
}

func TestTaskClone_IsDeep(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orig := Task{Title: "t", Description: ptr("d"), DueDate: &due}

	c := orig.Clone()
	*c.Description = "changed"
	*c.DueDate = due.Add(time.Hour)

	assert.Equal(t, "d", *orig.Description)
	assert.True(t, orig.DueDate.Equal(due))
}

func TestTaskPatch_Apply(t *testing.T) {
	task := Task{Title: "old", Description: ptr("desc"), Priority: PriorityLow}

	TaskPatch{Title: ptr("new"), Priority: ptr(PriorityHigh), Completed: ptr(true)}.Apply(&task)
	assert.Equal(t, "new", task.Title)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.True(t, task.Completed)
	require.NotNil(t, task.Description)
	assert.Equal(t, "desc", *task.Description)

	TaskPatch{ClearDescription: true, Description: ptr("ignored")}.Apply(&task)
	assert.Nil(t, task.Description)
}

func TestTask_ApplyDefaults(t *testing.T) {
	task := Task{}
	task.ApplyDefaults()
	assert.Equal(t, PriorityMedium, task.Priority)

	task = Task{Priority: PriorityLow}
	task.ApplyDefaults()
	assert.Equal(t, PriorityLow, task.Priority)
}

func TestNote_DefaultsAndPatch(t *testing.T) {
	note := Note{Title: "t", Content: "c"}
	note.ApplyDefaults()
	assert.Equal(t, DefaultNoteCategory, note.Category)

	summary := "s"
	NotePatch{Summary: &summary, Category: ptr("work")}.Apply(&note)
	summary = "mutated"

	require.NotNil(t, note.Summary)
	assert.Equal(t, "s", *note.Summary)
	assert.Equal(t, "work", note.Category)
	assert.Equal(t, "c", note.Content)
}

func TestJournal_DefaultsAndPatch(t *testing.T) {
	created := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)
	journal := Journal{CreatedAt: created, Activities: ptr("yoga")}
	journal.ApplyDefaults()
	assert.True(t, journal.Date.Equal(created))

	date := created.AddDate(0, 0, -1)
	JournalPatch{Date: &date, ClearActivities: true}.Apply(&journal)
	assert.True(t, journal.Date.Equal(date))
	assert.Nil(t, journal.Activities)
}

func TestUserClone(t *testing.T) {
	u := User{ID: "1", Username: "a", PasswordHash: "h"}
	assert.Equal(t, u, u.Clone())
}
