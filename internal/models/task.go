package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string     `gorm:"type:varchar(36);not null" json:"userId"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    Priority   `gorm:"type:varchar(10);not null" json:"priority"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false;not null" json:"createdAt"`
}

// ApplyDefaults fills the fields a freshly created task may omit.
func (t *Task) ApplyDefaults() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	t.Description = cloneString(t.Description)
	t.DueDate = cloneTime(t.DueDate)
	return t
}

// TaskPatch holds a partial task update. Nil fields are left untouched and
// the Clear flags reset nullable fields.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	DueDate          *time.Time
	ClearDueDate     bool
	Priority         *Priority
	Completed        *bool
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.ClearDescription {
		t.Description = nil
	} else if p.Description != nil {
		t.Description = cloneString(p.Description)
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = cloneTime(p.DueDate)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
