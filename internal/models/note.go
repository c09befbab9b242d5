package models

import "time"

const DefaultNoteCategory = "general"

type Note struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null" json:"userId"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Summary   *string   `gorm:"type:text" json:"summary"`
	Category  string    `gorm:"type:varchar(100);not null" json:"category"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;not null" json:"updatedAt"`
}

func (n *Note) ApplyDefaults() {
	if n.Category == "" {
		n.Category = DefaultNoteCategory
	}
}

func (n Note) Clone() Note {
	n.Summary = cloneString(n.Summary)
	return n
}

// NotePatch holds a partial note update. Every applied patch refreshes
// UpdatedAt, which is the store's job.
type NotePatch struct {
	Title    *string
	Content  *string
	Category *string
	Summary  *string
}

func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.Summary != nil {
		n.Summary = cloneString(p.Summary)
	}
}
