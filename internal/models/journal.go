package models

import "time"

type Journal struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null" json:"userId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Mood       string    `gorm:"type:varchar(100);not null" json:"mood"`
	Activities *string   `gorm:"type:text" json:"activities"`
	Date       time.Time `gorm:"not null" json:"date"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false;not null" json:"createdAt"`
}

// ApplyDefaults dates an entry at its creation time unless the caller
// supplied a date.
func (j *Journal) ApplyDefaults() {
	if j.Date.IsZero() {
		j.Date = j.CreatedAt
	}
}

func (j Journal) Clone() Journal {
	j.Activities = cloneString(j.Activities)
	return j
}

type JournalPatch struct {
	Content         *string
	Mood            *string
	Activities      *string
	ClearActivities bool
	Date            *time.Time
}

func (p JournalPatch) Apply(j *Journal) {
	if p.Content != nil {
		j.Content = *p.Content
	}
	if p.Mood != nil {
		j.Mood = *p.Mood
	}
	if p.ClearActivities {
		j.Activities = nil
	} else if p.Activities != nil {
		j.Activities = cloneString(p.Activities)
	}
	if p.Date != nil {
		j.Date = *p.Date
	}
}
