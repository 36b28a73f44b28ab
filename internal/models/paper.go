package models

import "time"

// Paper represents a submitted paper waiting to be graded.
type Paper struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	RubricID       *uint     `json:"rubric_id"`
	SubmissionDate time.Time `gorm:"autoCreateTime" json:"submission_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Rubric         *Rubric   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"rubric,omitempty"`
}

// ContentPreview returns a shortened view of the paper content for list views.
func (p Paper) ContentPreview(limit int) string {
	if limit <= 0 || len(p.Content) <= limit {
		return p.Content
	}
	return p.Content[:limit] + "..."
}
