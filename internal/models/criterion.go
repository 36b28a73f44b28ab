package models

import "time"

// Criterion is one gradable dimension within a rubric. Min/max scores are
// only meaningful when the parent rubric uses numerical scoring.
type Criterion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RubricID    uint      `gorm:"not null;index" json:"rubric_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Order       int       `gorm:"column:display_order;not null;default:0" json:"order"`
	MinScore    *int      `json:"min_score"`
	MaxScore    *int      `json:"max_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Rubric      *Rubric   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// HasBounds reports whether both score bounds are present.
func (c Criterion) HasBounds() bool {
	return c.MinScore != nil && c.MaxScore != nil
}
