package models

import "time"

const (
	// PlaceholderPaperContent must appear in every prompt template.
	PlaceholderPaperContent = "{{paper_content}}"
	// PlaceholderRubric must appear in every prompt template.
	PlaceholderRubric = "{{rubric}}"
)

// Prompt is one version of the grading prompt template. At most one prompt
// is active at any time.
type Prompt struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Version          int       `gorm:"not null" json:"version"`
	TemplateText     string    `gorm:"type:text;not null" json:"template_text"`
	ParentVersionID  *uint     `json:"parent_version_id"`
	IsActive         bool      `gorm:"not null;default:false" json:"is_active"`
	AccuracyRate     *float64  `json:"accuracy_rate"`
	TotalEvaluations int       `gorm:"not null;default:0" json:"total_evaluations"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
