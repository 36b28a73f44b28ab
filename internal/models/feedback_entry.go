package models

import "time"

// FeedbackEntry stores a human correction for one (evaluation, criterion)
// pair. A nil criterion means the feedback applies to the evaluation as a
// whole. The rubric id is denormalized from the evaluation so feedback can
// be filtered by rubric without a join.
type FeedbackEntry struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	EvaluationID       uint        `gorm:"not null;index" json:"evaluation_id"`
	RubricID           uint        `gorm:"not null;index" json:"rubric_id"`
	CriterionID        *uint       `json:"criterion_id"`
	ModelScore         string      `gorm:"size:50;not null" json:"model_score"`
	UserCorrectedScore string      `gorm:"size:50;not null" json:"user_corrected_score"`
	UserExplanation    string      `gorm:"type:text" json:"user_explanation"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Evaluation         *Evaluation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Criterion          *Criterion  `json:"-"`
}
