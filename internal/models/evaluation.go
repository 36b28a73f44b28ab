package models

import (
	"time"

	"gorm.io/datatypes"
)

// Evaluation records one grading pass over one paper with one rubric and
// one prompt version. The model response is kept as an opaque JSON blob;
// provider formats vary and are only decoded at the read-view boundary.
type Evaluation struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	PaperID       uint           `gorm:"not null;index" json:"paper_id"`
	RubricID      uint           `gorm:"not null;index" json:"rubric_id"`
	PromptID      uint           `gorm:"not null" json:"prompt_id"`
	ModelResponse datatypes.JSON `gorm:"not null" json:"model_response"`
	IsCorrect     *bool          `json:"is_correct"`
	CreatedAt     time.Time      `json:"created_at"`
	Paper         *Paper         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Rubric        *Rubric        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Prompt        *Prompt        `json:"-"`
}

// Reviewed reports whether a human has confirmed or rejected the evaluation.
func (e Evaluation) Reviewed() bool {
	return e.IsCorrect != nil
}
