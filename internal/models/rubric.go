package models

import "time"

const (
	// ScoringTypeYesNo grades each criterion with a plain yes or no.
	ScoringTypeYesNo = "yes_no"
	// ScoringTypeMeets grades each criterion against a standard.
	ScoringTypeMeets = "meets_not_meets"
	// ScoringTypeNumerical grades each criterion on an integer range.
	ScoringTypeNumerical = "numerical"
)

// Rubric is a named set of grading criteria sharing one scoring type.
type Rubric struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	ScoringType string      `gorm:"size:50;not null;default:yes_no" json:"scoring_type"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Criteria    []Criterion `json:"criteria"`
}

// KnownScoringType reports whether the value is one of the supported scoring types.
func KnownScoringType(value string) bool {
	switch value {
	case ScoringTypeYesNo, ScoringTypeMeets, ScoringTypeNumerical:
		return true
	default:
		return false
	}
}
