package dto

import (
	"time"

	"github.com/graderly/grader-api/internal/models"
)

// CriterionCreateRequest describes one criterion inside a rubric payload.
type CriterionCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Order       int    `json:"order" validate:"gte=0"`
	MinScore    *int   `json:"min_score"`
	MaxScore    *int   `json:"max_score"`
}

// CriterionUpdateRequest describes a partial update of a single criterion.
type CriterionUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
	MinScore    *int    `json:"min_score"`
	MaxScore    *int    `json:"max_score"`
}

// RubricCreateRequest describes the payload for creating a rubric together
// with its criteria.
type RubricCreateRequest struct {
	Name        string                   `json:"name" validate:"required,min=1,max=255"`
	Description string                   `json:"description" validate:"omitempty,max=2000"`
	ScoringType string                   `json:"scoring_type" validate:"required,oneof=yes_no meets_not_meets numerical"`
	Criteria    []CriterionCreateRequest `json:"criteria" validate:"required,min=1,dive"`
}

// RubricUpdateRequest describes a partial update of rubric metadata.
// Criteria are managed through their own endpoints.
type RubricUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ScoringType *string `json:"scoring_type" validate:"omitempty,oneof=yes_no meets_not_meets numerical"`
}

// CriterionResponse is the serialized representation of a criterion.
type CriterionResponse struct {
	ID          uint   `json:"id"`
	RubricID    uint   `json:"rubric_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	MinScore    *int   `json:"min_score"`
	MaxScore    *int   `json:"max_score"`
}

// RubricResponse is the serialized representation of a rubric.
type RubricResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	ScoringType string              `json:"scoring_type"`
	Criteria    []CriterionResponse `json:"criteria"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewCriterionResponse converts a model into a DTO.
func NewCriterionResponse(model models.Criterion) CriterionResponse {
	return CriterionResponse{
		ID:          model.ID,
		RubricID:    model.RubricID,
		Name:        model.Name,
		Description: model.Description,
		Order:       model.Order,
		MinScore:    model.MinScore,
		MaxScore:    model.MaxScore,
	}
}

// NewCriterionResponseSlice converts models into DTOs.
func NewCriterionResponseSlice(criteria []models.Criterion) []CriterionResponse {
	responses := make([]CriterionResponse, 0, len(criteria))
	for _, criterion := range criteria {
		responses = append(responses, NewCriterionResponse(criterion))
	}

	return responses
}

// NewRubricResponse converts a model into a DTO.
func NewRubricResponse(model models.Rubric) RubricResponse {
	return RubricResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		ScoringType: model.ScoringType,
		Criteria:    NewCriterionResponseSlice(model.Criteria),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewRubricResponseSlice converts models into DTOs.
func NewRubricResponseSlice(rubrics []models.Rubric) []RubricResponse {
	responses := make([]RubricResponse, 0, len(rubrics))
	for _, rubric := range rubrics {
		responses = append(responses, NewRubricResponse(rubric))
	}

	return responses
}
