package dto

import (
	"time"

	"github.com/graderly/grader-api/internal/models"
)

// PromptCreateRequest describes the payload for creating a new prompt
// version. When IsActive is omitted the new version becomes active.
type PromptCreateRequest struct {
	TemplateText    string `json:"template_text" validate:"required,min=10"`
	ParentVersionID *uint  `json:"parent_version_id" validate:"omitempty,gt=0"`
	IsActive        *bool  `json:"is_active"`
}

// PromptUpdateRequest describes a partial update of a prompt version.
type PromptUpdateRequest struct {
	TemplateText *string `json:"template_text" validate:"omitempty,min=10"`
	IsActive     *bool   `json:"is_active"`
}

// PromptResponse is the serialized representation of a prompt version.
type PromptResponse struct {
	ID               uint      `json:"id"`
	Version          int       `json:"version"`
	TemplateText     string    `json:"template_text"`
	ParentVersionID  *uint     `json:"parent_version_id"`
	IsActive         bool      `json:"is_active"`
	AccuracyRate     *float64  `json:"accuracy_rate"`
	TotalEvaluations int       `json:"total_evaluations"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewPromptResponse converts a model into a DTO.
func NewPromptResponse(model models.Prompt) PromptResponse {
	return PromptResponse{
		ID:               model.ID,
		Version:          model.Version,
		TemplateText:     model.TemplateText,
		ParentVersionID:  model.ParentVersionID,
		IsActive:         model.IsActive,
		AccuracyRate:     model.AccuracyRate,
		TotalEvaluations: model.TotalEvaluations,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewPromptResponseSlice converts models into DTOs.
func NewPromptResponseSlice(prompts []models.Prompt) []PromptResponse {
	responses := make([]PromptResponse, 0, len(prompts))
	for _, prompt := range prompts {
		responses = append(responses, NewPromptResponse(prompt))
	}

	return responses
}
