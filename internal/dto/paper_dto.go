package dto

import (
	"time"

	"github.com/graderly/grader-api/internal/models"
)

const paperPreviewLength = 150

// PaperCreateRequest describes the payload for submitting a new paper.
type PaperCreateRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Content  string `json:"content" validate:"required,min=10"`
	RubricID *uint  `json:"rubric_id" validate:"omitempty,gt=0"`
}

// PaperUpdateRequest describes a partial update of a paper.
type PaperUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content  *string `json:"content" validate:"omitempty,min=10"`
	RubricID *uint   `json:"rubric_id" validate:"omitempty,gt=0"`
}

// PaperResponse is the serialized representation returned to API clients.
type PaperResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RubricID       *uint     `json:"rubric_id"`
	RubricName     *string   `json:"rubric_name"`
	SubmissionDate time.Time `json:"submission_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaperListResponse is the condensed list view with a content preview.
type PaperListResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	RubricID       *uint     `json:"rubric_id"`
	RubricName     *string   `json:"rubric_name"`
	ContentPreview string    `json:"content_preview"`
	SubmissionDate time.Time `json:"submission_date"`
}

func rubricName(rubric *models.Rubric) *string {
	if rubric == nil {
		return nil
	}
	name := rubric.Name
	return &name
}

// NewPaperResponse converts a model into a DTO.
func NewPaperResponse(model models.Paper) PaperResponse {
	return PaperResponse{
		ID:             model.ID,
		Title:          model.Title,
		Content:        model.Content,
		RubricID:       model.RubricID,
		RubricName:     rubricName(model.Rubric),
		SubmissionDate: model.SubmissionDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewPaperListResponseSlice converts models into the condensed list view.
func NewPaperListResponseSlice(papers []models.Paper) []PaperListResponse {
	responses := make([]PaperListResponse, 0, len(papers))
	for _, paper := range papers {
		responses = append(responses, PaperListResponse{
			ID:             paper.ID,
			Title:          paper.Title,
			RubricID:       paper.RubricID,
			RubricName:     rubricName(paper.Rubric),
			ContentPreview: paper.ContentPreview(paperPreviewLength),
			SubmissionDate: paper.SubmissionDate,
		})
	}

	return responses
}
