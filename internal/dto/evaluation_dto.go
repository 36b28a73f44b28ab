package dto

import (
	"encoding/json"
	"time"

	"github.com/graderly/grader-api/internal/models"
)

// EvaluationCreateRequest describes the payload for triggering a grading
// run. ModelResponse, when present, is stored verbatim instead of calling
// the grading backend. Provider optionally overrides the configured
// grading backend for this one request.
type EvaluationCreateRequest struct {
	PaperID       uint            `json:"paper_id" validate:"required,gt=0"`
	RubricID      uint            `json:"rubric_id" validate:"required,gt=0"`
	PromptID      *uint           `json:"prompt_id" validate:"omitempty,gt=0"`
	ModelResponse json.RawMessage `json:"model_response"`
	Provider      string          `json:"provider" validate:"omitempty,oneof=stub ollama openai"`
}

// FeedbackCreateRequest describes one human correction for an evaluation.
type FeedbackCreateRequest struct {
	CriterionID        *uint  `json:"criterion_id" validate:"omitempty,gt=0"`
	ModelScore         string `json:"model_score" validate:"required,max=50"`
	UserCorrectedScore string `json:"user_corrected_score" validate:"required,max=50"`
	UserExplanation    string `json:"user_explanation" validate:"omitempty,max=5000"`
}

// CorrectnessUpdateRequest marks an evaluation as confirmed or rejected.
type CorrectnessUpdateRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
}

// FeedbackResponse is the serialized representation of a feedback entry.
type FeedbackResponse struct {
	ID                 uint      `json:"id"`
	EvaluationID       uint      `json:"evaluation_id"`
	RubricID           uint      `json:"rubric_id"`
	CriterionID        *uint     `json:"criterion_id"`
	ModelScore         string    `json:"model_score"`
	UserCorrectedScore string    `json:"user_corrected_score"`
	UserExplanation    string    `json:"user_explanation"`
	CreatedAt          time.Time `json:"created_at"`
}

// EvaluationResponse is the combined read view of an evaluation: the
// grading result plus enough paper, rubric, and feedback context to render
// a review screen in one round trip.
type EvaluationResponse struct {
	ID                uint                `json:"id"`
	PaperID           uint                `json:"paper_id"`
	PaperTitle        string              `json:"paper_title"`
	RubricID          uint                `json:"rubric_id"`
	RubricName        string              `json:"rubric_name"`
	RubricScoringType string              `json:"rubric_scoring_type"`
	PromptID          uint                `json:"prompt_id"`
	ModelResponse     any                 `json:"model_response"`
	IsCorrect         *bool               `json:"is_correct"`
	CreatedAt         time.Time           `json:"created_at"`
	RubricCriteria    []CriterionResponse `json:"rubric_criteria"`
	Feedback          []FeedbackResponse  `json:"feedback"`
}

// MetricsResponse summarizes grading accuracy over reviewed evaluations.
type MetricsResponse struct {
	TotalEvaluations    int       `json:"total_evaluations"`
	ReviewedEvaluations int       `json:"reviewed_evaluations"`
	PendingEvaluations  int       `json:"pending_evaluations"`
	CorrectEvaluations  int       `json:"correct_evaluations"`
	AccuracyPercent     *float64  `json:"accuracy_percent"`
	Provider            string    `json:"provider"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// NewFeedbackResponse converts a model into a DTO.
func NewFeedbackResponse(model models.FeedbackEntry) FeedbackResponse {
	return FeedbackResponse{
		ID:                 model.ID,
		EvaluationID:       model.EvaluationID,
		RubricID:           model.RubricID,
		CriterionID:        model.CriterionID,
		ModelScore:         model.ModelScore,
		UserCorrectedScore: model.UserCorrectedScore,
		UserExplanation:    model.UserExplanation,
		CreatedAt:          model.CreatedAt,
	}
}

// NewFeedbackResponseSlice converts models into DTOs.
func NewFeedbackResponseSlice(entries []models.FeedbackEntry) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewFeedbackResponse(entry))
	}

	return responses
}

// NewEvaluationResponse converts a model with its preloaded associations
// and feedback into the combined read view. The stored response blob is
// decoded here; an undecodable blob falls back to its raw string form.
func NewEvaluationResponse(model models.Evaluation, feedback []models.FeedbackEntry) EvaluationResponse {
	response := EvaluationResponse{
		ID:             model.ID,
		PaperID:        model.PaperID,
		RubricID:       model.RubricID,
		PromptID:       model.PromptID,
		IsCorrect:      model.IsCorrect,
		CreatedAt:      model.CreatedAt,
		RubricCriteria: []CriterionResponse{},
		Feedback:       NewFeedbackResponseSlice(feedback),
	}

	if model.Paper != nil {
		response.PaperTitle = model.Paper.Title
	}
	if model.Rubric != nil {
		response.RubricName = model.Rubric.Name
		response.RubricScoringType = model.Rubric.ScoringType
		response.RubricCriteria = NewCriterionResponseSlice(model.Rubric.Criteria)
	}

	var decoded any
	if err := json.Unmarshal(model.ModelResponse, &decoded); err != nil {
		decoded = string(model.ModelResponse)
	}
	response.ModelResponse = decoded

	return response
}

// NewEvaluationResponseSlice converts models into combined read views
// without feedback, for list endpoints.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewEvaluationResponse(evaluation, nil))
	}

	return responses
}
