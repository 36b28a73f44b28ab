package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/dto"
	"github.com/graderly/grader-api/internal/models"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/pkg/ai"
)

// EvaluationService runs the grading lifecycle: resolve the paper, rubric
// and prompt, obtain a model response, and persist the evaluation.
type EvaluationService interface {
	List(ctx context.Context, filter repository.PageFilter) ([]dto.EvaluationResponse, error)
	Get(ctx context.Context, id uint) (dto.EvaluationResponse, error)
	Create(ctx context.Context, req dto.EvaluationCreateRequest) (dto.EvaluationResponse, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	papers      repository.PaperRepository
	rubrics     repository.RubricRepository
	prompts     repository.PromptRepository
	feedback    repository.FeedbackRepository
	graders     *ai.Factory
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(
	evaluations repository.EvaluationRepository,
	papers repository.PaperRepository,
	rubrics repository.RubricRepository,
	prompts repository.PromptRepository,
	feedback repository.FeedbackRepository,
	graders *ai.Factory,
	validator *validator.Validate,
	logger zerolog.Logger,
) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		papers:      papers,
		rubrics:     rubrics,
		prompts:     prompts,
		feedback:    feedback,
		graders:     graders,
		validator:   validator,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) List(ctx context.Context, filter repository.PageFilter) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.evaluations.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewEvaluationResponseSlice(evaluations), nil
}

func (s *evaluationService) Get(ctx context.Context, id uint) (dto.EvaluationResponse, error) {
	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		return dto.EvaluationResponse{}, notFound("evaluation", id, err)
	}

	entries, err := s.feedback.ListByEvaluation(ctx, id)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(evaluation, entries), nil
}

func (s *evaluationService) Create(ctx context.Context, req dto.EvaluationCreateRequest) (dto.EvaluationResponse, error) {
	tracer := otel.Tracer("github.com/graderly/grader-api/internal/service/evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.create")
	span.SetAttributes(
		attribute.Int64("evaluation.paper_id", int64(req.PaperID)),
		attribute.Int64("evaluation.rubric_id", int64(req.RubricID)),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	paper, err := s.papers.GetByID(ctx, req.PaperID)
	if err != nil {
		span.SetStatus(codes.Error, "paper_not_found")
		return dto.EvaluationResponse{}, notFound("paper", req.PaperID, err)
	}
	rubric, err := s.rubrics.GetByID(ctx, req.RubricID)
	if err != nil {
		span.SetStatus(codes.Error, "rubric_not_found")
		return dto.EvaluationResponse{}, notFound("rubric", req.RubricID, err)
	}

	// The prompt does not shape the backend call; it is tracked so every
	// evaluation is attributable to the template version in force. With no
	// explicit id the lowest-id prompt wins; with no prompts at all a
	// version-1 default is created inside the same transaction as the
	// evaluation itself.
	var promptID uint
	var defaultPrompt *models.Prompt
	switch {
	case req.PromptID != nil:
		prompt, err := s.prompts.GetByID(ctx, *req.PromptID)
		if err != nil {
			span.SetStatus(codes.Error, "prompt_not_found")
			return dto.EvaluationResponse{}, notFound("prompt", *req.PromptID, err)
		}
		promptID = prompt.ID
	default:
		prompt, err := s.prompts.Oldest(ctx)
		switch {
		case err == nil:
			promptID = prompt.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			seeded := DefaultPrompt()
			defaultPrompt = &seeded
		default:
			return dto.EvaluationResponse{}, err
		}
	}

	payload, err := s.resolveResponse(ctx, req, paper, rubric)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_failed")
		return dto.EvaluationResponse{}, err
	}

	evaluation := models.Evaluation{
		PaperID:       paper.ID,
		RubricID:      rubric.ID,
		PromptID:      promptID,
		ModelResponse: payload,
	}
	if err := s.evaluations.CreateWithPrompt(ctx, &evaluation, defaultPrompt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		return dto.EvaluationResponse{}, err
	}

	span.SetAttributes(attribute.Int64("evaluation.id", int64(evaluation.ID)))
	s.logger.Info().
		Uint("evaluation_id", evaluation.ID).
		Uint("paper_id", paper.ID).
		Uint("rubric_id", rubric.ID).
		Msg("evaluation created")

	created, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(created, nil), nil
}

// resolveResponse produces the stored model response: the caller-supplied
// payload verbatim when present, otherwise the grading backend's answer.
// The backend call happens before any write so no transaction spans
// network I/O.
func (s *evaluationService) resolveResponse(ctx context.Context, req dto.EvaluationCreateRequest, paper models.Paper, rubric models.Rubric) (datatypes.JSON, error) {
	if len(req.ModelResponse) > 0 {
		return datatypes.JSON(req.ModelResponse), nil
	}

	grader, err := s.graders.Grader(req.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrBackendUnavailable, err)
	}

	response, err := grader.Grade(ctx, paper.Content, rubricDescriptor(rubric))
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("%w: encode response: %v", ai.ErrBackendUnavailable, err)
	}

	return datatypes.JSON(payload), nil
}

func rubricDescriptor(rubric models.Rubric) ai.RubricDescriptor {
	criteria := make([]ai.CriterionDescriptor, 0, len(rubric.Criteria))
	for _, criterion := range rubric.Criteria {
		criteria = append(criteria, ai.CriterionDescriptor{
			ID:          criterion.ID,
			Name:        criterion.Name,
			Description: criterion.Description,
			MinScore:    criterion.MinScore,
			MaxScore:    criterion.MaxScore,
		})
	}

	return ai.RubricDescriptor{
		ID:          rubric.ID,
		Name:        rubric.Name,
		ScoringType: rubric.ScoringType,
		Criteria:    criteria,
	}
}
