package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/dto"
	"github.com/graderly/grader-api/internal/models"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/internal/scoring"
	"github.com/graderly/grader-api/pkg/sanitize"
)

const explanationMaxLength = 5000

// FeedbackService records human corrections against evaluations and
// handles explicit correctness review marks.
type FeedbackService interface {
	Record(ctx context.Context, evaluationID uint, req dto.FeedbackCreateRequest) (dto.FeedbackResponse, error)
	SetCorrectness(ctx context.Context, evaluationID uint, isCorrect bool) (dto.EvaluationResponse, error)
}

type feedbackService struct {
	feedback    repository.FeedbackRepository
	evaluations repository.EvaluationRepository
	rubrics     repository.RubricRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(
	feedback repository.FeedbackRepository,
	evaluations repository.EvaluationRepository,
	rubrics repository.RubricRepository,
	validator *validator.Validate,
	logger zerolog.Logger,
) FeedbackService {
	return &feedbackService{
		feedback:    feedback,
		evaluations: evaluations,
		rubrics:     rubrics,
		validator:   validator,
		logger:      logger.With().Str("component", "feedback_service").Logger(),
	}
}

func (s *feedbackService) Record(ctx context.Context, evaluationID uint, req dto.FeedbackCreateRequest) (dto.FeedbackResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.FeedbackResponse{}, err
	}

	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return dto.FeedbackResponse{}, notFound("evaluation", evaluationID, err)
	}

	rubric := evaluation.Rubric
	if rubric == nil {
		// GetByID preloads the rubric; fall back to a direct lookup in case
		// a caller hands in a partially loaded evaluation.
		loaded, err := s.rubrics.GetByID(ctx, evaluation.RubricID)
		if err != nil {
			return dto.FeedbackResponse{}, notFound("rubric", evaluation.RubricID, err)
		}
		rubric = &loaded
	}

	var criterion *models.Criterion
	if req.CriterionID != nil {
		for i := range rubric.Criteria {
			if rubric.Criteria[i].ID == *req.CriterionID {
				criterion = &rubric.Criteria[i]
				break
			}
		}
		if criterion == nil {
			return dto.FeedbackResponse{}, ErrCriterionMismatch
		}
	}

	corrected, err := scoring.Normalize(rubric.ScoringType, req.UserCorrectedScore, scoring.BoundsOf(criterion))
	if err != nil {
		return dto.FeedbackResponse{}, err
	}

	explanation, err := sanitize.Text("user_explanation", req.UserExplanation, 0, explanationMaxLength)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}

	entry := models.FeedbackEntry{
		EvaluationID:       evaluation.ID,
		RubricID:           rubric.ID,
		CriterionID:        req.CriterionID,
		ModelScore:         strings.TrimSpace(req.ModelScore),
		UserCorrectedScore: corrected,
		UserExplanation:    explanation,
	}
	if err := s.feedback.Upsert(ctx, &entry); err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().
		Uint("evaluation_id", evaluation.ID).
		Uint("feedback_id", entry.ID).
		Msg("feedback recorded")

	return dto.NewFeedbackResponse(entry), nil
}

func (s *feedbackService) SetCorrectness(ctx context.Context, evaluationID uint, isCorrect bool) (dto.EvaluationResponse, error) {
	if err := s.evaluations.SetCorrectness(ctx, evaluationID, isCorrect); err != nil {
		return dto.EvaluationResponse{}, notFound("evaluation", evaluationID, err)
	}

	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return dto.EvaluationResponse{}, notFound("evaluation", evaluationID, err)
	}

	entries, err := s.feedback.ListByEvaluation(ctx, evaluationID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(evaluation, entries), nil
}
