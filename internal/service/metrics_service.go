package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/dto"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/pkg/ai"
)

// MetricsService reports grading accuracy over reviewed evaluations.
type MetricsService interface {
	Accuracy(ctx context.Context) (dto.MetricsResponse, error)
}

type metricsService struct {
	evaluations repository.EvaluationRepository
	graders     *ai.Factory
	logger      zerolog.Logger
	now         func() time.Time
}

// NewMetricsService constructs the metrics service.
func NewMetricsService(evaluations repository.EvaluationRepository, graders *ai.Factory, logger zerolog.Logger) MetricsService {
	return &metricsService{
		evaluations: evaluations,
		graders:     graders,
		logger:      logger.With().Str("component", "metrics_service").Logger(),
		now:         time.Now,
	}
}

func (s *metricsService) Accuracy(ctx context.Context) (dto.MetricsResponse, error) {
	stats, err := s.evaluations.Stats(ctx)
	if err != nil {
		return dto.MetricsResponse{}, err
	}

	response := dto.MetricsResponse{
		TotalEvaluations:    int(stats.Total),
		ReviewedEvaluations: int(stats.Reviewed),
		PendingEvaluations:  int(stats.Total - stats.Reviewed),
		CorrectEvaluations:  int(stats.Correct),
		Provider:            s.graders.ActiveProvider(),
		GeneratedAt:         s.now().UTC(),
	}

	if stats.Reviewed > 0 {
		percent := float64(stats.Correct) / float64(stats.Reviewed) * 100
		response.AccuracyPercent = &percent
	}

	return response, nil
}
