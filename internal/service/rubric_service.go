package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/dto"
	"github.com/graderly/grader-api/internal/models"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/pkg/sanitize"
)

const (
	nameMaxLength        = 255
	descriptionMaxLength = 2000
)

// RubricService manages rubrics and their criteria.
type RubricService interface {
	List(ctx context.Context, filter repository.PageFilter) ([]dto.RubricResponse, error)
	Get(ctx context.Context, id uint) (dto.RubricResponse, error)
	Create(ctx context.Context, req dto.RubricCreateRequest) (dto.RubricResponse, error)
	Update(ctx context.Context, id uint, req dto.RubricUpdateRequest) (dto.RubricResponse, error)
	Delete(ctx context.Context, id uint) error
	UpdateCriterion(ctx context.Context, rubricID, criterionID uint, req dto.CriterionUpdateRequest) (dto.CriterionResponse, error)
	DeleteCriterion(ctx context.Context, rubricID, criterionID uint) error
}

type rubricService struct {
	rubrics   repository.RubricRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRubricService constructs the rubric service.
func NewRubricService(rubrics repository.RubricRepository, validator *validator.Validate, logger zerolog.Logger) RubricService {
	return &rubricService{
		rubrics:   rubrics,
		validator: validator,
		logger:    logger.With().Str("component", "rubric_service").Logger(),
	}
}

func (s *rubricService) List(ctx context.Context, filter repository.PageFilter) ([]dto.RubricResponse, error) {
	rubrics, err := s.rubrics.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewRubricResponseSlice(rubrics), nil
}

func (s *rubricService) Get(ctx context.Context, id uint) (dto.RubricResponse, error) {
	rubric, err := s.rubrics.GetByID(ctx, id)
	if err != nil {
		return dto.RubricResponse{}, notFound("rubric", id, err)
	}

	return dto.NewRubricResponse(rubric), nil
}

func (s *rubricService) Create(ctx context.Context, req dto.RubricCreateRequest) (dto.RubricResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RubricResponse{}, err
	}

	name, err := sanitize.Text("name", req.Name, 1, nameMaxLength)
	if err != nil {
		return dto.RubricResponse{}, err
	}
	description, err := sanitize.Text("description", req.Description, 0, descriptionMaxLength)
	if err != nil {
		return dto.RubricResponse{}, err
	}

	criteria := make([]models.Criterion, 0, len(req.Criteria))
	for _, item := range req.Criteria {
		criterionName, err := sanitize.Text("criteria.name", item.Name, 1, nameMaxLength)
		if err != nil {
			return dto.RubricResponse{}, err
		}
		criterionDescription, err := sanitize.Text("criteria.description", item.Description, 0, descriptionMaxLength)
		if err != nil {
			return dto.RubricResponse{}, err
		}
		criteria = append(criteria, models.Criterion{
			Name:        criterionName,
			Description: criterionDescription,
			Order:       item.Order,
			MinScore:    item.MinScore,
			MaxScore:    item.MaxScore,
		})
	}

	if req.ScoringType == models.ScoringTypeNumerical {
		if err := validateNumericalBounds(criteria); err != nil {
			return dto.RubricResponse{}, err
		}
	}

	rubric := models.Rubric{
		Name:        name,
		Description: description,
		ScoringType: req.ScoringType,
		Criteria:    criteria,
	}
	if err := s.rubrics.Create(ctx, &rubric); err != nil {
		return dto.RubricResponse{}, err
	}

	s.logger.Info().Uint("rubric_id", rubric.ID).Str("scoring_type", rubric.ScoringType).Msg("rubric created")

	created, err := s.rubrics.GetByID(ctx, rubric.ID)
	if err != nil {
		return dto.RubricResponse{}, err
	}

	return dto.NewRubricResponse(created), nil
}

func (s *rubricService) Update(ctx context.Context, id uint, req dto.RubricUpdateRequest) (dto.RubricResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RubricResponse{}, err
	}

	rubric, err := s.rubrics.GetByID(ctx, id)
	if err != nil {
		return dto.RubricResponse{}, notFound("rubric", id, err)
	}

	if req.Name != nil {
		name, err := sanitize.Text("name", *req.Name, 1, nameMaxLength)
		if err != nil {
			return dto.RubricResponse{}, err
		}
		rubric.Name = name
	}
	if req.Description != nil {
		description, err := sanitize.Text("description", *req.Description, 0, descriptionMaxLength)
		if err != nil {
			return dto.RubricResponse{}, err
		}
		rubric.Description = description
	}
	if req.ScoringType != nil {
		rubric.ScoringType = *req.ScoringType
	}

	// Switching to numerical scoring is only allowed when every existing
	// criterion already carries a usable score range.
	if rubric.ScoringType == models.ScoringTypeNumerical {
		if err := validateNumericalBounds(rubric.Criteria); err != nil {
			return dto.RubricResponse{}, err
		}
	}

	if err := s.rubrics.Update(ctx, &rubric); err != nil {
		return dto.RubricResponse{}, err
	}

	updated, err := s.rubrics.GetByID(ctx, id)
	if err != nil {
		return dto.RubricResponse{}, err
	}

	return dto.NewRubricResponse(updated), nil
}

func (s *rubricService) Delete(ctx context.Context, id uint) error {
	if err := s.rubrics.Delete(ctx, id); err != nil {
		return notFound("rubric", id, err)
	}

	s.logger.Info().Uint("rubric_id", id).Msg("rubric deleted")
	return nil
}

func (s *rubricService) UpdateCriterion(ctx context.Context, rubricID, criterionID uint, req dto.CriterionUpdateRequest) (dto.CriterionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CriterionResponse{}, err
	}

	rubric, err := s.rubrics.GetByID(ctx, rubricID)
	if err != nil {
		return dto.CriterionResponse{}, notFound("rubric", rubricID, err)
	}

	criterion, err := s.rubrics.GetCriterion(ctx, rubricID, criterionID)
	if err != nil {
		return dto.CriterionResponse{}, notFound("criterion", criterionID, err)
	}

	if req.Name != nil {
		name, err := sanitize.Text("name", *req.Name, 1, nameMaxLength)
		if err != nil {
			return dto.CriterionResponse{}, err
		}
		criterion.Name = name
	}
	if req.Description != nil {
		description, err := sanitize.Text("description", *req.Description, 0, descriptionMaxLength)
		if err != nil {
			return dto.CriterionResponse{}, err
		}
		criterion.Description = description
	}
	if req.Order != nil {
		criterion.Order = *req.Order
	}
	if req.MinScore != nil {
		criterion.MinScore = req.MinScore
	}
	if req.MaxScore != nil {
		criterion.MaxScore = req.MaxScore
	}

	if rubric.ScoringType == models.ScoringTypeNumerical {
		if err := validateNumericalBounds([]models.Criterion{criterion}); err != nil {
			return dto.CriterionResponse{}, err
		}
	}

	if err := s.rubrics.UpdateCriterion(ctx, &criterion); err != nil {
		return dto.CriterionResponse{}, err
	}

	return dto.NewCriterionResponse(criterion), nil
}

func (s *rubricService) DeleteCriterion(ctx context.Context, rubricID, criterionID uint) error {
	if _, err := s.rubrics.GetByID(ctx, rubricID); err != nil {
		return notFound("rubric", rubricID, err)
	}

	count, err := s.rubrics.CountCriteria(ctx, rubricID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastCriterion
	}

	if err := s.rubrics.DeleteCriterion(ctx, rubricID, criterionID); err != nil {
		return notFound("criterion", criterionID, err)
	}

	return nil
}

func validateNumericalBounds(criteria []models.Criterion) error {
	for _, criterion := range criteria {
		if !criterion.HasBounds() || *criterion.MinScore >= *criterion.MaxScore {
			return ErrScoreBounds
		}
	}
	return nil
}
