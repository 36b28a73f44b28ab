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
	paperTitleMaxLength   = 255
	paperContentMinLength = 10
)

// PaperService manages submitted papers.
type PaperService interface {
	List(ctx context.Context, filter repository.PageFilter) ([]dto.PaperListResponse, error)
	Get(ctx context.Context, id uint) (dto.PaperResponse, error)
	Create(ctx context.Context, req dto.PaperCreateRequest) (dto.PaperResponse, error)
	Update(ctx context.Context, id uint, req dto.PaperUpdateRequest) (dto.PaperResponse, error)
	Delete(ctx context.Context, id uint) error
}

type paperService struct {
	papers    repository.PaperRepository
	rubrics   repository.RubricRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPaperService constructs the paper service.
func NewPaperService(papers repository.PaperRepository, rubrics repository.RubricRepository, validator *validator.Validate, logger zerolog.Logger) PaperService {
	return &paperService{
		papers:    papers,
		rubrics:   rubrics,
		validator: validator,
		logger:    logger.With().Str("component", "paper_service").Logger(),
	}
}

func (s *paperService) List(ctx context.Context, filter repository.PageFilter) ([]dto.PaperListResponse, error) {
	papers, err := s.papers.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewPaperListResponseSlice(papers), nil
}

func (s *paperService) Get(ctx context.Context, id uint) (dto.PaperResponse, error) {
	paper, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return dto.PaperResponse{}, notFound("paper", id, err)
	}

	return dto.NewPaperResponse(paper), nil
}

func (s *paperService) Create(ctx context.Context, req dto.PaperCreateRequest) (dto.PaperResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PaperResponse{}, err
	}

	title, err := sanitize.Text("title", req.Title, 1, paperTitleMaxLength)
	if err != nil {
		return dto.PaperResponse{}, err
	}
	content, err := sanitize.Text("content", req.Content, paperContentMinLength, 0)
	if err != nil {
		return dto.PaperResponse{}, err
	}

	if req.RubricID != nil {
		if _, err := s.rubrics.GetByID(ctx, *req.RubricID); err != nil {
			return dto.PaperResponse{}, notFound("rubric", *req.RubricID, err)
		}
	}

	paper := models.Paper{
		Title:    title,
		Content:  content,
		RubricID: req.RubricID,
	}
	if err := s.papers.Create(ctx, &paper); err != nil {
		return dto.PaperResponse{}, err
	}

	s.logger.Info().Uint("paper_id", paper.ID).Msg("paper created")

	created, err := s.papers.GetByID(ctx, paper.ID)
	if err != nil {
		return dto.PaperResponse{}, err
	}

	return dto.NewPaperResponse(created), nil
}

func (s *paperService) Update(ctx context.Context, id uint, req dto.PaperUpdateRequest) (dto.PaperResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PaperResponse{}, err
	}

	paper, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return dto.PaperResponse{}, notFound("paper", id, err)
	}

	if req.Title != nil {
		title, err := sanitize.Text("title", *req.Title, 1, paperTitleMaxLength)
		if err != nil {
			return dto.PaperResponse{}, err
		}
		paper.Title = title
	}
	if req.Content != nil {
		content, err := sanitize.Text("content", *req.Content, paperContentMinLength, 0)
		if err != nil {
			return dto.PaperResponse{}, err
		}
		paper.Content = content
	}
	if req.RubricID != nil {
		if _, err := s.rubrics.GetByID(ctx, *req.RubricID); err != nil {
			return dto.PaperResponse{}, notFound("rubric", *req.RubricID, err)
		}
		paper.RubricID = req.RubricID
	}

	paper.Rubric = nil
	if err := s.papers.Update(ctx, &paper); err != nil {
		return dto.PaperResponse{}, err
	}

	updated, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return dto.PaperResponse{}, err
	}

	return dto.NewPaperResponse(updated), nil
}

func (s *paperService) Delete(ctx context.Context, id uint) error {
	if err := s.papers.Delete(ctx, id); err != nil {
		return notFound("paper", id, err)
	}

	s.logger.Info().Uint("paper_id", id).Msg("paper deleted")
	return nil
}
