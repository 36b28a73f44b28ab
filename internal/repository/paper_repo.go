package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/models"
)

// PageFilter describes offset pagination shared by list queries.
type PageFilter struct {
	Skip  int
	Limit int
}

func applyPage(query *gorm.DB, filter PageFilter) *gorm.DB {
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	return query.Limit(limit)
}

// PaperRepository defines persistence operations for papers.
type PaperRepository interface {
	List(ctx context.Context, filter PageFilter) ([]models.Paper, error)
	GetByID(ctx context.Context, id uint) (models.Paper, error)
	Create(ctx context.Context, paper *models.Paper) error
	Update(ctx context.Context, paper *models.Paper) error
	Delete(ctx context.Context, id uint) error
}

type paperRepository struct {
	db *gorm.DB
}

// NewPaperRepository instantiates a GORM-backed repository.
func NewPaperRepository(db *gorm.DB) PaperRepository {
	return &paperRepository{db: db}
}

func (r *paperRepository) List(ctx context.Context, filter PageFilter) ([]models.Paper, error) {
	var papers []models.Paper
	query := applyPage(r.db.WithContext(ctx).Preload("Rubric").Order("id ASC"), filter)
	if err := query.Find(&papers).Error; err != nil {
		return nil, err
	}

	return papers, nil
}

func (r *paperRepository) GetByID(ctx context.Context, id uint) (models.Paper, error) {
	var paper models.Paper
	if err := r.db.WithContext(ctx).Preload("Rubric").First(&paper, id).Error; err != nil {
		return models.Paper{}, err
	}

	return paper, nil
}

func (r *paperRepository) Create(ctx context.Context, paper *models.Paper) error {
	return r.db.WithContext(ctx).Create(paper).Error
}

func (r *paperRepository) Update(ctx context.Context, paper *models.Paper) error {
	return r.db.WithContext(ctx).Save(paper).Error
}

// Delete removes the paper together with its evaluations and their feedback
// entries in one transaction, mirroring the store-level cascade rules.
func (r *paperRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var evaluationIDs []uint
		if err := tx.Model(&models.Evaluation{}).Where("paper_id = ?", id).Pluck("id", &evaluationIDs).Error; err != nil {
			return err
		}

		if len(evaluationIDs) > 0 {
			if err := tx.Where("evaluation_id IN ?", evaluationIDs).Delete(&models.FeedbackEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("paper_id = ?", id).Delete(&models.Evaluation{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Paper{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
