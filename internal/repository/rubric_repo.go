package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/models"
)

// RubricRepository defines persistence operations for rubrics and criteria.
type RubricRepository interface {
	List(ctx context.Context, filter PageFilter) ([]models.Rubric, error)
	GetByID(ctx context.Context, id uint) (models.Rubric, error)
	Create(ctx context.Context, rubric *models.Rubric) error
	Update(ctx context.Context, rubric *models.Rubric) error
	Delete(ctx context.Context, id uint) error
	GetCriterion(ctx context.Context, rubricID, criterionID uint) (models.Criterion, error)
	UpdateCriterion(ctx context.Context, criterion *models.Criterion) error
	DeleteCriterion(ctx context.Context, rubricID, criterionID uint) error
	CountCriteria(ctx context.Context, rubricID uint) (int64, error)
}

type rubricRepository struct {
	db *gorm.DB
}

// NewRubricRepository instantiates a GORM-backed repository.
func NewRubricRepository(db *gorm.DB) RubricRepository {
	return &rubricRepository{db: db}
}

func criteriaOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("criteria.display_order ASC")
}

func (r *rubricRepository) List(ctx context.Context, filter PageFilter) ([]models.Rubric, error) {
	var rubrics []models.Rubric
	query := applyPage(r.db.WithContext(ctx).Preload("Criteria", criteriaOrdered).Order("id ASC"), filter)
	if err := query.Find(&rubrics).Error; err != nil {
		return nil, err
	}

	return rubrics, nil
}

func (r *rubricRepository) GetByID(ctx context.Context, id uint) (models.Rubric, error) {
	var rubric models.Rubric
	if err := r.db.WithContext(ctx).Preload("Criteria", criteriaOrdered).First(&rubric, id).Error; err != nil {
		return models.Rubric{}, err
	}

	return rubric, nil
}

// Create persists the rubric and its nested criteria in one transaction.
func (r *rubricRepository) Create(ctx context.Context, rubric *models.Rubric) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rubric).Error
	})
}

func (r *rubricRepository) Update(ctx context.Context, rubric *models.Rubric) error {
	return r.db.WithContext(ctx).Omit("Criteria").Save(rubric).Error
}

// Delete removes the rubric, its criteria, every evaluation referencing it
// (plus their feedback entries), and detaches papers, all in one transaction.
func (r *rubricRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var evaluationIDs []uint
		if err := tx.Model(&models.Evaluation{}).Where("rubric_id = ?", id).Pluck("id", &evaluationIDs).Error; err != nil {
			return err
		}

		if len(evaluationIDs) > 0 {
			if err := tx.Where("evaluation_id IN ?", evaluationIDs).Delete(&models.FeedbackEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("rubric_id = ?", id).Delete(&models.Evaluation{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Paper{}).Where("rubric_id = ?", id).Update("rubric_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("rubric_id = ?", id).Delete(&models.Criterion{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Rubric{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *rubricRepository) GetCriterion(ctx context.Context, rubricID, criterionID uint) (models.Criterion, error) {
	var criterion models.Criterion
	err := r.db.WithContext(ctx).
		Where("id = ? AND rubric_id = ?", criterionID, rubricID).
		First(&criterion).Error
	if err != nil {
		return models.Criterion{}, err
	}

	return criterion, nil
}

func (r *rubricRepository) UpdateCriterion(ctx context.Context, criterion *models.Criterion) error {
	return r.db.WithContext(ctx).Save(criterion).Error
}

func (r *rubricRepository) DeleteCriterion(ctx context.Context, rubricID, criterionID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND rubric_id = ?", criterionID, rubricID).
		Delete(&models.Criterion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *rubricRepository) CountCriteria(ctx context.Context, rubricID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Criterion{}).Where("rubric_id = ?", rubricID).Count(&count).Error
	return count, err
}
