package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/models"
)

// EvaluationStats aggregates review progress over all evaluations.
type EvaluationStats struct {
	Total    int64
	Reviewed int64
	Correct  int64
}

// EvaluationRepository defines persistence operations for evaluations.
type EvaluationRepository interface {
	List(ctx context.Context, filter PageFilter) ([]models.Evaluation, error)
	GetByID(ctx context.Context, id uint) (models.Evaluation, error)
	// CreateWithPrompt persists the evaluation, lazily inserts the default
	// prompt when one is supplied, and bumps the prompt's evaluation
	// counter, all inside a single transaction so no partial state is ever
	// observable.
	CreateWithPrompt(ctx context.Context, evaluation *models.Evaluation, defaultPrompt *models.Prompt) error
	SetCorrectness(ctx context.Context, id uint, isCorrect bool) error
	Stats(ctx context.Context) (EvaluationStats, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates a GORM-backed repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) List(ctx context.Context, filter PageFilter) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	query := applyPage(r.db.WithContext(ctx).
		Preload("Paper").
		Preload("Rubric").
		Preload("Rubric.Criteria", criteriaOrdered).
		Order("id ASC"), filter)
	if err := query.Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}

func (r *evaluationRepository) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Paper").
		Preload("Rubric").
		Preload("Rubric.Criteria", criteriaOrdered).
		First(&evaluation, id).Error
	if err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) CreateWithPrompt(ctx context.Context, evaluation *models.Evaluation, defaultPrompt *models.Prompt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if defaultPrompt != nil {
			if defaultPrompt.IsActive {
				if err := deactivateAll(tx); err != nil {
					return err
				}
			}
			if err := tx.Create(defaultPrompt).Error; err != nil {
				return err
			}
			evaluation.PromptID = defaultPrompt.ID
		}

		if err := tx.Create(evaluation).Error; err != nil {
			return err
		}

		return tx.Model(&models.Prompt{}).
			Where("id = ?", evaluation.PromptID).
			UpdateColumn("total_evaluations", gorm.Expr("total_evaluations + 1")).Error
	})
}

func (r *evaluationRepository) SetCorrectness(ctx context.Context, id uint, isCorrect bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Evaluation{}).
			Where("id = ?", id).
			Update("is_correct", isCorrect)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return refreshPromptAccuracy(tx, id)
	})
}

func (r *evaluationRepository) Stats(ctx context.Context) (EvaluationStats, error) {
	var stats EvaluationStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Evaluation{}).Count(&stats.Total).Error; err != nil {
		return EvaluationStats{}, err
	}
	if err := db.Model(&models.Evaluation{}).Where("is_correct IS NOT NULL").Count(&stats.Reviewed).Error; err != nil {
		return EvaluationStats{}, err
	}
	if err := db.Model(&models.Evaluation{}).Where("is_correct = ?", true).Count(&stats.Correct).Error; err != nil {
		return EvaluationStats{}, err
	}

	return stats, nil
}

// refreshPromptAccuracy recomputes the accuracy rate of the prompt behind
// the given evaluation from every reviewed evaluation using that prompt.
// Called whenever a review mark changes, inside the same transaction.
func refreshPromptAccuracy(tx *gorm.DB, evaluationID uint) error {
	var evaluation models.Evaluation
	if err := tx.Select("id", "prompt_id").First(&evaluation, evaluationID).Error; err != nil {
		return err
	}

	var reviewed, correct int64
	if err := tx.Model(&models.Evaluation{}).
		Where("prompt_id = ? AND is_correct IS NOT NULL", evaluation.PromptID).
		Count(&reviewed).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Evaluation{}).
		Where("prompt_id = ? AND is_correct = ?", evaluation.PromptID, true).
		Count(&correct).Error; err != nil {
		return err
	}

	var rate *float64
	if reviewed > 0 {
		value := float64(correct) / float64(reviewed) * 100
		rate = &value
	}

	return tx.Model(&models.Prompt{}).
		Where("id = ?", evaluation.PromptID).
		Update("accuracy_rate", rate).Error
}
