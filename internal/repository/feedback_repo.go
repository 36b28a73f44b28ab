package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/models"
)

// FeedbackRepository defines persistence operations for feedback entries.
type FeedbackRepository interface {
	ListByEvaluation(ctx context.Context, evaluationID uint) ([]models.FeedbackEntry, error)
	// Upsert stores the entry for its (evaluation, criterion) pair,
	// overwriting any prior entry in place, and marks the parent evaluation
	// incorrect within the same transaction.
	Upsert(ctx context.Context, entry *models.FeedbackEntry) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository instantiates a GORM-backed repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) ListByEvaluation(ctx context.Context, evaluationID uint) ([]models.FeedbackEntry, error) {
	var entries []models.FeedbackEntry
	err := r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *feedbackRepository) Upsert(ctx context.Context, entry *models.FeedbackEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("evaluation_id = ?", entry.EvaluationID)
		if entry.CriterionID != nil {
			query = query.Where("criterion_id = ?", *entry.CriterionID)
		} else {
			query = query.Where("criterion_id IS NULL")
		}

		var existing models.FeedbackEntry
		err := query.First(&existing).Error
		switch {
		case err == nil:
			existing.ModelScore = entry.ModelScore
			existing.UserCorrectedScore = entry.UserCorrectedScore
			existing.UserExplanation = entry.UserExplanation
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*entry = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// Any correction marks the whole evaluation as reviewed-incorrect;
		// an explicit correctness update can override it afterwards.
		if err := tx.Model(&models.Evaluation{}).
			Where("id = ?", entry.EvaluationID).
			Update("is_correct", false).Error; err != nil {
			return err
		}

		return refreshPromptAccuracy(tx, entry.EvaluationID)
	})
}
