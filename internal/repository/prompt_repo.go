package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/models"
)

// PromptRepository defines persistence operations for prompt versions.
// The single-active invariant is enforced here: every write that activates
// a prompt deactivates the others inside the same transaction.
type PromptRepository interface {
	List(ctx context.Context, filter PageFilter) ([]models.Prompt, error)
	GetByID(ctx context.Context, id uint) (models.Prompt, error)
	Oldest(ctx context.Context) (models.Prompt, error)
	HighestVersion(ctx context.Context) (int, error)
	Create(ctx context.Context, prompt *models.Prompt) error
	Update(ctx context.Context, prompt *models.Prompt) error
	Activate(ctx context.Context, id uint) (models.Prompt, error)
}

type promptRepository struct {
	db *gorm.DB
}

// NewPromptRepository instantiates a GORM-backed repository.
func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) List(ctx context.Context, filter PageFilter) ([]models.Prompt, error) {
	var prompts []models.Prompt
	query := applyPage(r.db.WithContext(ctx).Order("created_at DESC, id DESC"), filter)
	if err := query.Find(&prompts).Error; err != nil {
		return nil, err
	}

	return prompts, nil
}

func (r *promptRepository) GetByID(ctx context.Context, id uint) (models.Prompt, error) {
	var prompt models.Prompt
	if err := r.db.WithContext(ctx).First(&prompt, id).Error; err != nil {
		return models.Prompt{}, err
	}

	return prompt, nil
}

func (r *promptRepository) Oldest(ctx context.Context) (models.Prompt, error) {
	var prompt models.Prompt
	if err := r.db.WithContext(ctx).Order("id ASC").First(&prompt).Error; err != nil {
		return models.Prompt{}, err
	}

	return prompt, nil
}

func (r *promptRepository) HighestVersion(ctx context.Context) (int, error) {
	var prompt models.Prompt
	err := r.db.WithContext(ctx).Order("version DESC").First(&prompt).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}

	return prompt.Version, nil
}

func (r *promptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if prompt.IsActive {
			if err := deactivateAll(tx); err != nil {
				return err
			}
		}
		return tx.Create(prompt).Error
	})
}

func (r *promptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if prompt.IsActive {
			if err := deactivateAllExcept(tx, prompt.ID); err != nil {
				return err
			}
		}
		return tx.Save(prompt).Error
	})
}

func (r *promptRepository) Activate(ctx context.Context, id uint) (models.Prompt, error) {
	var prompt models.Prompt
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prompt, id).Error; err != nil {
			return err
		}
		if err := deactivateAllExcept(tx, id); err != nil {
			return err
		}
		prompt.IsActive = true
		return tx.Save(&prompt).Error
	})
	if err != nil {
		return models.Prompt{}, err
	}

	return prompt, nil
}

func deactivateAll(tx *gorm.DB) error {
	return tx.Model(&models.Prompt{}).Where("is_active = ?", true).Update("is_active", false).Error
}

func deactivateAllExcept(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Prompt{}).Where("id <> ? AND is_active = ?", id, true).Update("is_active", false).Error
}
