package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ErrMissingPlaceholder indicates a prompt template lacking one of the two
// required placeholder tokens.
var ErrMissingPlaceholder = errors.New("template_text must contain {{paper_content}} and {{rubric}}")

// ErrCriterionMismatch indicates a criterion that does not belong to the
// evaluation's rubric.
var ErrCriterionMismatch = errors.New("criterion does not belong to the evaluation's rubric")

// ErrLastCriterion indicates an attempt to delete a rubric's only criterion.
var ErrLastCriterion = errors.New("a rubric must keep at least one criterion")

// ErrScoreBounds indicates a numerical criterion without a valid score range.
var ErrScoreBounds = errors.New("numerical criteria require min_score lower than max_score")

// notFound translates a gorm miss into a NotFoundError naming the entity.
func notFound(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
