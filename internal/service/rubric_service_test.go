package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graderly/grader-api/internal/dto"
	"github.com/graderly/grader-api/internal/models"
)

func TestRubricServiceCreateNumericalRequiresBounds(t *testing.T) {
	svc := NewRubricService(newFakeRubricRepo(), newTestValidator(), testLogger())

	_, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "Points",
		ScoringType: models.ScoringTypeNumerical,
		Criteria:    []dto.CriterionCreateRequest{{Name: "Thesis"}},
	})
	require.ErrorIs(t, err, ErrScoreBounds)

	_, err = svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "Points",
		ScoringType: models.ScoringTypeNumerical,
		Criteria:    []dto.CriterionCreateRequest{{Name: "Thesis", MinScore: intPtr(10), MaxScore: intPtr(5)}},
	})
	require.ErrorIs(t, err, ErrScoreBounds)
}

func TestRubricServiceCreateWithCriteria(t *testing.T) {
	repo := newFakeRubricRepo()
	svc := NewRubricService(repo, newTestValidator(), testLogger())

	response, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "  Essay Rubric  ",
		Description: "General essays",
		ScoringType: models.ScoringTypeYesNo,
		Criteria: []dto.CriterionCreateRequest{
			{Name: "Thesis", Order: 0},
			{Name: "Grammar", Order: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Essay Rubric", response.Name, "names are trimmed")
	require.Len(t, response.Criteria, 2)
	require.Equal(t, response.ID, response.Criteria[0].RubricID)
}

func TestRubricServiceCreateRejectsUnknownScoringType(t *testing.T) {
	svc := NewRubricService(newFakeRubricRepo(), newTestValidator(), testLogger())

	_, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "Letters",
		ScoringType: "letter_grade",
		Criteria:    []dto.CriterionCreateRequest{{Name: "Thesis"}},
	})
	require.Error(t, err)
}

func TestRubricServiceUpdateScoringTypeChecksExistingCriteria(t *testing.T) {
	repo := newFakeRubricRepo()
	svc := NewRubricService(repo, newTestValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "Essay Rubric",
		ScoringType: models.ScoringTypeYesNo,
		Criteria:    []dto.CriterionCreateRequest{{Name: "Thesis"}},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, dto.RubricUpdateRequest{
		ScoringType: strPtr(models.ScoringTypeNumerical),
	})
	require.ErrorIs(t, err, ErrScoreBounds, "unbounded criteria block the switch to numerical")
}

func TestRubricServiceDeleteLastCriterion(t *testing.T) {
	repo := newFakeRubricRepo()
	svc := NewRubricService(repo, newTestValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "Essay Rubric",
		ScoringType: models.ScoringTypeYesNo,
		Criteria: []dto.CriterionCreateRequest{
			{Name: "Thesis"},
			{Name: "Grammar"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCriterion(context.Background(), created.ID, created.Criteria[0].ID))
	require.ErrorIs(t, svc.DeleteCriterion(context.Background(), created.ID, created.Criteria[1].ID), ErrLastCriterion)
}

func TestRubricServiceUpdateCriterionBounds(t *testing.T) {
	repo := newFakeRubricRepo()
	svc := NewRubricService(repo, newTestValidator(), testLogger())

	created, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "Points",
		ScoringType: models.ScoringTypeNumerical,
		Criteria:    []dto.CriterionCreateRequest{{Name: "Thesis", MinScore: intPtr(0), MaxScore: intPtr(10)}},
	})
	require.NoError(t, err)
	criterionID := created.Criteria[0].ID

	_, err = svc.UpdateCriterion(context.Background(), created.ID, criterionID, dto.CriterionUpdateRequest{
		MinScore: intPtr(20),
	})
	require.ErrorIs(t, err, ErrScoreBounds)

	updated, err := svc.UpdateCriterion(context.Background(), created.ID, criterionID, dto.CriterionUpdateRequest{
		MaxScore: intPtr(20),
	})
	require.NoError(t, err)
	require.Equal(t, 20, *updated.MaxScore)
}

func TestRubricServiceUpdateCriterionWrongRubric(t *testing.T) {
	repo := newFakeRubricRepo()
	svc := NewRubricService(repo, newTestValidator(), testLogger())

	first, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "A",
		ScoringType: models.ScoringTypeYesNo,
		Criteria:    []dto.CriterionCreateRequest{{Name: "Thesis"}},
	})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), dto.RubricCreateRequest{
		Name:        "B",
		ScoringType: models.ScoringTypeYesNo,
		Criteria:    []dto.CriterionCreateRequest{{Name: "Other"}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateCriterion(context.Background(), second.ID, first.Criteria[0].ID, dto.CriterionUpdateRequest{
		Name: strPtr("Renamed"),
	})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	require.Equal(t, "criterion", notFoundErr.Entity)
}
