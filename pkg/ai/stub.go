package ai

import (
	"context"

	"github.com/graderly/grader-api/internal/models"
)

const (
	stubDefaultMin = 0
	stubDefaultMax = 10
)

// StubGrader produces deterministic scores without any I/O. It is the
// default provider for development and test environments.
type StubGrader struct{}

// NewStubGrader constructs the stub provider.
func NewStubGrader() *StubGrader {
	return &StubGrader{}
}

// Name identifies the provider.
func (g *StubGrader) Name() string { return ProviderStub }

// Grade returns one entry per criterion with a score derived purely from
// the rubric's scoring type: "yes", "meets", or the integer midpoint of the
// criterion bounds.
func (g *StubGrader) Grade(_ context.Context, _ string, rubric RubricDescriptor) (Response, error) {
	scores := make([]CriterionScore, 0, len(rubric.Criteria))
	for _, criterion := range rubric.Criteria {
		scores = append(scores, CriterionScore{
			CriterionID:   criterion.ID,
			CriterionName: criterion.Name,
			Score:         stubScore(rubric.ScoringType, criterion),
			Reasoning:     "Stubbed evaluation response",
		})
	}

	return Response{Evaluations: scores}, nil
}

func stubScore(scoringType string, criterion CriterionDescriptor) any {
	switch scoringType {
	case models.ScoringTypeMeets:
		return "meets"
	case models.ScoringTypeNumerical:
		lo, hi := stubDefaultMin, stubDefaultMax
		if criterion.MinScore != nil {
			lo = *criterion.MinScore
		}
		if criterion.MaxScore != nil {
			hi = *criterion.MaxScore
		}
		return (lo + hi) / 2
	default:
		return "yes"
	}
}
