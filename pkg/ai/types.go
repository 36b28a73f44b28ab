package ai

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrBackendUnavailable indicates the grading backend failed or timed out.
// Callers use it to distinguish backend outages from bad input.
var ErrBackendUnavailable = errors.New("grading backend unavailable")

var (
	gradeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "grader",
		Subsystem: "backend",
		Name:      "grade_duration_seconds",
		Help:      "Duration of grading backend requests",
	}, []string{"provider"})

	gradeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grader",
		Subsystem: "backend",
		Name:      "grade_failures_total",
		Help:      "Number of grading backend failures",
	}, []string{"provider"})
)

// CriterionDescriptor is the per-criterion slice of the rubric handed to a grader.
type CriterionDescriptor struct {
	ID          uint
	Name        string
	Description string
	MinScore    *int
	MaxScore    *int
}

// RubricDescriptor carries everything a grader needs to know about a rubric.
type RubricDescriptor struct {
	ID          uint
	Name        string
	ScoringType string
	Criteria    []CriterionDescriptor
}

// CriterionScore is one graded criterion in a backend response.
type CriterionScore struct {
	CriterionID   uint   `json:"criterion_id"`
	CriterionName string `json:"criterion_name,omitempty"`
	Score         any    `json:"score"`
	Reasoning     string `json:"reasoning,omitempty"`
}

// Response is the structured payload produced by a grader. RawText carries
// the backend's verbatim answer when it could not be decoded into per
// criterion scores; downstream storage treats the whole payload as opaque.
type Response struct {
	Evaluations []CriterionScore `json:"evaluations"`
	RawText     string           `json:"raw_text,omitempty"`
	Raw         map[string]any   `json:"raw,omitempty"`
}

// Grader scores a paper against a rubric and returns a structured response.
type Grader interface {
	Name() string
	Grade(ctx context.Context, paperContent string, rubric RubricDescriptor) (Response, error)
}
