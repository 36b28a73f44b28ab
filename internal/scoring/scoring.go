// Package scoring normalizes corrected scores against a rubric's scoring
// type. It is deliberately free of persistence concerns so the rules can be
// tested in isolation.
package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/graderly/grader-api/internal/models"
)

// Kind classifies why a corrected score was rejected.
type Kind string

const (
	// KindInvalidEnumValue means the value is not part of the scoring vocabulary.
	KindInvalidEnumValue Kind = "invalid_enum_value"
	// KindNotAnInteger means a numerical score failed to parse.
	KindNotAnInteger Kind = "not_an_integer"
	// KindOutOfRange means a numerical score fell outside the criterion bounds.
	KindOutOfRange Kind = "out_of_range"
)

// ValidationError describes a rejected corrected score.
type ValidationError struct {
	Kind   Kind
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// Bounds carries the optional integer range of a numerical criterion.
type Bounds struct {
	Min *int
	Max *int
}

// BoundsOf extracts the score bounds from a criterion, if any.
func BoundsOf(criterion *models.Criterion) *Bounds {
	if criterion == nil {
		return nil
	}
	return &Bounds{Min: criterion.MinScore, Max: criterion.MaxScore}
}

// Normalize validates a raw corrected score against the scoring type and
// returns its canonical form. Unknown scoring types pass the trimmed input
// through unchanged so newer vocabularies do not break older clients.
func Normalize(scoringType, raw string, bounds *Bounds) (string, error) {
	trimmed := strings.TrimSpace(raw)

	switch scoringType {
	case models.ScoringTypeYesNo:
		return normalizeEnum(trimmed, "yes", "no")
	case models.ScoringTypeMeets:
		return normalizeEnum(trimmed, "meets", "does_not_meet")
	case models.ScoringTypeNumerical:
		return normalizeNumerical(trimmed, bounds)
	default:
		return trimmed, nil
	}
}

func normalizeEnum(trimmed string, allowed ...string) (string, error) {
	value := strings.ToLower(trimmed)
	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}
	return "", &ValidationError{
		Kind:   KindInvalidEnumValue,
		Detail: fmt.Sprintf("score %q is not one of %s", trimmed, strings.Join(allowed, ", ")),
	}
}

func normalizeNumerical(trimmed string, bounds *Bounds) (string, error) {
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", &ValidationError{
			Kind:   KindNotAnInteger,
			Detail: fmt.Sprintf("score %q is not an integer", trimmed),
		}
	}

	if bounds != nil {
		if bounds.Min != nil && value < *bounds.Min {
			return "", &ValidationError{
				Kind:   KindOutOfRange,
				Detail: fmt.Sprintf("score %d is below the minimum %d", value, *bounds.Min),
			}
		}
		if bounds.Max != nil && value > *bounds.Max {
			return "", &ValidationError{
				Kind:   KindOutOfRange,
				Detail: fmt.Sprintf("score %d is above the maximum %d", value, *bounds.Max),
			}
		}
	}

	return strconv.Itoa(value), nil
}
