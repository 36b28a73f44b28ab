// Package sanitize guards free-text inputs: it trims whitespace, enforces
// length bounds, and rejects values carrying HTML or script markup.
package sanitize

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Error reports why a text field was rejected.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Text trims the value, enforces the length bounds, and rejects content the
// strict HTML policy would alter (tags, scripts, event handlers).
func Text(field, value string, minLen, maxLen int) (string, error) {
	cleaned := strings.TrimSpace(value)

	if len(cleaned) < minLen {
		return "", &Error{Field: field, Reason: fmt.Sprintf("must be at least %d characters", minLen)}
	}
	if maxLen > 0 && len(cleaned) > maxLen {
		return "", &Error{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxLen)}
	}

	stripped := html.UnescapeString(policy.Sanitize(cleaned))
	if stripped != cleaned {
		return "", &Error{Field: field, Reason: "contains disallowed markup"}
	}

	return cleaned, nil
}

// Optional applies Text to a nullable value, passing nil through untouched.
func Optional(field string, value *string, minLen, maxLen int) (*string, error) {
	if value == nil {
		return nil, nil
	}

	cleaned, err := Text(field, *value, minLen, maxLen)
	if err != nil {
		return nil, err
	}

	return &cleaned, nil
}
