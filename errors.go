package coerce

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/coerce/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissing               = "missing"
	CodeIncorrectType         = "incorrect_type"
	CodeFailedCustomValidator = "failed_custom_validator"
	CodeEnsureFailure         = "ensure_failure"
	CodeInvalidSchema         = "invalid_schema"
	CodeOrSetExhausted        = "orset_exhausted"
	// Fluent assertion failures
	CodeTooShort        = "too_short"
	CodeTooLong         = "too_long"
	CodeTooSmall        = "too_small"
	CodeTooBig          = "too_big"
	CodePattern         = "pattern"
	CodeInvalidFormat   = "invalid_format"
	CodeNotANumber      = "not_a_number"
	CodeInvalidEnum     = "invalid_enum"
	CodeInvalidConstant = "invalid_constant"
	CodeDateRange       = "date_range"
	// Collection and cross-field rules
	CodeUniqueness   = "uniqueness"
	CodeBusinessRule = "business_rule"
)

// ValidationError is a single failure bound to the pass it was raised on.
type ValidationError struct {
	Code    string
	Message string
	Path    Path
	Cause   error

	pass *Pass
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Cause }

// Pass returns the pass that raised the error, or nil when the error was
// constructed by hand and never recorded.
func (e *ValidationError) Pass() *Pass { return e.pass }

// Issue projects the error onto the Issue model.
func (e *ValidationError) Issue() Issue {
	return Issue{Path: e.Path.Pointer(), Code: e.Code, Message: e.Message, Cause: e.Cause}
}

// TopLevelValidationError is returned by the public entry points when the
// root pass finished with one or more recorded errors.
type TopLevelValidationError struct {
	Errors []*ValidationError
}

func (e *TopLevelValidationError) Error() string {
	b := &strings.Builder{}
	b.WriteString(i18n.T(i18n.TopLevel, map[string]string{"count": strconv.Itoa(len(e.Errors))}))
	for _, ve := range e.Errors {
		b.WriteString("\n * ")
		b.WriteString(ve.Message)
	}
	return b.String()
}

// Unwrap exposes every recorded error to errors.Is/errors.As.
func (e *TopLevelValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		out[i] = ve
	}
	return out
}

// Issues returns the recorded errors as Issues, in recording order.
func (e *TopLevelValidationError) Issues() Issues {
	out := make(Issues, 0, len(e.Errors))
	for _, ve := range e.Errors {
		out = append(out, ve.Issue())
	}
	return out
}

// Codes returns the distinct error codes in first-seen order.
func (e *TopLevelValidationError) Codes() []string {
	seen := map[string]bool{}
	var out []string
	for _, ve := range e.Errors {
		if !seen[ve.Code] {
			seen[ve.Code] = true
			out = append(out, ve.Code)
		}
	}
	return out
}

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. incorrect_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsTopLevel extracts a *TopLevelValidationError using errors.As.
func AsTopLevel(err error) (*TopLevelValidationError, bool) {
	var tl *TopLevelValidationError
	if errors.As(err, &tl) {
		return tl, true
	}
	return nil, false
}

// AsValidationErrors returns every ValidationError carried by err: all
// recorded errors of a TopLevelValidationError, or the single error itself.
func AsValidationErrors(err error) ([]*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	if tl, ok := AsTopLevel(err); ok {
		return tl.Errors, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []*ValidationError{ve}, true
	}
	return nil, false
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	if ves, ok := AsValidationErrors(err); ok {
		out := make(Issues, 0, len(ves))
		for _, ve := range ves {
			out = append(out, ve.Issue())
		}
		return out, true
	}
	return nil, false
}
