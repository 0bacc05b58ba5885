package coerce

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/reoring/coerce/i18n"
)

// memberMatches reports whether member m is attempted for a value of type
// got. Members never convert, so only an exact tag match qualifies; Any and
// nested OrSet members accept every tag.
func memberMatches(m *Schema, got Type) bool {
	switch m.Type() {
	case TypeAny, TypeOrSet:
		return true
	}
	return m.Type() == got
}

// checkOrSet tries the members in declaration order and returns the result
// of the first type-matching member that validates. Each attempt runs
// fail-fast on a detached pass.
func (s *Schema) checkOrSet(v any, p *Pass) (any, error) {
	got := TypeOf(v)
	reasons := make([]string, len(s.members))
	types := make([]string, len(s.members))
	for i, m := range s.members {
		if m == nil {
			types[i] = "nil"
			reasons[i] = i18n.T(i18n.InvalidSchema, map[string]string{"reason": "nil schema"})
			continue
		}
		types[i] = m.Type().String()
		if !memberMatches(m, got) {
			reasons[i] = i18n.T(i18n.TypeMismatch, map[string]string{"want": types[i], "got": got.String()})
			continue
		}
		attempt := p.detached(m, v)
		res, err := m.run(v, attempt)
		if err == nil && !attempt.HasErrors() {
			return res, nil
		}
		reasons[i] = attemptReason(attempt, err)
		logDebug(p, "coerce: orset member rejected", slog.Int("member", i), slog.String("reason", reasons[i]))
	}

	b := &strings.Builder{}
	b.WriteString(i18n.T(i18n.OrSetExhausted, map[string]string{
		"type":  got.String(),
		"types": strings.Join(types, ", "),
	}))
	for i, r := range reasons {
		b.WriteString("\n")
		b.WriteString(i18n.T(i18n.OrSetBranch, map[string]string{"index": strconv.Itoa(i + 1), "reason": r}))
	}
	return Undefined, p.Fail(CodeOrSetExhausted, b.String())
}

func attemptReason(attempt *Pass, err error) string {
	if errs := attempt.errors; len(errs) > 0 {
		return errs[0].Message
	}
	if err != nil {
		return err.Error()
	}
	return i18n.T(i18n.ValidationFailed, nil)
}
