package coerce

import (
	"math"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/reoring/coerce/codec"
	"github.com/reoring/coerce/i18n"
)

// Fluent assertions are afterAll hooks: they check the model and pass it
// through unchanged. An optional message replaces the default one.

func pick(messages []string, i int) string {
	if i < len(messages) && messages[i] != "" {
		return messages[i]
	}
	if i > 0 {
		return pick(messages, i-1)
	}
	return ""
}

func orDefault(msg, key string, data map[string]string) string {
	if msg != "" {
		return msg
	}
	return i18n.T(key, data)
}

func wrongModel(p *Pass, assertion string, want Type) error {
	return invalidSchema(p, assertion+" applies to "+want.String()+" schemas")
}

func (s *Schema) stringHook(name string, fn func(string, *Pass) error) *Schema {
	return s.Custom(func(v any, p *Pass) (any, error) {
		str, ok := v.(string)
		if !ok {
			return nil, wrongModel(p, name, TypeString)
		}
		if err := fn(str, p); err != nil {
			return nil, err
		}
		return v, nil
	})
}

func (s *Schema) numberHook(name string, fn func(float64, *Pass) error) *Schema {
	return s.Custom(func(v any, p *Pass) (any, error) {
		f, ok := v.(float64)
		if !ok {
			return nil, wrongModel(p, name, TypeNumber)
		}
		if err := fn(f, p); err != nil {
			return nil, err
		}
		return v, nil
	})
}

func (s *Schema) dateHook(name string, fn func(time.Time, *Pass) error) *Schema {
	return s.Custom(func(v any, p *Pass) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, wrongModel(p, name, TypeDate)
		}
		if err := fn(t, p); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Length bounds the rune count of a string model. A negative max leaves the
// upper bound open. messages[0] applies to the minimum check, messages[1]
// (or messages[0]) to the maximum check.
func (s *Schema) Length(min, max int, messages ...string) *Schema {
	return s.stringHook("Length", func(str string, p *Pass) error {
		n := utf8.RuneCountInString(str)
		if n < min {
			return p.Fail(CodeTooShort, orDefault(pick(messages, 0), i18n.TooShort,
				map[string]string{"value": str, "min": strconv.Itoa(min)}))
		}
		if max >= 0 && n > max {
			return p.Fail(CodeTooLong, orDefault(pick(messages, 1), i18n.TooLong,
				map[string]string{"value": str, "max": strconv.Itoa(max)}))
		}
		return nil
	})
}

func (s *Schema) MinLength(min int, message ...string) *Schema {
	return s.Length(min, -1, message...)
}

func (s *Schema) MaxLength(max int, message ...string) *Schema {
	return s.Length(0, max, message...)
}

// Regex requires a string model to match re.
func (s *Schema) Regex(re *regexp.Regexp, message ...string) *Schema {
	return s.stringHook("Regex", func(str string, p *Pass) error {
		if re.MatchString(str) {
			return nil
		}
		return p.Fail(CodePattern, orDefault(pick(message, 0), i18n.Pattern,
			map[string]string{"value": str, "pattern": re.String()}))
	})
}

// Expression is Regex with a pattern compiled by regexp.MustCompile.
func (s *Schema) Expression(pattern string, message ...string) *Schema {
	return s.Regex(regexp.MustCompile(pattern), message...)
}

// UUID requires a string model in one of the forms accepted by uuid.Parse.
func (s *Schema) UUID(message ...string) *Schema {
	return s.stringHook("UUID", func(str string, p *Pass) error {
		if _, err := uuid.Parse(str); err == nil {
			return nil
		}
		return p.Fail(CodeInvalidFormat, orDefault(pick(message, 0), i18n.InvalidFormat,
			map[string]string{"value": str, "format": "uuid"}))
	})
}

func (s *Schema) Min(min float64, message ...string) *Schema {
	return s.numberHook("Min", func(f float64, p *Pass) error {
		if f >= min {
			return nil
		}
		return p.Fail(CodeTooSmall, orDefault(pick(message, 0), i18n.TooSmall,
			map[string]string{"value": codec.FormatNumber(f), "min": codec.FormatNumber(min)}))
	})
}

func (s *Schema) Max(max float64, message ...string) *Schema {
	return s.numberHook("Max", func(f float64, p *Pass) error {
		if f <= max {
			return nil
		}
		return p.Fail(CodeTooBig, orDefault(pick(message, 0), i18n.TooBig,
			map[string]string{"value": codec.FormatNumber(f), "max": codec.FormatNumber(max)}))
	})
}

// Clamp is Min followed by Max. messages[0] applies to the minimum check,
// messages[1] (or messages[0]) to the maximum check.
func (s *Schema) Clamp(min, max float64, messages ...string) *Schema {
	return s.Min(min, pick(messages, 0)).Max(max, pick(messages, 1))
}

// Integer requires a number without a fractional part.
func (s *Schema) Integer(message ...string) *Schema {
	return s.numberHook("Integer", func(f float64, p *Pass) error {
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return nil
		}
		return p.Fail(CodeInvalidFormat, orDefault(pick(message, 0), i18n.Integer,
			map[string]string{"value": codec.FormatNumber(f)}))
	})
}

// ValidNumber requires a non-NaN model, or a NaN model when notANumber is
// set.
func (s *Schema) ValidNumber(notANumber bool, message ...string) *Schema {
	return s.numberHook("ValidNumber", func(f float64, p *Pass) error {
		if math.IsNaN(f) == notANumber {
			return nil
		}
		expect := i18n.T(i18n.RequiresNumber, nil)
		if notANumber {
			expect = i18n.T(i18n.RequiresNaN, nil)
		}
		return p.Fail(CodeNotANumber, orDefault(pick(message, 0), i18n.NotANumber,
			map[string]string{"value": codec.FormatNumber(f), "expect": expect}))
	})
}

func dateFailure(p *Pass, msg string, t time.Time, ruleKey string, ruleData map[string]string) error {
	if msg == "" {
		msg = i18n.T(i18n.DateRange, map[string]string{
			"value": codec.FormatISO(t),
			"rule":  i18n.T(ruleKey, ruleData),
		})
	}
	return p.Fail(CodeDateRange, msg)
}

// Before requires a Date model strictly earlier than limit.
func (s *Schema) Before(limit time.Time, message ...string) *Schema {
	return s.dateHook("Before", func(t time.Time, p *Pass) error {
		if t.Before(limit) {
			return nil
		}
		return dateFailure(p, pick(message, 0), t, i18n.DateBefore, map[string]string{"date": codec.FormatISO(limit)})
	})
}

// After requires a Date model strictly later than limit.
func (s *Schema) After(limit time.Time, message ...string) *Schema {
	return s.dateHook("After", func(t time.Time, p *Pass) error {
		if t.After(limit) {
			return nil
		}
		return dateFailure(p, pick(message, 0), t, i18n.DateAfter, map[string]string{"date": codec.FormatISO(limit)})
	})
}

// MoreThanAgo requires the model to lie more than d before the pass clock.
func (s *Schema) MoreThanAgo(d time.Duration, message ...string) *Schema {
	return s.dateHook("MoreThanAgo", func(t time.Time, p *Pass) error {
		if p.Now().Sub(t) > d {
			return nil
		}
		return dateFailure(p, pick(message, 0), t, i18n.DateMoreThanAgo, map[string]string{"duration": d.String()})
	})
}

// LessThanAgo requires the model to lie less than d before the pass clock.
func (s *Schema) LessThanAgo(d time.Duration, message ...string) *Schema {
	return s.dateHook("LessThanAgo", func(t time.Time, p *Pass) error {
		if p.Now().Sub(t) < d {
			return nil
		}
		return dateFailure(p, pick(message, 0), t, i18n.DateLessThanAgo, map[string]string{"duration": d.String()})
	})
}
