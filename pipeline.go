package coerce

import (
	"context"
	"log/slog"
	"time"

	"github.com/reoring/coerce/i18n"
)

// Validate validates source against s and returns the coerced model.
// On failure the error is a *TopLevelValidationError.
func Validate(s *Schema, source any, opts ...Options) (any, error) {
	return s.Validate(source, opts...)
}

// MustValidate is like Validate but panics on error.
func MustValidate(s *Schema, source any, opts ...Options) any {
	v, err := s.Validate(source, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate validates source against s. An absent optional value yields
// Undefined; any recorded error yields a *TopLevelValidationError.
func (s *Schema) Validate(source any, opts ...Options) (any, error) {
	o := resolveOptions(opts)
	p := NewPass(s, source, o)
	start := time.Now()
	out, err := s.run(source, p)
	if err != nil && !p.HasErrors() {
		p.adopt(err)
	}
	var final error
	if p.HasErrors() {
		final = &TopLevelValidationError{Errors: p.Errors()}
		out = nil
	}
	finish(s, p, start, final)
	return out, final
}

// ValidatePass runs the pipeline with an explicit pass and returns the raw
// per-node result: errors are recorded on p and its ancestors and never
// wrapped into a TopLevelValidationError. A nil p starts a new root pass.
// Hooks use it to validate nested values under their own pass.
func (s *Schema) ValidatePass(source any, p *Pass) (any, error) {
	if p == nil {
		p = NewPass(s, source)
	}
	return s.run(source, p)
}

func finish(s *Schema, p *Pass, start time.Time, err error) {
	lg := p.Logger()
	codes := make([]string, 0, len(p.errors))
	for _, ve := range p.errors {
		codes = append(codes, ve.Code)
	}
	var rep ValidationReport
	if s != nil {
		rep.Kind, rep.Type = s.kind, s.Type()
	}
	if lg.Enabled(context.Background(), slog.LevelDebug) {
		lg.Debug("coerce: validation finished",
			slog.String("kind", rep.Kind.String()),
			slog.Int("errors", len(codes)),
			slog.Bool("collect", p.opts.CollectErrors),
		)
	}
	if obs := p.opts.Observer; obs != nil {
		rep.Duration = time.Since(start)
		rep.Collect = p.opts.CollectErrors
		rep.Err = err
		rep.Codes = codes
		obs.ObserveValidation(rep)
	}
}

// run is the per-node pipeline. It returns (Undefined, err) when the node
// failed; the error is already recorded on p. Callers decide from
// Options.CollectErrors whether to continue.
func (s *Schema) run(v any, p *Pass) (any, error) {
	if s == nil {
		return Undefined, p.Fail(CodeInvalidSchema, i18n.T(i18n.InvalidSchema, map[string]string{"reason": "nil schema"}))
	}
	var err error
	if v, err = s.apply(StageBeforeAll, v, p); err != nil {
		return Undefined, err
	}
	if v, err = s.apply(StageBeforeDefault, v, p); err != nil {
		return Undefined, err
	}
	if !IsPresent(v) && s.HasDefault() {
		v = s.DefaultValue(p)
		logDebug(p, "coerce: default applied", slog.Bool("generated", s.IsDefaultGenerated()))
	}
	if v, err = s.apply(StageAfterDefault, v, p); err != nil {
		return Undefined, err
	}

	if !IsPresent(v) {
		if !s.required {
			return Undefined, nil
		}
		return Undefined, p.Fail(CodeMissing, missingMessage(s, p))
	}

	if v, err = s.apply(StageBeforeConversion, v, p); err != nil {
		return Undefined, err
	}
	if got := TypeOf(v); s.converts() && got != s.Type() {
		logDebug(p, "coerce: converting", slog.String("from", got.String()), slog.String("to", s.Type().String()))
		if v, err = s.convert(v, p); err != nil {
			return Undefined, err
		}
	}
	if v, err = s.apply(StageAfterConversion, v, p); err != nil {
		return Undefined, err
	}

	if v, err = s.check(v, p); err != nil {
		return Undefined, err
	}
	if v, err = s.apply(StageAfterAll, v, p); err != nil {
		return Undefined, err
	}
	return v, nil
}

func (s *Schema) apply(st Stage, v any, p *Pass) (any, error) {
	for _, h := range s.hooks[st] {
		out, err := h(v, p)
		if err != nil {
			return Undefined, p.adopt(err)
		}
		v = out
	}
	return v, nil
}

// converts reports whether the kind has a conversion step. Constant derives
// its type from the value, Any and OrSet never convert.
func (s *Schema) converts() bool {
	switch s.kind {
	case KindConstant, KindAny, KindOrSet, KindEnumeration:
		return false
	}
	return true
}

func (s *Schema) convert(v any, p *Pass) (any, error) {
	switch s.kind {
	case KindString:
		return convertString(v, p)
	case KindNumber:
		return convertNumber(v, p)
	case KindBoolean:
		return convertBoolean(v, p)
	case KindDate:
		return convertDate(v, p)
	case KindObject, KindLenientObject, KindDynamicObject:
		return convertObject(v, p)
	case KindArray:
		return convertArray(v, p)
	}
	return Undefined, conversionError(v, s.Type(), p)
}

func (s *Schema) check(v any, p *Pass) (any, error) {
	switch s.kind {
	case KindString:
		return checkString(v, p)
	case KindNumber:
		return checkNumber(v, p)
	case KindBoolean:
		return checkBoolean(v, p)
	case KindDate:
		return checkDate(v, p)
	case KindAny:
		return v, nil
	case KindConstant:
		return s.checkConstant(v, p)
	case KindEnumeration:
		return s.checkEnumeration(v, p)
	case KindObject:
		return s.checkObject(v, p, false)
	case KindLenientObject:
		return s.checkObject(v, p, true)
	case KindDynamicObject:
		return s.checkDynamicObject(v, p)
	case KindArray:
		return s.checkArray(v, p)
	case KindTuple:
		return s.checkTuple(v, p)
	case KindOrSet:
		return s.checkOrSet(v, p)
	}
	return Undefined, invalidSchema(p, "unknown kind "+s.kind.String())
}

func missingMessage(s *Schema, p *Pass) string {
	data := map[string]string{"type": s.Type().String()}
	if len(p.path) == 0 {
		return i18n.T(i18n.MissingRoot, data)
	}
	data["path"] = p.path.String()
	return i18n.T(i18n.Missing, data)
}

func invalidSchema(p *Pass, reason string) error {
	return p.Fail(CodeInvalidSchema, i18n.T(i18n.InvalidSchema, map[string]string{"reason": reason}))
}

func logDebug(p *Pass, msg string, attrs ...slog.Attr) {
	lg := p.Logger()
	ctx := context.Background()
	if !lg.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs = append(attrs, slog.String("path", p.path.Pointer()))
	lg.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}
