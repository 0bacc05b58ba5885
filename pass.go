package coerce

import (
	"errors"
	"log/slog"
	"time"

	"github.com/reoring/coerce/i18n"
)

// Pass is the per-invocation validation context. Passes form a tree rooted
// at the top-level call; each composite step derives a child pass with a
// deeper path. A Pass must not be shared between validation calls.
type Pass struct {
	originalSchema *Schema
	originalSource any
	parent         *Pass
	path           Path
	schema         *Schema
	source         any
	errors         []*ValidationError
	opts           Options
	// attempt marks a detached pass used for an OrSet branch.
	attempt bool
}

// NewPass creates a root pass for validating source against s.
func NewPass(s *Schema, source any, opts ...Options) *Pass {
	return &Pass{
		originalSchema: s,
		originalSource: source,
		schema:         s,
		source:         source,
		opts:           resolveOptions(opts),
	}
}

// Next returns a child pass sharing the original schema and source.
func (p *Pass) Next(path Path, schema *Schema, source any) *Pass {
	return &Pass{
		originalSchema: p.originalSchema,
		originalSource: p.originalSource,
		parent:         p,
		path:           path,
		schema:         schema,
		source:         source,
		opts:           p.opts,
	}
}

// Child is Next with the current path extended by key.
func (p *Pass) Child(key string, schema *Schema, source any) *Pass {
	return p.Next(p.path.Key(key), schema, source)
}

// detached returns a fail-fast pass at the same path with no parent, so a
// failed OrSet attempt leaves nothing on the real tree.
func (p *Pass) detached(schema *Schema, source any) *Pass {
	o := p.opts
	o.CollectErrors = false
	return &Pass{
		originalSchema: p.originalSchema,
		originalSource: p.originalSource,
		path:           p.path,
		schema:         schema,
		source:         source,
		opts:           o,
		attempt:        true,
	}
}

// Assert returns nil when cond holds, otherwise an error raised on p.
// The default message is "Validation failed.".
func (p *Pass) Assert(cond bool, message ...string) error {
	if cond {
		return nil
	}
	return p.CauseError(message...)
}

// CauseError records a failed_custom_validator error on p and every ancestor.
func (p *Pass) CauseError(message ...string) *ValidationError {
	msg := i18n.T(i18n.ValidationFailed, nil)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return p.Fail(CodeFailedCustomValidator, msg)
}

// Fail records an error with the given code on p and every ancestor.
func (p *Pass) Fail(code, message string) *ValidationError {
	return p.raise(code, message, nil)
}

func (p *Pass) raise(code, message string, cause error) *ValidationError {
	ve := &ValidationError{Code: code, Message: message, Path: p.Path(), Cause: cause, pass: p}
	p.record(ve)
	return ve
}

func (p *Pass) record(ve *ValidationError) {
	for cur := p; cur != nil; cur = cur.parent {
		cur.errors = append(cur.errors, ve)
	}
}

// adopt turns an error returned by a hook into a recorded ValidationError.
// Errors already recorded on this pass tree are returned unchanged.
func (p *Pass) adopt(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.pass != nil && ve.pass.root() == p.root() {
			return ve
		}
		if ve.pass == nil && ve == err {
			cp := *ve
			if cp.Code == "" {
				cp.Code = CodeFailedCustomValidator
			}
			cp.Path = p.Path()
			cp.pass = p
			p.record(&cp)
			return &cp
		}
	}
	return p.raise(CodeFailedCustomValidator, err.Error(), err)
}

func (p *Pass) root() *Pass {
	cur := p
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// TopLevel reports whether p is the root of its validation call.
func (p *Pass) TopLevel() bool { return p.parent == nil && !p.attempt }

// Errors returns the errors recorded on p and its descendants.
func (p *Pass) Errors() []*ValidationError {
	return append([]*ValidationError(nil), p.errors...)
}

// HasErrors reports whether anything was recorded on p or below.
func (p *Pass) HasErrors() bool { return len(p.errors) > 0 }

func (p *Pass) Path() Path              { return append(Path{}, p.path...) }
func (p *Pass) Schema() *Schema         { return p.schema }
func (p *Pass) Source() any             { return p.source }
func (p *Pass) OriginalSchema() *Schema { return p.originalSchema }
func (p *Pass) OriginalSource() any     { return p.originalSource }
func (p *Pass) Parent() *Pass           { return p.parent }
func (p *Pass) Options() Options        { return p.opts }
func (p *Pass) Logger() *slog.Logger    { return p.opts.Logger }
func (p *Pass) Now() time.Time          { return p.opts.Now() }
