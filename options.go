package coerce

import (
	"io"
	"log/slog"
	"time"
)

// Options configures a single validation call.
type Options struct {
	// CollectErrors keeps validating sibling subtrees after a failure so that
	// every error is reported at once. The failing subtree yields Undefined.
	CollectErrors bool
	// Logger receives debug records for defaults, conversions and OrSet
	// branch rejections. nil discards.
	Logger *slog.Logger
	// Observer is notified once per top-level call.
	Observer Observer
	// Now is the clock used by the Date "now" conversion and the relative
	// Date assertions. nil means time.Now.
	Now func() time.Time
}

var discardLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// resolveOptions picks the last Options and fills defaults.
func resolveOptions(opts []Options) Options {
	var o Options
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.Logger == nil {
		o.Logger = discardLogger
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Observer receives a report for every top-level validation.
type Observer interface {
	ObserveValidation(ValidationReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ValidationReport)

func (f ObserverFunc) ObserveValidation(r ValidationReport) { f(r) }

// ValidationReport summarizes one top-level validation call.
type ValidationReport struct {
	Kind     Kind
	Type     Type
	Duration time.Duration
	Collect  bool
	// Err is nil on success, otherwise the *TopLevelValidationError returned
	// to the caller.
	Err error
	// Codes lists the code of every recorded error, in recording order.
	Codes []string
}
