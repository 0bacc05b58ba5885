package openapi

import "fmt"

// UnknownBehavior configures how keys not listed under properties are
// treated when additionalProperties is not set explicitly.
type UnknownBehavior int

const (
	// UnknownPrune drops undeclared keys (Object).
	UnknownPrune UnknownBehavior = iota
	// UnknownPreserve keeps undeclared keys (LenientObject).
	UnknownPreserve
)

// DefaultMode controls how schema defaults are applied.
type DefaultMode int

const (
	DefaultApply DefaultMode = iota
	DefaultIgnore
)

// Options controls import behavior.
type Options struct {
	Unknown  UnknownBehavior
	Defaults DefaultMode
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
