package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/reoring/coerce"
)

// printer renders diagnostics, colored when w is a terminal.
type printer struct {
	w   io.Writer
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, out: termenv.NewOutput(w)}
}

func (p *printer) warning(msg string) {
	tag := p.out.String("warning:").Foreground(p.out.Color("#f59e0b")).Bold()
	fmt.Fprintf(p.w, "%s %s\n", tag, msg)
}

func (p *printer) issues(name string, iss coerce.Issues) {
	head := p.out.String(fmt.Sprintf("%s: %d error(s)", name, len(iss))).Foreground(p.out.Color("#ef4444")).Bold()
	fmt.Fprintln(p.w, head)
	for _, it := range iss {
		path := p.out.String(it.Path).Foreground(p.out.Color("#818cf8"))
		code := p.out.String(it.Code).Faint()
		fmt.Fprintf(p.w, "  %s [%s] %s\n", path, code, it.Message)
	}
}
