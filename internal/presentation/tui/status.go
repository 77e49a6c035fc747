package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/crank"
)

// StatusPrinter writes one colored line per cranked file.
type StatusPrinter struct {
	out *termenv.Output
}

// NewStatusPrinter detects the color profile of w.
func NewStatusPrinter(w io.Writer, opts ...termenv.OutputOption) *StatusPrinter {
	return &StatusPrinter{out: termenv.NewOutput(w, opts...)}
}

// Print writes the status line of res.
func (p *StatusPrinter) Print(res crank.Result) {
	var tag termenv.Style
	detail := res.Style
	switch {
	case res.Err != nil:
		tag = p.out.String("FAIL").Foreground(p.out.Color("1")).Bold()
		detail = res.Err.Error()
	case res.Skipped:
		tag = p.out.String("SKIP").Foreground(p.out.Color("3"))
		detail = "no dsl block"
	case res.Changed:
		tag = p.out.String("GEN ").Foreground(p.out.Color("2")).Bold()
		if len(res.Stubs) > 0 {
			detail += ", stubs: " + strings.Join(res.Stubs, " ")
		}
		if res.Backup != "" {
			detail += ", backup: " + res.Backup
		}
	default:
		tag = p.out.String(" OK ").Foreground(p.out.Color("8"))
		detail += ", up to date"
	}
	fmt.Fprintf(p.out, "%s %s (%s)\n", tag, res.Path, detail)
}

// Summary writes the totals of a batch.
func (p *StatusPrinter) Summary(results []crank.Result) {
	var changed, skipped, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		case r.Changed:
			changed++
		}
	}
	line := fmt.Sprintf("%d file(s): %d regenerated, %d skipped, %d failed",
		len(results), changed, skipped, failed)
	style := p.out.String(line)
	if failed > 0 {
		style = style.Foreground(p.out.Color("1"))
	}
	fmt.Fprintln(p.out, style)
}
