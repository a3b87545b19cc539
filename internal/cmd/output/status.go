package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/agentstation/taxonomy-import/internal/cmd/emoji"
	"github.com/agentstation/taxonomy-import/pkg/importer"
)

// Printer writes one-line status messages, colored unless disabled.
type Printer struct {
	w       io.Writer
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:       w,
		success: color.New(color.FgGreen, color.Bold),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
	}
	if noColor {
		p.success.DisableColor()
		p.warning.DisableColor()
		p.failure.DisableColor()
	}
	return p
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	_, _ = p.success.Fprintf(p.w, emoji.Success+" "+format+"\n", args...)
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, args ...any) {
	_, _ = p.warning.Fprintf(p.w, emoji.Warning+" "+format+"\n", args...)
}

// Failure prints a failure line.
func (p *Printer) Failure(format string, args ...any) {
	_, _ = p.failure.Fprintf(p.w, emoji.Error+" "+format+"\n", args...)
}

// Summary prints the closing line of an import.
func (p *Printer) Summary(s *importer.Summary, err error) {
	prefix := ""
	if s != nil && s.DryRun {
		prefix = "[dry run] "
	}
	switch {
	case err != nil && s != nil:
		p.Failure("%sImport stopped after %d entities: %v", prefix, s.Entities, err)
	case err != nil:
		p.Failure("%sImport failed: %v", prefix, err)
	case s.Failed():
		p.Warning("%sImported %d entities (%d created, %d updated) with %d warnings",
			prefix, s.Entities, s.Created(), s.Updated(), s.Reconcile.Warnings+s.DeleteFailures)
	default:
		p.Success("%sImported %d entities (%d created, %d updated) in %s",
			prefix, s.Entities, s.Created(), s.Updated(), s.Duration.Round(time.Millisecond))
	}
}

// Println writes a plain line.
func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.w, a...)
}
