package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console renders progress and summaries for interactive runs.
type Console struct {
	out io.Writer

	header  *color.Color
	success *color.Color
	failure *color.Color
	warn    *color.Color
}

// NewConsole creates a renderer writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow),
	}
}

// Header announces the start of a language run.
func (c *Console) Header(language string) {
	c.header.Fprintf(c.out, "🧪 Testing %s samples...\n", language)
}

// Progress prints the per-sample status line.
func (c *Console) Progress(index, total int, file string, line int) {
	fmt.Fprintf(c.out, "  [%d/%d] Testing %s:%d\n", index, total, file, line)
}

// Outcome prints the single-line verdict for one processed sample.
func (c *Console) Outcome(success bool, blockingCount, suggestionCount int) {
	switch {
	case success && suggestionCount == 0:
		c.success.Fprintln(c.out, "    ✅ LOOKS GOOD")
	case success:
		c.success.Fprintf(c.out, "    ✅ GOOD (%d suggestions)\n", suggestionCount)
	case blockingCount > 0:
		c.failure.Fprintf(c.out, "    🚨 NEEDS FIXES (%d blocking issues)\n", blockingCount)
	default:
		c.warn.Fprintln(c.out, "    🔍 NEEDS ATTENTION")
	}
}

// Summary prints the final counts for a completed run.
func (c *Console) Summary(r *Report) {
	fmt.Fprintln(c.out)
	c.header.Fprintf(c.out, "📊 %s results\n", r.Language)
	fmt.Fprintf(c.out, "   Total:  %d\n", r.Summary.Total)
	c.success.Fprintf(c.out, "   Passed: %d (%.1f%%)\n", r.Summary.Passed, r.Summary.SuccessRate)
	if r.Summary.Failed > 0 {
		c.failure.Fprintf(c.out, "   Failed: %d\n", r.Summary.Failed)
	}
}

// Saved reports where the output artifacts were written.
func (c *Console) Saved(jsonPath, mdPath string) {
	fmt.Fprintln(c.out, "📊 Reports saved:")
	fmt.Fprintf(c.out, "   JSON: %s\n", jsonPath)
	fmt.Fprintf(c.out, "   Markdown: %s\n", mdPath)
}
