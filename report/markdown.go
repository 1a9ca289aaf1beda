package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// locatedFinding ties a finding back to its source position.
type locatedFinding struct {
	file     string
	line     int
	issue    string
	location string
	problem  string
	fix      string
	impact   string
}

// WriteMarkdown renders the human-facing analysis report: an overview,
// blocking issues grouped by issue type, advisory suggestions, and a
// next-steps section derived from what was actually found.
func (r *Report) WriteMarkdown(w io.Writer) error {
	blocking, suggestions := r.collectFindings()

	var b strings.Builder

	title := cases.Title(language.English).String(r.Language)
	fmt.Fprintf(&b, "# %s SDK Documentation Analysis Report\n\n", title)
	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "- **Total samples analyzed:** %d\n", r.Summary.Total)
	fmt.Fprintf(&b, "- **Samples ready to use:** %d (%.1f%%)\n", r.Summary.Passed, r.Summary.SuccessRate)
	fmt.Fprintf(&b, "- **Samples with blocking issues:** %d\n", len(blocking))
	fmt.Fprintf(&b, "- **Samples with improvement opportunities:** %d\n\n", len(suggestions))

	b.WriteString("## 🚨 Blocking Issues (Fix These First)\n\n")
	b.WriteString("These issues prevent users from running the code successfully:\n\n")
	writeBlockingSection(&b, blocking)

	b.WriteString("## 💡 Improvement Opportunities\n\n")
	b.WriteString("These suggestions would make the documentation examples even better:\n\n")
	writeSuggestionSection(&b, suggestions)

	writeNextSteps(&b, blocking, suggestions)

	_, err := io.WriteString(w, b.String())
	return err
}

// collectFindings splits every entry's findings into blocking issues and
// advisory suggestions, each tagged with its source position.
func (r *Report) collectFindings() (blocking, suggestions []locatedFinding) {
	for _, entry := range r.Results {
		for _, f := range entry.Findings {
			lf := locatedFinding{
				file:     entry.File,
				line:     entry.Line,
				issue:    f.Issue,
				location: f.Location,
				problem:  f.Problem,
				fix:      f.Fix,
				impact:   f.Impact,
			}
			if f.Blocking {
				blocking = append(blocking, lf)
			} else {
				suggestions = append(suggestions, lf)
			}
		}
	}
	return blocking, suggestions
}

// groupByIssue buckets findings by issue title, preserving first-seen
// order so the report reads the same way every run.
func groupByIssue(findings []locatedFinding) (order []string, groups map[string][]locatedFinding) {
	groups = map[string][]locatedFinding{}
	for _, f := range findings {
		if _, ok := groups[f.issue]; !ok {
			order = append(order, f.issue)
		}
		groups[f.issue] = append(groups[f.issue], f)
	}
	return order, groups
}

func writeBlockingSection(b *strings.Builder, blocking []locatedFinding) {
	if len(blocking) == 0 {
		b.WriteString("✅ No blocking issues found! All code samples should run correctly.\n\n")
		return
	}

	order, groups := groupByIssue(blocking)
	for _, issue := range order {
		group := groups[issue]
		fmt.Fprintf(b, "### %s (%d samples)\n\n", issue, len(group))
		for i, f := range group {
			if i == 5 {
				fmt.Fprintf(b, "... and %d more samples with this issue\n\n", len(group)-5)
				break
			}
			fmt.Fprintf(b, "**`%s:%d`** - %s\n", f.file, f.line, f.location)
			fmt.Fprintf(b, "- Problem: %s\n", f.problem)
			fmt.Fprintf(b, "- Fix: %s\n", f.fix)
			fmt.Fprintf(b, "- Impact: %s\n\n", f.impact)
		}
	}
}

func writeSuggestionSection(b *strings.Builder, suggestions []locatedFinding) {
	if len(suggestions) == 0 {
		b.WriteString("✨ No improvement suggestions - your documentation examples are excellent!\n\n")
		return
	}

	order, groups := groupByIssue(suggestions)
	for _, issue := range order {
		group := groups[issue]
		fmt.Fprintf(b, "### %s (%d samples)\n\n", issue, len(group))
		fmt.Fprintf(b, "**Why this helps:** %s\n\n", group[0].impact)
		fmt.Fprintf(b, "**How to fix:** %s\n\n", group[0].fix)
		b.WriteString("**Examples:**\n")
		for i, f := range group {
			if i == 3 {
				fmt.Fprintf(b, "- ... and %d more samples\n", len(group)-3)
				break
			}
			fmt.Fprintf(b, "- `%s:%d`\n", f.file, f.line)
		}
		b.WriteString("\n")
	}
}

func writeNextSteps(b *strings.Builder, blocking, suggestions []locatedFinding) {
	b.WriteString("## Next Steps\n\n")

	if len(blocking) > 0 {
		b.WriteString("### 🚨 Immediate Actions (Blocking Issues)\n")
		b.WriteString("These must be fixed for users to run the code:\n\n")
		order, groups := groupByIssue(blocking)
		for i, issue := range order {
			if i == 5 {
				break
			}
			fmt.Fprintf(b, "%d. **Fix %s** in %d sample(s)\n", i+1, issue, len(groups[issue]))
		}
	}

	if len(suggestions) > 0 {
		b.WriteString("\n### 💡 Quality Improvements (Nice to Have)\n")
		b.WriteString("These would make examples even better:\n\n")
		order, groups := groupByIssue(suggestions)
		for i, issue := range order {
			if i == 3 {
				break
			}
			fmt.Fprintf(b, "%d. **Implement %s** in %d sample(s)\n", i+1, issue, len(groups[issue]))
		}
	}

	if len(blocking) == 0 && len(suggestions) == 0 {
		b.WriteString("🎉 **No action needed!** All documentation samples are in excellent condition.\n\n")
	}

	b.WriteString("\n---\n*Analysis completed - check individual sample details above for specific fixes.*\n\n")
	b.WriteString("> 💡 **How to use this report**: Look at the specific file:line references above, make the suggested changes, then re-run analysis to verify fixes.")
}
