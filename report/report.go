package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepgram-devs/docs-sample-testing/sample"
)

// Summary aggregates pass/fail counts for one report.
type Summary struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// Entry is one sample's outcome in the flat results list.
type Entry struct {
	File              string           `json:"file"`
	Line              int              `json:"line"`
	Type              string           `json:"type"`
	Success           bool             `json:"success"`
	ExecutionTime     float64          `json:"execution_time"`
	ValidationResults map[string]bool  `json:"validation_results"`
	Findings          []sample.Finding `json:"findings,omitempty"`
	Error             string           `json:"error,omitempty"`
}

// TypeBreakdown groups outcomes by classified sample type.
type TypeBreakdown struct {
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Samples []Entry `json:"samples"`
}

// Report is the full result set for one language run.
type Report struct {
	Language string                    `json:"language"`
	Summary  Summary                   `json:"summary"`
	ByType   map[string]*TypeBreakdown `json:"by_type"`
	Results  []Entry                   `json:"results"`
}

// Build assembles a report from raw results. An empty result set yields
// a valid report with zeroed counters.
func Build(language string, results []sample.TestResult) *Report {
	r := &Report{
		Language: language,
		ByType:   map[string]*TypeBreakdown{},
		Results:  []Entry{},
	}

	for i := range results {
		res := &results[i]
		entry := Entry{
			File:              filepath.Base(res.Sample.FilePath),
			Line:              res.Sample.LineNumber,
			Type:              string(res.Sample.SampleType),
			Success:           res.Success,
			ExecutionTime:     res.ExecutionTime.Seconds(),
			ValidationResults: res.ValidationResults,
			Findings:          res.Findings,
			Error:             errorMessage(res),
		}
		r.Results = append(r.Results, entry)

		bt, ok := r.ByType[entry.Type]
		if !ok {
			bt = &TypeBreakdown{Samples: []Entry{}}
			r.ByType[entry.Type] = bt
		}
		if entry.Success {
			bt.Passed++
		} else {
			bt.Failed++
		}
		bt.Samples = append(bt.Samples, entry)
	}

	total := len(results)
	passed := 0
	for i := range results {
		if results[i].Success {
			passed++
		}
	}

	r.Summary = Summary{
		Total:  total,
		Passed: passed,
		Failed: total - passed,
	}
	if total > 0 {
		r.Summary.SuccessRate = float64(int(float64(passed)/float64(total)*1000+0.5)) / 10
	}

	return r
}

// errorMessage picks the most useful diagnostic for a failed result:
// the explicit error message first, then stderr (truncated when long),
// then a snippet of stdout. Successful results carry no error.
func errorMessage(res *sample.TestResult) string {
	if res.ErrorMessage != "" {
		return res.ErrorMessage
	}
	if res.Success {
		return ""
	}

	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		lines := strings.Split(stderr, "\n")
		if len(lines) > 10 {
			truncated := append([]string{}, lines[:8]...)
			truncated = append(truncated, "... (truncated) ...")
			truncated = append(truncated, lines[len(lines)-2:]...)
			return strings.Join(truncated, "\n")
		}
		return stderr
	}

	if stdout := strings.TrimSpace(res.Stdout); stdout != "" {
		if len(stdout) > 200 {
			stdout = stdout[:200]
		}
		return "No stderr, but stdout: " + stdout
	}

	return "Unknown error - no error message or stderr available"
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Save writes the JSON and Markdown renditions into dir, creating it if
// needed, and returns their paths.
func (r *Report) Save(dir string) (jsonPath, mdPath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	jsonPath = filepath.Join(dir, r.Language+"_test_report.json")
	jf, err := os.Create(jsonPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create JSON report: %w", err)
	}
	defer jf.Close()
	if err := r.WriteJSON(jf); err != nil {
		return "", "", fmt.Errorf("failed to write JSON report: %w", err)
	}

	mdPath = filepath.Join(dir, r.Language+"_test_report.md")
	mf, err := os.Create(mdPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create Markdown report: %w", err)
	}
	defer mf.Close()
	if err := r.WriteMarkdown(mf); err != nil {
		return "", "", fmt.Errorf("failed to write Markdown report: %w", err)
	}

	return jsonPath, mdPath, nil
}
