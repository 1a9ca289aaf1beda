package sample

import (
	"strings"
	"time"
)

// Type classifies a code sample by its dominant surface pattern.
type Type string

// Sample type constants, in classification priority order.
const (
	TypeAsync     Type = "async"
	TypeClass     Type = "class"
	TypeStreaming Type = "streaming"
	TypeFunction  Type = "function"
	TypeSync      Type = "sync"
)

// CodeSample represents one code block extracted from a documentation page.
// It is immutable once created; classification fields are derived
// deterministically from the raw text at extraction time.
type CodeSample struct {
	FilePath          string            `json:"file_path"`
	LineNumber        int               `json:"line_number"`
	Code              string            `json:"code"`
	Language          string            `json:"language"`
	SampleType        Type              `json:"sample_type"`
	Imports           []string          `json:"imports"`
	RequiresAPIKey    bool              `json:"requires_api_key"`
	RequiresAudioFile bool              `json:"requires_audio_file"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Finding represents one detected documentation defect discovered by
// static analysis. Blocking findings describe conditions that would make
// a copy-pasted sample fail at runtime; non-blocking findings are
// stylistic suggestions.
type Finding struct {
	Issue    string `json:"issue"`
	Location string `json:"location"`
	Problem  string `json:"problem"`
	Fix      string `json:"fix"`
	Impact   string `json:"impact"`
	Blocking bool   `json:"blocking"`
}

// TestResult represents the outcome of processing one code sample. The
// sample is referenced, not owned. Success is false whenever execution
// exited nonzero, timed out, failed to launch, or any blocking finding
// was detected.
type TestResult struct {
	Sample            *CodeSample     `json:"sample"`
	Success           bool            `json:"success"`
	ExecutionTime     time.Duration   `json:"execution_time"`
	Stdout            string          `json:"stdout,omitempty"`
	Stderr            string          `json:"stderr,omitempty"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	ValidationResults map[string]bool `json:"validation_results,omitempty"`
	Findings          []Finding       `json:"findings,omitempty"`
}

// HasBlockingFindings reports whether any finding in the result is blocking.
func (r *TestResult) HasBlockingFindings() bool {
	for _, f := range r.Findings {
		if f.Blocking {
			return true
		}
	}
	return false
}

// BlockingCount returns the number of blocking findings in the result.
func (r *TestResult) BlockingCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Blocking {
			n++
		}
	}
	return n
}

// SuggestionCount returns the number of advisory findings in the result.
func (r *TestResult) SuggestionCount() int {
	n := 0
	for _, f := range r.Findings {
		if !f.Blocking {
			n++
		}
	}
	return n
}

// minUsefulLength is the floor below which a stripped sample is considered
// too trivial to test.
const minUsefulLength = 20

// ShouldSkip reports whether a sample is too trivial to process: shorter
// than the minimum useful length, or consisting solely of comment lines.
// The comment prefixes are supplied by the dialect descriptor.
func (s *CodeSample) ShouldSkip(commentPrefixes []string) bool {
	if len(strings.TrimSpace(s.Code)) < minUsefulLength {
		return true
	}
	return commentOnly(s.Code, commentPrefixes)
}

func commentOnly(code string, prefixes []string) bool {
	sawLine := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		sawLine = true
		isComment := false
		for _, p := range prefixes {
			if strings.HasPrefix(trimmed, p) {
				isComment = true
				break
			}
		}
		if !isComment {
			return false
		}
	}
	return sawLine
}

// Priority maps a sample onto a priority level using the framework's
// priority configuration (level name to the sample types it covers).
// Samples with no configured level default to "medium".
func (s *CodeSample) Priority(levels map[string][]string) string {
	for level, types := range levels {
		for _, t := range types {
			if Type(t) == s.SampleType {
				return level
			}
		}
	}
	return "medium"
}
