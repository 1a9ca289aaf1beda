package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepgram-devs/docs-sample-testing/sample"
)

func passingResult(file string, line int, sampleType sample.Type) sample.TestResult {
	return sample.TestResult{
		Sample: &sample.CodeSample{
			FilePath:   file,
			LineNumber: line,
			SampleType: sampleType,
		},
		Success:       true,
		ExecutionTime: 250 * time.Millisecond,
		Stdout:        "No issues found - code looks good!",
	}
}

func failingResult(file string, line int, findings ...sample.Finding) sample.TestResult {
	return sample.TestResult{
		Sample: &sample.CodeSample{
			FilePath:   file,
			LineNumber: line,
			SampleType: sample.TypeSync,
		},
		Success:  false,
		Findings: findings,
	}
}

func TestBuild(t *testing.T) {
	t.Run("EmptyResults", func(t *testing.T) {
		r := Build("python", nil)
		assert.Equal(t, "python", r.Language)
		assert.Equal(t, Summary{}, r.Summary)
		assert.Empty(t, r.ByType)
		assert.Empty(t, r.Results)
	})

	t.Run("SummaryCounts", func(t *testing.T) {
		results := []sample.TestResult{
			passingResult("docs/a.md", 5, sample.TypeSync),
			passingResult("docs/b.md", 9, sample.TypeAsync),
			failingResult("docs/c.md", 12),
		}

		r := Build("python", results)
		assert.Equal(t, 3, r.Summary.Total)
		assert.Equal(t, 2, r.Summary.Passed)
		assert.Equal(t, 1, r.Summary.Failed)
		assert.InDelta(t, 66.7, r.Summary.SuccessRate, 0.01)
	})

	t.Run("ByTypeGrouping", func(t *testing.T) {
		results := []sample.TestResult{
			passingResult("docs/a.md", 5, sample.TypeSync),
			failingResult("docs/c.md", 12),
			passingResult("docs/b.md", 9, sample.TypeAsync),
		}

		r := Build("python", results)
		require.Contains(t, r.ByType, "sync")
		assert.Equal(t, 1, r.ByType["sync"].Passed)
		assert.Equal(t, 1, r.ByType["sync"].Failed)
		assert.Len(t, r.ByType["sync"].Samples, 2)
		assert.Equal(t, 1, r.ByType["async"].Passed)
	})

	t.Run("BaseNamesOnly", func(t *testing.T) {
		r := Build("python", []sample.TestResult{passingResult("docs/guides/a.md", 5, sample.TypeSync)})
		assert.Equal(t, "a.md", r.Results[0].File)
	})
}

func TestErrorMessage(t *testing.T) {
	t.Run("ExplicitMessageWins", func(t *testing.T) {
		res := &sample.TestResult{ErrorMessage: "Test execution timed out", Stderr: "noise"}
		assert.Equal(t, "Test execution timed out", errorMessage(res))
	})

	t.Run("SuccessHasNoError", func(t *testing.T) {
		res := &sample.TestResult{Success: true, Stdout: "fine"}
		assert.Empty(t, errorMessage(res))
	})

	t.Run("LongStderrTruncated", func(t *testing.T) {
		lines := make([]string, 15)
		for i := range lines {
			lines[i] = "trace line"
		}
		res := &sample.TestResult{Stderr: strings.Join(lines, "\n")}

		msg := errorMessage(res)
		assert.Contains(t, msg, "... (truncated) ...")
		assert.Equal(t, 11, len(strings.Split(msg, "\n")))
	})

	t.Run("ShortStderrKept", func(t *testing.T) {
		res := &sample.TestResult{Stderr: "SyntaxError: invalid syntax"}
		assert.Equal(t, "SyntaxError: invalid syntax", errorMessage(res))
	})

	t.Run("StdoutFallback", func(t *testing.T) {
		res := &sample.TestResult{Stdout: "partial output"}
		assert.Contains(t, errorMessage(res), "No stderr, but stdout: partial output")
	})

	t.Run("NothingAvailable", func(t *testing.T) {
		res := &sample.TestResult{}
		assert.Contains(t, errorMessage(res), "Unknown error")
	})
}

func TestWriteJSON(t *testing.T) {
	r := Build("python", []sample.TestResult{passingResult("docs/a.md", 5, sample.TypeSync)})

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "python", decoded.Language)
	assert.Equal(t, 1, decoded.Summary.Total)
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := Build("python", []sample.TestResult{passingResult("docs/a.md", 5, sample.TypeSync)})

	jsonPath, mdPath, err := r.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "python_test_report.json"), jsonPath)
	assert.Equal(t, filepath.Join(dir, "python_test_report.md"), mdPath)

	for _, p := range []string{jsonPath, mdPath} {
		info, statErr := os.Stat(p)
		require.NoError(t, statErr)
		assert.Greater(t, info.Size(), int64(0))
	}
}
