package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/deepgram-devs/docs-sample-testing/sample"
)

// analyze inspects the raw (not rewritten) sample text against the fixed
// catalogue of known problematic patterns. Nothing is executed. Success
// means no blocking finding; stdout carries the formatted findings
// summary and stderr is always empty.
func (r *Runner) analyze(s *sample.CodeSample) sample.TestResult {
	start := time.Now()

	var findings []sample.Finding
	findings = append(findings, checkOutdatedPatterns(s.Code)...)
	findings = append(findings, checkMissingImports(s.Code)...)
	findings = append(findings, checkPlaceholders(s.Code)...)
	findings = append(findings, checkBestPractices(s.Code)...)
	findings = append(findings, checkCommonMistakes(s.Code)...)

	result := sample.TestResult{
		Sample:        s,
		ExecutionTime: time.Since(start),
		Stdout:        formatFindings(findings),
		Findings:      findings,
	}
	result.Success = !result.HasBlockingFindings()
	result.ValidationResults = map[string]bool{
		"blocking_issues": !result.Success,
	}
	return result
}

// checkOutdatedPatterns flags v2/v3 SDK symbols that no longer exist.
func checkOutdatedPatterns(code string) []sample.Finding {
	var findings []sample.Finding

	if strings.Contains(code, "from deepgram import Deepgram") &&
		!strings.Contains(code, "from deepgram import DeepgramClient") {
		findings = append(findings, sample.Finding{
			Issue:    "Outdated SDK Import (v2/v3)",
			Location: "Import statement",
			Problem:  "Uses completely outdated import: `from deepgram import Deepgram`",
			Fix:      "Change to: `from deepgram import DeepgramClient`",
			Impact:   "Users will get ImportError - this class no longer exists",
			Blocking: true,
		})
	}

	if hasBareConstructor(code) {
		findings = append(findings, sample.Finding{
			Issue:    "Outdated Constructor (v2/v3)",
			Location: "Client instantiation",
			Problem:  "Uses old constructor: `Deepgram(...)`",
			Fix:      "Change to: `DeepgramClient(api_key=...)`",
			Impact:   "Users will get NameError - this class no longer exists",
			Blocking: true,
		})
	}

	if strings.Contains(code, "deepgram.transcription.prerecorded") {
		findings = append(findings, sample.Finding{
			Issue:    "Outdated API Pattern (v2/v3)",
			Location: "API call",
			Problem:  "Uses old API pattern: `deepgram.transcription.prerecorded`",
			Fix:      "Change to: `deepgram.listen.prerecorded.v(version)`",
			Impact:   "Users will get AttributeError - this API structure changed",
			Blocking: true,
		})
	}

	return findings
}

// hasBareConstructor reports a word-boundary `Deepgram(` call, i.e. the
// removed constructor rather than part of a longer identifier.
func hasBareConstructor(code string) bool {
	for i := 0; ; {
		j := strings.Index(code[i:], "Deepgram(")
		if j < 0 {
			return false
		}
		pos := i + j
		if pos == 0 || !isWordChar(code[pos-1]) {
			return true
		}
		i = pos + len("Deepgram")
	}
}

func isWordChar(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// checkMissingImports flags symbols used without their imports.
func checkMissingImports(code string) []sample.Finding {
	var findings []sample.Finding

	if strings.Contains(code, "DeepgramClient") && !strings.Contains(code, "from deepgram import") {
		findings = append(findings, sample.Finding{
			Issue:    "Missing Core Import",
			Location: "Top of file",
			Problem:  "Uses `DeepgramClient` without importing it",
			Fix:      "Add: `from deepgram import DeepgramClient`",
			Impact:   "Users will get NameError when trying to create client",
			Blocking: true,
		})
	}

	if (strings.Contains(code, "os.getenv") || strings.Contains(code, "os.environ")) &&
		!strings.Contains(code, "import os") {
		findings = append(findings, sample.Finding{
			Issue:    "Missing Standard Import",
			Location: "Top of file",
			Problem:  "Uses `os.getenv` or `os.environ` without importing os",
			Fix:      "Add: `import os`",
			Impact:   "Users will get NameError when accessing environment variables",
			Blocking: true,
		})
	}

	if strings.Contains(code, "load_dotenv") && !strings.Contains(code, "from dotenv import load_dotenv") {
		findings = append(findings, sample.Finding{
			Issue:    "Missing Optional Import",
			Location: "Top of file",
			Problem:  "Uses `load_dotenv()` without importing it",
			Fix:      "Add: `from dotenv import load_dotenv` (and note it's optional)",
			Impact:   "Users without python-dotenv will get ImportError",
			Blocking: false,
		})
	}

	return findings
}

// checkPlaceholders flags placeholder values that teach poor habits.
func checkPlaceholders(code string) []sample.Finding {
	var findings []sample.Finding

	if strings.Contains(code, `"YOUR_API_KEY"`) || strings.Contains(code, `'YOUR_API_KEY'`) {
		findings = append(findings, sample.Finding{
			Issue:    "Placeholder API Key",
			Location: "Client configuration",
			Problem:  "Uses placeholder string: `'YOUR_API_KEY'`",
			Fix:      "Show environment variable pattern: `os.getenv('DEEPGRAM_API_KEY')`",
			Impact:   "Users learn proper API key management from the start",
			Blocking: false,
		})
	}

	if strings.Contains(code, `"path/to/audio.wav"`) || strings.Contains(code, `'path/to/audio.wav'`) {
		findings = append(findings, sample.Finding{
			Issue:    "Placeholder File Path",
			Location: "File operations",
			Problem:  "Uses placeholder path: `'path/to/audio.wav'`",
			Fix:      "Use realistic example path or show how to get from user input",
			Impact:   "Users understand how to provide actual file paths",
			Blocking: false,
		})
	}

	return findings
}

// checkBestPractices flags opportunities to demonstrate better patterns.
func checkBestPractices(code string) []sample.Finding {
	var findings []sample.Finding

	if strings.Contains(code, "DeepgramClient") && !strings.Contains(code, "try:") &&
		len(strings.Split(code, "\n")) > 10 {
		findings = append(findings, sample.Finding{
			Issue:    "Missing Error Handling",
			Location: "API calls",
			Problem:  "Long example without error handling shown",
			Fix:      "Add try/except block around API calls",
			Impact:   "Users learn proper error handling patterns",
			Blocking: false,
		})
	}

	if strings.Contains(code, "AsyncDeepgramClient") && !strings.Contains(code, "await") {
		findings = append(findings, sample.Finding{
			Issue:    "Async Pattern Issue",
			Location: "Async client usage",
			Problem:  "Uses AsyncDeepgramClient but no await calls shown",
			Fix:      "Show proper await usage with async client methods",
			Impact:   "Users understand how to properly use async client",
			Blocking: true, // misuse raises at runtime
		})
	}

	return findings
}

// checkCommonMistakes flags confusing or fragile documentation patterns.
func checkCommonMistakes(code string) []sample.Finding {
	var findings []sample.Finding

	if strings.Contains(code, "AsyncDeepgramClient") &&
		strings.Contains(strings.ReplaceAll(code, "AsyncDeepgramClient", ""), "DeepgramClient") {
		findings = append(findings, sample.Finding{
			Issue:    "Mixed Client Types",
			Location: "Client usage",
			Problem:  "Uses both sync and async clients in same example",
			Fix:      "Show either sync OR async pattern, not both",
			Impact:   "Reduces confusion about which client to use",
			Blocking: false,
		})
	}

	if strings.Contains(code, "https://api.deepgram.com") {
		findings = append(findings, sample.Finding{
			Issue:    "Hardcoded API URL",
			Location: "Client configuration",
			Problem:  "Hardcodes API URL instead of using default",
			Fix:      "Remove explicit URL (use SDK default) or show as configuration option",
			Impact:   "Prevents issues if API URL changes",
			Blocking: false,
		})
	}

	return findings
}

// formatFindings renders the findings summary shown as the result's
// stdout: blocking findings first, then advisory suggestions.
func formatFindings(findings []sample.Finding) string {
	if len(findings) == 0 {
		return "No issues found - code looks good!"
	}

	var blocking, suggestions []sample.Finding
	for _, f := range findings {
		if f.Blocking {
			blocking = append(blocking, f)
		} else {
			suggestions = append(suggestions, f)
		}
	}

	var out []string

	if len(blocking) > 0 {
		out = append(out, fmt.Sprintf("%d issue(s) that prevent users from running this code:", len(blocking)))
		for _, f := range blocking {
			out = append(out, "",
				fmt.Sprintf("**%s** (%s)", f.Issue, f.Location),
				"Problem: "+f.Problem,
				"Fix: "+f.Fix,
				"Impact: "+f.Impact)
		}
	}

	if len(suggestions) > 0 {
		if len(blocking) > 0 {
			out = append(out, "", strings.Repeat("=", 50))
		}
		out = append(out, fmt.Sprintf("%d suggestion(s) to improve this example:", len(suggestions)))
		for _, f := range suggestions {
			out = append(out, "",
				fmt.Sprintf("**%s** (%s)", f.Issue, f.Location),
				"Suggestion: "+f.Fix,
				"Why: "+f.Impact)
		}
	}

	return strings.Join(out, "\n")
}
