package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/deepgram-devs/docs-sample-testing/sample"
	"github.com/deepgram-devs/docs-sample-testing/sandbox"
)

// Fixed markers printed by the generated entry point.
const (
	SuccessMarker = "✅ Code sample executed successfully"
	FailurePrefix = "❌ Error:"
)

var (
	pyMigrationComment = regexp.MustCompile(`#\s*For help migrating[^\n]*\n[^\n]*#[^\n]*/docs/Migrating[^\n]*\n\s*`)

	pyGetenvKey  = regexp.MustCompile(`os\.getenv\(["']DEEPGRAM_API_KEY["']\)`)
	pyEnvironKey = regexp.MustCompile(`os\.environ\.get\(["']DEEPGRAM_API_KEY["']\)`)
	pyBareKeyVar = regexp.MustCompile(`\bDEEPGRAM_API_KEY\b`)

	pyOldImport      = regexp.MustCompile(`from deepgram import Deepgram\b`)
	pyOldConstructor = regexp.MustCompile(`\bDeepgram\(`)

	pyInputEmpty    = regexp.MustCompile(`\binput\(\s*\)`)
	pyInputPrompt   = regexp.MustCompile(`\binput\(\s*["'][^"']*["']\s*\)`)
	pyWhileTrue     = regexp.MustCompile(`(?m)^(\s*)while\s+True\s*:\s*$`)
	pySleepInt      = regexp.MustCompile(`time\.sleep\(\s*\d+\s*\)`)
	pySleepFloat    = regexp.MustCompile(`time\.sleep\(\s*\d*\.\d+\s*\)`)
	pyStartListen   = regexp.MustCompile(`(\w+)\.start_listening\(\)`)
	pyConnect       = regexp.MustCompile(`(\w+)\.connect\(\)`)
	pyAudioDouble   = regexp.MustCompile(`"[^"]*\.(?:wav|mp3|m4a|flac|opus)"`)
	pyAudioSingle   = regexp.MustCompile(`'[^']*\.(?:wav|mp3|m4a|flac|opus)'`)
	pyAudioFileVar  = regexp.MustCompile(`audio_file\s*=\s*["'][^"']+["']`)
	pyFilePathVar   = regexp.MustCompile(`file_path\s*=\s*["'][^"']+["']`)
	pyAssetURL      = regexp.MustCompile(`"https://dpgr\.am/[^"]*"`)
)

// Python rewrites Python documentation samples into standalone runnable
// scripts. It implements the full substitution pipeline including
// blocking-call neutralization and entry-point wrapping.
type Python struct {
	placeholder string
}

// NewPython creates a Python rewriter substituting the given credential
// placeholder.
func NewPython(placeholder string) *Python {
	return &Python{placeholder: placeholder}
}

// Rewrite applies the substitution pipeline in its fixed order. Later
// steps rely on the effects of earlier ones.
func (p *Python) Rewrite(s *sample.CodeSample, env *sandbox.Environment) (string, error) {
	code := s.Code

	code = pyMigrationComment.ReplaceAllString(code, "")
	code = dedent(code, []string{"#"})
	code = p.substituteCredentials(code)
	code = p.migrateDeprecatedSymbols(code)
	code = p.neutralizeBlockingCalls(code)
	if s.RequiresAudioFile && env != nil && env.MockAudioPath != "" {
		code = p.substituteAudioPaths(code, env.MockAudioPath)
	}
	code = pyAssetURL.ReplaceAllString(code, `"https://example.com/test.wav"`)
	code = p.injectMissingImports(code)
	code = p.wrapEntryPoint(code)

	return code, nil
}

// substituteCredentials replaces placeholder and environment-read
// credentials with the literal test credential. Idempotent: reapplying it
// leaves the text unchanged.
func (p *Python) substituteCredentials(code string) string {
	quoted := fmt.Sprintf("%q", p.placeholder)
	code = strings.ReplaceAll(code, `"YOUR_API_KEY"`, quoted)
	code = strings.ReplaceAll(code, `'YOUR_API_KEY'`, "'"+p.placeholder+"'")
	code = pyGetenvKey.ReplaceAllString(code, quoted)
	code = pyEnvironKey.ReplaceAllString(code, quoted)
	code = pyBareKeyVar.ReplaceAllString(code, quoted)
	return code
}

// migrateDeprecatedSymbols rewrites the removed v2/v3 client symbols to
// the current constructor.
func (p *Python) migrateDeprecatedSymbols(code string) string {
	code = pyOldImport.ReplaceAllString(code, "from deepgram import DeepgramClient")
	code = pyOldConstructor.ReplaceAllString(code, "DeepgramClient(")
	return code
}

// neutralizeBlockingCalls defuses operations that would hang or perform
// real I/O inside the sandbox.
func (p *Python) neutralizeBlockingCalls(code string) string {
	code = pyInputEmpty.ReplaceAllString(code, `"test_input"`)
	code = pyInputPrompt.ReplaceAllString(code, `"test_input"`)
	code = pyWhileTrue.ReplaceAllString(code, "${1}for _ in range(3):")
	code = pySleepInt.ReplaceAllString(code, "time.sleep(0.1)")
	code = pySleepFloat.ReplaceAllString(code, "time.sleep(0.1)")
	code = pyStartListen.ReplaceAllString(code, "pass  # ${1}.start_listening() - skipped in tests")
	code = pyConnect.ReplaceAllString(code, "pass  # ${1}.connect() - skipped in tests")
	return code
}

// substituteAudioPaths points every quoted audio path at the sandbox's
// mock asset.
func (p *Python) substituteAudioPaths(code, mockPath string) string {
	safe := strings.ReplaceAll(mockPath, "$", "$$")
	code = pyAudioDouble.ReplaceAllString(code, `"`+safe+`"`)
	code = pyAudioSingle.ReplaceAllString(code, `'`+safe+`'`)
	code = pyAudioFileVar.ReplaceAllString(code, `audio_file = "`+safe+`"`)
	code = pyFilePathVar.ReplaceAllString(code, `file_path = "`+safe+`"`)
	return code
}

// injectMissingImports prepends stdlib imports the rewritten body needs
// but the sample lacked, plus guarded substitutes for optional third-party
// dependencies so their absence does not abort the test.
func (p *Python) injectMissingImports(code string) string {
	var imports []string

	if strings.Contains(code, "time.sleep") && !strings.Contains(code, "import time") {
		imports = append(imports, "import time")
	}
	if (strings.Contains(code, "os.getenv") || strings.Contains(code, "os.environ")) &&
		!strings.Contains(code, "import os") {
		imports = append(imports, "import os")
	}
	if strings.Contains(code, "Path(") && !strings.Contains(code, "from pathlib import Path") {
		imports = append(imports, "from pathlib import Path")
	}
	if strings.Contains(code, "re.") && !strings.Contains(code, "import re") {
		imports = append(imports, "import re")
	}

	if strings.Contains(code, "load_dotenv") && !strings.Contains(code, "from dotenv import") {
		imports = append(imports, `try:
    from dotenv import load_dotenv
except ImportError:
    def load_dotenv(*args, **kwargs):
        pass  # substitute for optional python-dotenv`)
	}
	if strings.Contains(code, "requests.") && !strings.Contains(code, "import requests") {
		imports = append(imports, `try:
    import requests
except ImportError:
    class _StubRequests:
        @staticmethod
        def get(*args, **kwargs):
            class _Resp:
                status_code = 200
                def json(self): return {"mock": "data"}
                def raise_for_status(self): pass
            return _Resp()
    requests = _StubRequests()`)
	}
	if strings.Contains(code, "deepgram.utils") {
		imports = append(imports, `try:
    from deepgram.utils import verboselogs
except ImportError:
    class _StubVerboseLogs:
        @staticmethod
        def info(*args): pass
        @staticmethod
        def debug(*args): pass
    verboselogs = _StubVerboseLogs()`)
	}

	if len(imports) == 0 {
		return code
	}
	return strings.Join(imports, "\n") + "\n\n" + code
}

// wrapEntryPoint hoists top-level function/class definitions and imports
// to module scope and relocates bare executable statements into a
// generated main() that prints the success marker on completion or the
// failure marker with the raised error and a nonzero exit.
//
// Partitioning is indentation-based: a column-zero def/class line (with
// any decorators immediately above it) opens a definition block spanning
// the following indented or blank lines. Multi-line signatures are a
// known limitation of this heuristic.
func (p *Python) wrapEntryPoint(code string) string {
	lines := strings.Split(code, "\n")

	var moduleLines []string
	var bodyLines []string
	var pendingDecorators []string

	i := 0
	for i < len(lines) {
		line := lines[i]
		stripped := strings.TrimSpace(line)
		topLevel := !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t")

		switch {
		case topLevel && strings.HasPrefix(stripped, "@"):
			pendingDecorators = append(pendingDecorators, line)
			i++

		case topLevel && (strings.HasPrefix(stripped, "def ") || strings.HasPrefix(stripped, "class ")):
			moduleLines = append(moduleLines, pendingDecorators...)
			pendingDecorators = nil
			moduleLines = append(moduleLines, line)
			i++
			for i < len(lines) {
				next := lines[i]
				if strings.TrimSpace(next) == "" || strings.HasPrefix(next, " ") || strings.HasPrefix(next, "\t") {
					moduleLines = append(moduleLines, next)
					i++
					continue
				}
				break
			}

		case strings.HasPrefix(stripped, "import ") || strings.HasPrefix(stripped, "from "):
			bodyLines = append(bodyLines, pendingDecorators...)
			pendingDecorators = nil
			moduleLines = append(moduleLines, line)
			i++

		default:
			// Decorators not followed by a definition are treated as
			// ordinary statements.
			bodyLines = append(bodyLines, pendingDecorators...)
			pendingDecorators = nil
			if stripped != "" {
				bodyLines = append(bodyLines, line)
			}
			i++
		}
	}
	bodyLines = append(bodyLines, pendingDecorators...)

	var b strings.Builder

	b.WriteString("import sys\n")
	module := strings.TrimSpace(strings.Join(moduleLines, "\n"))
	if module != "" {
		b.WriteString("\n")
		b.WriteString(module)
		b.WriteString("\n")
	}

	b.WriteString("\ndef main():\n    try:\n")
	body := strings.TrimRight(strings.Join(bodyLines, "\n"), "\n")
	if strings.TrimSpace(body) == "" {
		b.WriteString("        pass\n")
	} else {
		b.WriteString(indentBlock(body, 8))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("        print(%q)\n", SuccessMarker))
	b.WriteString("        return True\n")
	b.WriteString("    except Exception as e:\n")
	b.WriteString(fmt.Sprintf("        print(f\"%s {e}\")\n", FailurePrefix))
	b.WriteString("        return False\n")
	b.WriteString("\nif __name__ == \"__main__\":\n")
	b.WriteString("    sys.exit(0 if main() else 1)\n")

	return b.String()
}
