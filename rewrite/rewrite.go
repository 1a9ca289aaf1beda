package rewrite

import (
	"fmt"
	"strings"

	"github.com/deepgram-devs/docs-sample-testing/config"
	"github.com/deepgram-devs/docs-sample-testing/sample"
	"github.com/deepgram-devs/docs-sample-testing/sandbox"
)

// Rewriter turns a raw code sample into executable source text bound to a
// prepared sandbox environment.
type Rewriter interface {
	Rewrite(s *sample.CodeSample, env *sandbox.Environment) (string, error)
}

// ForDialect returns the rewriter for a dialect name. The language
// descriptor supplies dialect-specific templates such as required using
// statements; it may be nil for dialects that need none.
func ForDialect(name, placeholder string, lang *config.Language) (Rewriter, error) {
	switch name {
	case "python":
		return NewPython(placeholder), nil
	case "csharp":
		var required []string
		if lang != nil {
			required = lang.RequiredDeclarations
		}
		return NewCSharp(placeholder, required), nil
	default:
		return nil, fmt.Errorf("no rewriter registered for dialect: %s", name)
	}
}

// dedent removes the common leading-whitespace prefix shared by all
// non-blank lines. When indentation is mixed and no common prefix exists,
// it falls back to the minimum indentation among non-comment, non-blank
// lines and strips exactly that many leading characters from every line,
// clamping to a full strip for lines with less.
func dedent(code string, commentPrefixes []string) string {
	lines := strings.Split(code, "\n")

	prefix, found := commonIndentPrefix(lines)
	if found && prefix != "" {
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				lines[i] = ""
				continue
			}
			lines[i] = strings.TrimPrefix(line, prefix)
		}
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	if found {
		return strings.TrimSpace(code)
	}

	min := minIndent(lines, commentPrefixes)
	if min == 0 {
		return strings.TrimSpace(code)
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		if len(line) >= min {
			lines[i] = line[min:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// commonIndentPrefix returns the longest whitespace prefix shared by all
// non-blank lines. The second return is false when the lines have mixed
// indentation with no shared prefix but at least one indented line.
func commonIndentPrefix(lines []string) (string, bool) {
	prefix := ""
	first := true
	anyIndent := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if indent != "" {
			anyIndent = true
		}
		if first {
			prefix = indent
			first = false
			continue
		}
		prefix = sharedPrefix(prefix, indent)
	}

	if prefix == "" && anyIndent {
		return "", false
	}
	return prefix, true
}

func sharedPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// minIndent returns the smallest indentation width among non-comment,
// non-blank lines.
func minIndent(lines []string, commentPrefixes []string) int {
	min := -1
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		comment := false
		for _, p := range commentPrefixes {
			if strings.HasPrefix(trimmed, p) {
				comment = true
				break
			}
		}
		if comment {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if min < 0 || indent < min {
			min = indent
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

// indentBlock indents every non-blank line by n spaces.
func indentBlock(code string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
