package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/deepgram-devs/docs-sample-testing/sample"
	"github.com/deepgram-devs/docs-sample-testing/sandbox"
)

var (
	csMigrationComment = regexp.MustCompile(`//\s*For help migrating[^\n]*\n[^\n]*//[^\n]*MIGRATION\.md[^\n]*\n\s*`)
	csAudioDouble      = regexp.MustCompile(`"[^"]*\.(?:wav|mp3|m4a)"`)
	csAudioSingle      = regexp.MustCompile(`'[^']*\.(?:wav|mp3|m4a)'`)
	csAssetURL         = regexp.MustCompile(`"https://dpgr\.am/[^"]*"`)
	csUsingLine        = regexp.MustCompile(`(?m)^using\s+[^;]+;`)
)

// CSharp rewrites C#/.NET documentation samples into standalone console
// programs. It applies the subset of the pipeline that applies to a
// compiled target: comment stripping, credential and resource
// substitution, using-statement injection, and Main wrapping.
type CSharp struct {
	placeholder    string
	requiredUsings []string
}

// NewCSharp creates a C# rewriter. requiredUsings are using statements
// injected when the sample lacks them, taken from the language descriptor.
func NewCSharp(placeholder string, requiredUsings []string) *CSharp {
	return &CSharp{
		placeholder:    placeholder,
		requiredUsings: requiredUsings,
	}
}

// Rewrite applies the substitution pipeline in its fixed order.
func (c *CSharp) Rewrite(s *sample.CodeSample, env *sandbox.Environment) (string, error) {
	code := s.Code

	code = csMigrationComment.ReplaceAllString(code, "")
	code = dedent(code, []string{"//", "/*", "*"})
	code = c.substituteCredentials(code)
	if s.RequiresAudioFile && env != nil && env.MockAudioPath != "" {
		code = c.substituteAudioPaths(code, env.MockAudioPath)
	}
	code = csAssetURL.ReplaceAllString(code, `"https://example.com/test.wav"`)
	code = c.injectRequiredUsings(code)
	code = c.wrapEntryPoint(code)

	return code, nil
}

func (c *CSharp) substituteCredentials(code string) string {
	code = strings.ReplaceAll(code, `"YOUR_API_KEY"`, fmt.Sprintf("%q", c.placeholder))
	code = strings.ReplaceAll(code, `'YOUR_API_KEY'`, "'"+c.placeholder+"'")
	return code
}

func (c *CSharp) substituteAudioPaths(code, mockPath string) string {
	safe := strings.ReplaceAll(mockPath, "$", "$$")
	code = csAudioDouble.ReplaceAllString(code, `"`+safe+`"`)
	code = csAudioSingle.ReplaceAllString(code, `'`+safe+`'`)
	return code
}

// injectRequiredUsings prepends using statements from the language
// descriptor that the sample does not already carry.
func (c *CSharp) injectRequiredUsings(code string) string {
	existing := csUsingLine.FindAllString(code, -1)

	var toAdd []string
	for _, required := range c.requiredUsings {
		present := false
		for _, u := range existing {
			if strings.Contains(u, required) {
				present = true
				break
			}
		}
		if !present {
			toAdd = append(toAdd, required)
		}
	}

	if len(toAdd) == 0 {
		return code
	}
	return strings.Join(toAdd, "\n") + "\n\n" + code
}

// wrapEntryPoint wraps free-standing statements in a Program.Main that
// prints the success marker on completion and the failure marker with the
// exception message and a nonzero exit on error. Using directives are
// hoisted above the class; samples that already declare a Main are left
// unwrapped.
func (c *CSharp) wrapEntryPoint(code string) string {
	if strings.Contains(code, "static void Main") || strings.Contains(code, "static async Task Main") {
		return code
	}

	usings := []string{"using System;"}
	if strings.Contains(code, "await ") {
		usings = append(usings, "using System.Threading.Tasks;")
	}
	usings = append(usings, "using Deepgram;")
	for _, u := range csUsingLine.FindAllString(code, -1) {
		dup := false
		for _, have := range usings {
			if have == u {
				dup = true
				break
			}
		}
		if !dup {
			usings = append(usings, u)
		}
	}
	body := strings.TrimSpace(csUsingLine.ReplaceAllString(code, ""))

	signature := "static void Main(string[] args)"
	if strings.Contains(code, "await ") {
		signature = "static async Task Main(string[] args)"
	}

	return fmt.Sprintf(`%s

class Program
{
    %s
    {
        try
        {
%s
            Console.WriteLine(%q);
        }
        catch (Exception ex)
        {
            Console.WriteLine($"%s {ex.Message}");
            Environment.Exit(1);
        }
    }
}
`, strings.Join(usings, "\n"), signature, indentBlock(body, 12), SuccessMarker, FailurePrefix)
}
