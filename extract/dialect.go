package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/deepgram-devs/docs-sample-testing/sample"
)

// Dialect describes how one language's code samples appear in
// documentation: the fence labels that mark them, the tokens that identify
// them as targeting the library, and the surface patterns used to classify
// and flag them.
type Dialect struct {
	Name string

	// FenceLabels are the accepted code-fence info strings, e.g.
	// "python" and "py". A dialect has between one and four labels.
	FenceLabels []string

	// MinLength is the minimum stripped block length kept by extraction.
	MinLength int

	// CommentPrefixes mark comment-only lines for the comment-block filter.
	CommentPrefixes []string

	// LibraryMarkers identify blocks that reference the target library.
	// Blocks containing none of these are skipped. Matching is
	// case-insensitive when MarkersFoldCase is set.
	LibraryMarkers  []string
	MarkersFoldCase bool

	// ForeignMarkers are syntactic tokens strongly associated with a
	// different dialect; their presence causes the block to be skipped.
	// Used as a cross-contamination filter when dialects share fences.
	ForeignMarkers []string

	// ImportPattern is the line-anchored pattern for import/using lines.
	ImportPattern *regexp.Regexp

	// CredentialMarkers flag samples that need a mocked credential.
	CredentialMarkers []string

	// AudioMarkers flag samples that need a mock media file. Matching is
	// always case-insensitive.
	AudioMarkers []string

	// Classification token sets, checked in priority order: async, class,
	// streaming, function; anything else is synchronous. AsyncMarkers,
	// StreamingMarkers and FunctionMarkers match on any token; all
	// ClassMarkers must be present together.
	AsyncMarkers     []string
	ClassMarkers     []string
	StreamingMarkers []string
	FunctionMarkers  []string

	fencePattern *regexp.Regexp
}

// fencePatternFor builds a single non-overlapping pattern matching any of
// the dialect's fence labels.
func fencePatternFor(labels []string) *regexp.Regexp {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return regexp.MustCompile("(?s)```(?:" + strings.Join(quoted, "|") + ")[^\n]*\n(.*?)```")
}

// Classify determines the sample type from surface tokens, first match
// wins: async, class, streaming, function, sync.
func (d *Dialect) Classify(code string) sample.Type {
	lower := strings.ToLower(code)

	for _, m := range d.AsyncMarkers {
		if strings.Contains(code, m) {
			return sample.TypeAsync
		}
	}

	if len(d.ClassMarkers) > 0 {
		all := true
		for _, m := range d.ClassMarkers {
			if !strings.Contains(code, m) {
				all = false
				break
			}
		}
		if all {
			return sample.TypeClass
		}
	}

	for _, m := range d.StreamingMarkers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return sample.TypeStreaming
		}
	}

	for _, m := range d.FunctionMarkers {
		if strings.Contains(code, m) {
			return sample.TypeFunction
		}
	}

	return sample.TypeSync
}

// ExtractImports returns the ordered import/using statements in the block.
func (d *Dialect) ExtractImports(code string) []string {
	if d.ImportPattern == nil {
		return nil
	}
	return d.ImportPattern.FindAllString(code, -1)
}

// RequiresAPIKey reports whether the block references a credential.
func (d *Dialect) RequiresAPIKey(code string) bool {
	for _, m := range d.CredentialMarkers {
		if strings.Contains(code, m) {
			return true
		}
	}
	return false
}

// RequiresAudioFile reports whether the block references audio media.
func (d *Dialect) RequiresAudioFile(code string) bool {
	lower := strings.ToLower(code)
	for _, m := range d.AudioMarkers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// referencesLibrary reports whether the block mentions the target library.
func (d *Dialect) referencesLibrary(code string) bool {
	haystack := code
	if d.MarkersFoldCase {
		haystack = strings.ToLower(code)
	}
	for _, m := range d.LibraryMarkers {
		if d.MarkersFoldCase {
			m = strings.ToLower(m)
		}
		if strings.Contains(haystack, m) {
			return true
		}
	}
	return false
}

// hasForeignMarkers reports whether the block carries tokens from another
// dialect.
func (d *Dialect) hasForeignMarkers(code string) bool {
	for _, m := range d.ForeignMarkers {
		if strings.Contains(code, m) {
			return true
		}
	}
	return false
}

// Python returns the dialect descriptor for Python documentation samples.
func Python() *Dialect {
	d := &Dialect{
		Name:            "python",
		FenceLabels:     []string{"python", "py"},
		MinLength:       30,
		CommentPrefixes: []string{"#"},
		LibraryMarkers: []string{
			"from deepgram import",
			"import deepgram",
			"DeepgramClient",
			"AsyncDeepgramClient",
		},
		ForeignMarkers: []string{
			"var ",
			"let ",
			"const ",
			"new Credentials(",
			"using System",
			"namespace ",
			"public class",
			"private ",
			"interface I",
		},
		ImportPattern: regexp.MustCompile(`(?m)^(?:from\s+\S+\s+import\s+.+|import\s+\S+.*?)$`),
		CredentialMarkers: []string{
			"api_key",
			"DEEPGRAM_API_KEY",
			"DEEPGRAM_TOKEN",
			"DeepgramClient(",
		},
		AudioMarkers: []string{
			".wav",
			".mp3",
			".m4a",
			"audio_file",
			"transcribe_file",
		},
		AsyncMarkers:     []string{"async def", "await ", "AsyncDeepgramClient"},
		ClassMarkers:     []string{"class ", "def "},
		StreamingMarkers: []string{"websocket"},
		FunctionMarkers:  []string{"def "},
	}
	d.fencePattern = fencePatternFor(d.FenceLabels)
	return d
}

// CSharp returns the dialect descriptor for C#/.NET documentation samples.
func CSharp() *Dialect {
	d := &Dialect{
		Name:            "csharp",
		FenceLabels:     []string{"csharp", "cs", "c#", "dotnet"},
		MinLength:       30,
		CommentPrefixes: []string{"//", "/*", "*"},
		LibraryMarkers: []string{
			"using Deepgram",
			"DeepgramClient",
			"Deepgram.",
			"deepgram",
		},
		MarkersFoldCase: true,
		ImportPattern:   regexp.MustCompile(`(?m)^using\s+[^;]+;`),
		CredentialMarkers: []string{
			"apiKey",
			"DEEPGRAM_API_KEY",
			"DEEPGRAM_TOKEN",
			"DeepgramClient(",
		},
		AudioMarkers: []string{
			".wav",
			".mp3",
			".m4a",
			"audioFile",
			"File.ReadAllBytes",
			"Transcribe.File",
		},
		AsyncMarkers:     []string{"await "},
		ClassMarkers:     []string{"class ", "public "},
		StreamingMarkers: []string{"websocket", "LiveClient"},
		FunctionMarkers:  []string{"static ", "void "},
	}
	d.fencePattern = fencePatternFor(d.FenceLabels)
	return d
}

// builtins maps dialect names to their constructors. The registry is
// populated explicitly here rather than discovered at runtime.
var builtins = map[string]func() *Dialect{
	"python": Python,
	"csharp": CSharp,
}

// ForName returns the registered dialect for a language name.
func ForName(name string) (*Dialect, error) {
	ctor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect: %s, supported: %s", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered dialect names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
