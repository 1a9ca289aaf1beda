package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/deepgram-devs/docs-sample-testing/sample"
)

// Extractor produces code samples for one dialect from a documentation
// corpus.
type Extractor struct {
	dialect *Dialect
	logger  *zap.Logger
}

// New creates an Extractor for the given dialect.
func New(dialect *Dialect, logger *zap.Logger) *Extractor {
	return &Extractor{
		dialect: dialect,
		logger:  logger,
	}
}

// Dialect returns the extractor's dialect descriptor.
func (e *Extractor) Dialect() *Dialect {
	return e.dialect
}

// FromDir walks the documentation corpus rooted at root and extracts all
// matching code samples from .md and .mdx pages. A page that cannot be
// read is logged as a warning and skipped; extraction continues for the
// remaining pages. A corpus with no matching blocks yields an empty slice
// and no error.
func (e *Extractor) FromDir(root string) ([]sample.CodeSample, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("documentation path not accessible: %w", err)
	}

	var samples []sample.CodeSample

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			e.logger.Warn("failed to visit documentation entry",
				zap.String("path", path),
				zap.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".mdx" {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			e.logger.Warn("failed to read documentation page",
				zap.String("path", path),
				zap.Error(readErr))
			return nil
		}

		samples = append(samples, e.FromContent(path, string(content))...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk documentation path: %w", err)
	}

	e.logger.Info("extraction complete",
		zap.String("dialect", e.dialect.Name),
		zap.String("root", root),
		zap.Int("samples", len(samples)))

	return samples, nil
}

// FromContent extracts all matching code samples from one page's text.
func (e *Extractor) FromContent(path, content string) []sample.CodeSample {
	var samples []sample.CodeSample

	for _, loc := range e.dialect.fencePattern.FindAllStringSubmatchIndex(content, -1) {
		// loc[2]:loc[3] is the captured block body.
		code := strings.TrimSpace(content[loc[2]:loc[3]])

		if e.shouldSkipBlock(code) {
			continue
		}

		lineNumber := strings.Count(content[:loc[0]], "\n") + 1

		samples = append(samples, sample.CodeSample{
			FilePath:          path,
			LineNumber:        lineNumber,
			Code:              code,
			Language:          e.dialect.Name,
			SampleType:        e.dialect.Classify(code),
			Imports:           e.dialect.ExtractImports(code),
			RequiresAPIKey:    e.dialect.RequiresAPIKey(code),
			RequiresAudioFile: e.dialect.RequiresAudioFile(code),
			Metadata:          map[string]string{},
		})
	}

	return samples
}

// shouldSkipBlock applies the extraction filters: minimum length,
// comment-only content, missing library reference, and cross-dialect
// contamination.
func (e *Extractor) shouldSkipBlock(code string) bool {
	if len(strings.TrimSpace(code)) < e.dialect.MinLength {
		return true
	}

	if commentOnly(code, e.dialect.CommentPrefixes) {
		return true
	}

	if !e.dialect.referencesLibrary(code) {
		return true
	}

	if e.dialect.hasForeignMarkers(code) {
		return true
	}

	return false
}

func commentOnly(code string, prefixes []string) bool {
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
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
	return true
}
