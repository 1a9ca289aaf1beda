package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deepgram-devs/docs-sample-testing/config"
	"github.com/deepgram-devs/docs-sample-testing/harness"
	"github.com/deepgram-devs/docs-sample-testing/report"
	"github.com/deepgram-devs/docs-sample-testing/sample"
)

type testOptions struct {
	language     string
	allLanguages bool
	docsPath     string
	outputDir    string
	languagesDir string
}

// NewTestCommand creates and returns the test subcommand.
func NewTestCommand() *cobra.Command {
	opts := &testOptions{}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test documentation code samples for one or all languages",
		Long: `Extract every code sample for the selected language(s) from the
documentation corpus, rewrite each into a safely executable form, and
run or analyze it. JSON and Markdown reports are written per language.

Exit code: 0 if every sample passed, 1 otherwise`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.language, "language", "", "language to test (e.g. python, csharp)")
	cmd.Flags().BoolVar(&opts.allLanguages, "all-languages", false, "test all languages with descriptors")
	cmd.Flags().StringVar(&opts.docsPath, "docs-path", "", "path to documentation directory (overrides config)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "test-runs", "output directory for reports")
	cmd.Flags().StringVar(&opts.languagesDir, "languages-dir", "", "directory with language descriptors (overrides config)")

	return cmd
}

func runTests(opts *testOptions, out io.Writer) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if opts.docsPath != "" {
		cfg.Documentation.PagesPath = opts.docsPath
	}
	if opts.languagesDir != "" {
		cfg.Documentation.LanguagesPath = opts.languagesDir
	}

	if _, err := os.Stat(cfg.Documentation.PagesPath); err != nil {
		return fmt.Errorf("documentation directory not found: %s", cfg.Documentation.PagesPath)
	}

	languages, err := selectLanguages(opts, cfg.Documentation.LanguagesPath)
	if err != nil {
		return err
	}

	log, err := newCommandLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	console := report.NewConsole(out)
	fmt.Fprintf(out, "🚀 Testing documentation samples for: %s\n", strings.Join(languages, ", "))
	fmt.Fprintf(out, "📁 Documentation path: %s\n", cfg.Documentation.PagesPath)
	fmt.Fprintf(out, "📊 Output directory: %s\n\n", opts.outputDir)

	overallSuccess := true
	for _, name := range languages {
		if err := runLanguage(cfg, log, console, out, name, opts.outputDir); err != nil {
			fmt.Fprintf(out, "❌ Failed to test %s: %v\n", name, err)
			overallSuccess = false
		}
		fmt.Fprintln(out)
	}

	if !overallSuccess {
		return errors.New("some samples have blocking issues; see the reports for details")
	}
	return nil
}

// runLanguage drives the full pipeline for one language with per-sample
// progress output.
func runLanguage(cfg *config.Config, log *zap.Logger, console *report.Console, out io.Writer, name, outputDir string) error {
	lang, err := config.FindLanguage(cfg.Documentation.LanguagesPath, name)
	if err != nil {
		return err
	}

	h, err := harness.ForLanguage(log, cfg, lang)
	if err != nil {
		return err
	}

	console.Header(name)
	samples, err := h.Extractor().FromDir(cfg.Documentation.PagesPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "     Found %d %s code samples\n", len(samples), name)

	var results []sample.TestResult
	for i := range samples {
		s := &samples[i]
		console.Progress(i+1, len(samples), filepath.Base(s.FilePath), s.LineNumber)

		if s.ShouldSkip(h.Extractor().Dialect().CommentPrefixes) {
			fmt.Fprintln(out, "    ⏭️  Skipped (too small or comment-only)")
			continue
		}

		res := h.RunSample(context.Background(), s)
		results = append(results, res)
		console.Outcome(res.Success, res.BlockingCount(), res.SuggestionCount())
	}

	rep := report.Build(name, results)
	jsonPath, mdPath, err := rep.Save(outputDir)
	if err != nil {
		return err
	}
	console.Summary(rep)
	console.Saved(jsonPath, mdPath)

	if rep.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d samples failed", rep.Summary.Failed, rep.Summary.Total)
	}
	return nil
}

func selectLanguages(opts *testOptions, languagesDir string) ([]string, error) {
	if opts.allLanguages {
		names, err := config.DiscoverLanguages(languagesDir)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("no language descriptors found under %s", languagesDir)
		}
		return names, nil
	}
	if opts.language != "" {
		return []string{opts.language}, nil
	}
	return nil, errors.New("must specify either --language or --all-languages")
}
