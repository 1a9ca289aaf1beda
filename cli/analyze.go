package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deepgram-devs/docs-sample-testing/config"
	"github.com/deepgram-devs/docs-sample-testing/extract"
	"github.com/deepgram-devs/docs-sample-testing/harness"
	"github.com/deepgram-devs/docs-sample-testing/logger"
	"github.com/deepgram-devs/docs-sample-testing/sample"
	"go.uber.org/zap"
)

// NewAnalyzeCommand creates and returns the analyze subcommand.
func NewAnalyzeCommand() *cobra.Command {
	var language string
	var languagesDir string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a single code snippet without a documentation corpus",
		Long: `Classify one code snippet and check it against the catalogue of
known documentation issues. The snippet is read from the given file, or
from stdin when no file is given.

Exit code: 0 if no blocking issue was found, 1 otherwise`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readSnippet(args)
			if err != nil {
				return err
			}
			return runAnalyze(language, languagesDir, code, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&language, "language", "python", "language of the snippet")
	cmd.Flags().StringVar(&languagesDir, "languages-dir", "", "directory with language descriptors (overrides config)")

	return cmd
}

func readSnippet(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read snippet: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read snippet from stdin: %w", err)
	}
	return string(data), nil
}

func runAnalyze(language, languagesDir, code string, out io.Writer) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if languagesDir != "" {
		cfg.Documentation.LanguagesPath = languagesDir
	}

	log, err := newCommandLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	lang, err := config.FindLanguage(cfg.Documentation.LanguagesPath, language)
	if err != nil {
		return err
	}

	dialect, err := extract.ForName(lang.Name)
	if err != nil {
		return err
	}

	h, err := harness.ForLanguage(log, cfg, lang)
	if err != nil {
		return err
	}

	snippet := &sample.CodeSample{
		FilePath:          "snippet",
		LineNumber:        1,
		Code:              code,
		Language:          lang.Name,
		SampleType:        dialect.Classify(code),
		Imports:           dialect.ExtractImports(code),
		RequiresAPIKey:    dialect.RequiresAPIKey(code),
		RequiresAudioFile: dialect.RequiresAudioFile(code),
		Metadata:          map[string]string{},
	}

	result := h.RunSample(context.Background(), snippet)

	fmt.Fprintf(out, "Sample type: %s\n\n", snippet.SampleType)
	if result.Stdout != "" {
		fmt.Fprintln(out, result.Stdout)
	}
	if result.ErrorMessage != "" {
		fmt.Fprintf(out, "Error: %s\n", result.ErrorMessage)
	}

	if !result.Success {
		return fmt.Errorf("snippet has %d blocking issue(s)", result.BlockingCount())
	}
	return nil
}

// newCommandLogger builds the logger for interactive runs, raised to
// warn level so structured logs do not drown the progress output.
func newCommandLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Logging.Mode, "warn")
}
