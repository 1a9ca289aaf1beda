package cli

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docstest",
		Short: "Test SDK documentation code samples",
		Long: `Docstest extracts code samples from SDK documentation, rewrites
them into a safely executable form, and either runs them in disposable
sandboxes or analyzes them against a catalogue of known issues.

Reports are written as JSON for machines and Markdown for humans.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewTestCommand())
	cmd.AddCommand(NewAnalyzeCommand())

	return cmd
}
