package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deepgram-devs/docs-sample-testing/config"
	"github.com/deepgram-devs/docs-sample-testing/rewrite"
	"github.com/deepgram-devs/docs-sample-testing/sample"
	"github.com/deepgram-devs/docs-sample-testing/sandbox"
	"github.com/deepgram-devs/docs-sample-testing/validate"
)

// Mode selects the runner behavior for a language variant.
type Mode int

const (
	// ModeExecute materializes and runs the rewritten program.
	ModeExecute Mode = iota
	// ModeAnalyze statically inspects the raw text without running it.
	ModeAnalyze
)

// TimeoutMessage is the fixed error message reported when a sample's
// execution exceeds the configured timeout.
const TimeoutMessage = "Test execution timed out"

// Option defines a functional option for Runner.
type Option func(*Runner)

// WithCommandRunner sets the CommandRunner used for subprocess execution.
func WithCommandRunner(cmd sandbox.CommandRunner) Option {
	return func(r *Runner) {
		r.cmdRunner = cmd
	}
}

// WithFileSystem sets the FileSystem used to materialize program files.
func WithFileSystem(fs sandbox.FileSystem) Option {
	return func(r *Runner) {
		r.fs = fs
	}
}

// Runner processes one sample at a time: rewrite, materialize, run (or
// analyze), validate, and assemble the TestResult.
type Runner struct {
	logger         *zap.Logger
	lang           *config.Language
	mode           Mode
	timeout        time.Duration
	restoreTimeout time.Duration
	rewriter       rewrite.Rewriter
	validator      *validate.Validator
	cmdRunner      sandbox.CommandRunner
	fs             sandbox.FileSystem
}

// New creates a Runner for one language variant. The mode is taken from
// the language descriptor.
func New(logger *zap.Logger, cfg *config.Config, lang *config.Language, rw rewrite.Rewriter, opts ...Option) (*Runner, error) {
	validator, err := validate.New(lang.ValidationRules)
	if err != nil {
		return nil, fmt.Errorf("failed to build validator for %s: %w", lang.Name, err)
	}

	mode := ModeExecute
	if lang.Mode == config.ModeAnalyze {
		mode = ModeAnalyze
	}

	r := &Runner{
		logger:         logger,
		lang:           lang,
		mode:           mode,
		timeout:        cfg.GetTimeout(),
		restoreTimeout: cfg.GetRestoreTimeout(),
		rewriter:       rw,
		validator:      validator,
		cmdRunner:      &sandbox.RealCommandRunner{},
		fs:             &sandbox.RealFileSystem{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Mode returns the runner's configured mode.
func (r *Runner) Mode() Mode {
	return r.mode
}

// Run processes one sample inside its prepared environment and returns
// the result. Failures never propagate as errors; every outcome is
// captured in the TestResult.
func (r *Runner) Run(ctx context.Context, s *sample.CodeSample, env *sandbox.Environment) sample.TestResult {
	if r.mode == ModeAnalyze {
		return r.analyze(s)
	}
	return r.execute(ctx, s, env)
}
