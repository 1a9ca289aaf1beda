// Package harness drives the per-sample testing loop for one language.
//
// The harness wires the extractor, sandbox manager, and runner into a
// strictly sequential pipeline: extract samples, then for each one
// prepare an exclusive environment, run or analyze it, and tear the
// environment down on every exit path. Per-sample failures are converted
// into failed results and never halt the batch.
package harness

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deepgram-devs/docs-sample-testing/config"
	"github.com/deepgram-devs/docs-sample-testing/extract"
	"github.com/deepgram-devs/docs-sample-testing/rewrite"
	"github.com/deepgram-devs/docs-sample-testing/runner"
	"github.com/deepgram-devs/docs-sample-testing/sample"
	"github.com/deepgram-devs/docs-sample-testing/sandbox"
)

// Harness runs the full pipeline for one language variant.
type Harness struct {
	logger    *zap.Logger
	extractor *extract.Extractor
	manager   *sandbox.Manager
	runner    *runner.Runner
}

// New assembles a harness from pre-built components.
func New(logger *zap.Logger, ex *extract.Extractor, mgr *sandbox.Manager, run *runner.Runner) *Harness {
	return &Harness{
		logger:    logger,
		extractor: ex,
		manager:   mgr,
		runner:    run,
	}
}

// ForLanguage builds the complete pipeline for a language descriptor:
// dialect, extractor, rewriter, runner, and sandbox manager.
func ForLanguage(logger *zap.Logger, cfg *config.Config, lang *config.Language) (*Harness, error) {
	dialect, err := extract.ForName(lang.Name)
	if err != nil {
		return nil, err
	}

	rw, err := rewrite.ForDialect(lang.Name, cfg.Mocking.APIKeyPlaceholder, lang)
	if err != nil {
		return nil, err
	}

	run, err := runner.New(logger, cfg, lang, rw)
	if err != nil {
		return nil, err
	}

	return New(
		logger,
		extract.New(dialect, logger),
		sandbox.NewManager(logger, cfg.Mocking.APIKeyPlaceholder),
		run,
	), nil
}

// Extractor returns the harness's sample extractor.
func (h *Harness) Extractor() *extract.Extractor {
	return h.extractor
}

// RunCorpus extracts all samples under docsPath and processes them
// sequentially in extraction order. The returned slice mixes successes
// and failures; only a completely inaccessible corpus yields an error.
func (h *Harness) RunCorpus(ctx context.Context, docsPath string) ([]sample.TestResult, error) {
	samples, err := h.extractor.FromDir(docsPath)
	if err != nil {
		return nil, fmt.Errorf("sample extraction failed: %w", err)
	}

	var results []sample.TestResult
	for i := range samples {
		s := &samples[i]

		if s.ShouldSkip(h.extractor.Dialect().CommentPrefixes) {
			h.logger.Debug("skipping trivial sample",
				zap.String("file", s.FilePath),
				zap.Int("line", s.LineNumber))
			continue
		}

		results = append(results, h.RunSample(ctx, s))
	}

	return results, nil
}

// RunSample processes one sample inside a fresh environment. The
// environment is cleaned up on every exit path; setup failures become
// failed results rather than errors.
func (h *Harness) RunSample(ctx context.Context, s *sample.CodeSample) sample.TestResult {
	runID := uuid.NewString()

	env, err := h.manager.Prepare(s)
	if err != nil {
		h.logger.Warn("environment setup failed",
			zap.String("run_id", runID),
			zap.String("file", s.FilePath),
			zap.Int("line", s.LineNumber),
			zap.Error(err))
		return sample.TestResult{
			Sample:            s,
			Success:           false,
			ErrorMessage:      err.Error(),
			ValidationResults: map[string]bool{},
		}
	}
	defer h.manager.Cleanup(env)

	result := h.runner.Run(ctx, s, env)

	h.logger.Info("sample processed",
		zap.String("run_id", runID),
		zap.String("file", s.FilePath),
		zap.Int("line", s.LineNumber),
		zap.String("type", string(s.SampleType)),
		zap.Bool("success", result.Success))

	return result
}
