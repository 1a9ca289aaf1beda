package runner

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/deepgram-devs/docs-sample-testing/sample"
	"github.com/deepgram-devs/docs-sample-testing/sandbox"
)

// execute materializes the rewritten sample as a standalone program and
// runs it as a subprocess with the mocked environment and a hard
// wall-clock timeout. Success means exit code zero.
func (r *Runner) execute(ctx context.Context, s *sample.CodeSample, env *sandbox.Environment) sample.TestResult {
	start := time.Now()

	fail := func(msg string) sample.TestResult {
		return sample.TestResult{
			Sample:            s,
			Success:           false,
			ExecutionTime:     time.Since(start),
			ErrorMessage:      msg,
			ValidationResults: map[string]bool{},
		}
	}

	code, err := r.rewriter.Rewrite(s, env)
	if err != nil {
		return fail(err.Error())
	}

	if err := r.materialize(env.Dir, code); err != nil {
		return fail(err.Error())
	}

	r.restoreDependencies(ctx, env)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stdout, stderr, exitCode, runErr := r.cmdRunner.RunCommand(runCtx, sandbox.CommandSpec{
		Args: r.lang.RunCommand,
		Dir:  env.Dir,
		Env:  env.EnvVars,
	})

	if runCtx.Err() == context.DeadlineExceeded {
		return fail(TimeoutMessage)
	}
	if runErr != nil {
		return fail(runErr.Error())
	}

	r.logger.Debug("sample executed",
		zap.String("file", s.FilePath),
		zap.Int("line", s.LineNumber),
		zap.Int("exit_code", exitCode))

	return sample.TestResult{
		Sample:            s,
		Success:           exitCode == 0,
		ExecutionTime:     time.Since(start),
		Stdout:            stdout,
		Stderr:            stderr,
		ValidationResults: r.validator.Validate(s.Code),
	}
}

// materialize writes the program file and any project descriptor files
// (e.g. a minimal .csproj for compiled targets) into the sandbox dir.
func (r *Runner) materialize(dir, code string) error {
	for name, content := range r.lang.ProjectFiles {
		if err := r.fs.WriteFile(filepath.Join(dir, name), []byte(content), sandbox.FilePermission); err != nil {
			return err
		}
	}
	return r.fs.WriteFile(filepath.Join(dir, r.lang.ProgramFile), []byte(code), sandbox.FilePermission)
}

// restoreDependencies runs the language's restore command, if any, as a
// best-effort step. Its failures and timeouts are logged and tolerated;
// the sample still gets its execution attempt.
func (r *Runner) restoreDependencies(ctx context.Context, env *sandbox.Environment) {
	if len(r.lang.RestoreCommand) == 0 {
		return
	}

	restoreCtx, cancel := context.WithTimeout(ctx, r.restoreTimeout)
	defer cancel()

	_, stderr, exitCode, err := r.cmdRunner.RunCommand(restoreCtx, sandbox.CommandSpec{
		Args: r.lang.RestoreCommand,
		Dir:  env.Dir,
		Env:  env.EnvVars,
	})

	switch {
	case restoreCtx.Err() == context.DeadlineExceeded:
		r.logger.Warn("dependency restore timed out", zap.Strings("command", r.lang.RestoreCommand))
	case err != nil:
		r.logger.Warn("dependency restore failed", zap.Error(err))
	case exitCode != 0:
		r.logger.Warn("dependency restore exited nonzero",
			zap.Int("exit_code", exitCode),
			zap.String("stderr", stderr))
	}
}
