package runner

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/deepgram-devs/docs-sample-testing/config"
	"github.com/deepgram-devs/docs-sample-testing/rewrite"
	"github.com/deepgram-devs/docs-sample-testing/sample"
	"github.com/deepgram-devs/docs-sample-testing/sandbox"
)

// MockCommandRunner implements sandbox.CommandRunner for testing
type MockCommandRunner struct {
	stdout   string
	stderr   string
	exitCode int
	err      error

	// blockUntilCancel makes RunCommand wait for context cancellation,
	// simulating a hung subprocess.
	blockUntilCancel bool

	specs []sandbox.CommandSpec
}

func (m *MockCommandRunner) RunCommand(ctx context.Context, spec sandbox.CommandSpec) (string, string, int, error) {
	m.specs = append(m.specs, spec)
	if m.blockUntilCancel {
		<-ctx.Done()
		return "", "", 0, ctx.Err()
	}
	return m.stdout, m.stderr, m.exitCode, m.err
}

// MockFileSystem implements sandbox.FileSystem for testing
type MockFileSystem struct {
	writeFileErrors map[string]error
	writeFileData   map[string][]byte
}

func (m *MockFileSystem) MkdirTemp(dir, pattern string) (string, error) { return "/tmp/mock", nil }
func (m *MockFileSystem) MkdirAll(path string, _ os.FileMode) error     { return nil }

func (m *MockFileSystem) WriteFile(filename string, data []byte, _ os.FileMode) error {
	if err, exists := m.writeFileErrors[filename]; exists {
		return err
	}
	if m.writeFileData == nil {
		m.writeFileData = make(map[string][]byte)
	}
	m.writeFileData[filename] = data
	return nil
}

func (m *MockFileSystem) ReadFile(filename string) ([]byte, error) { return []byte{}, nil }
func (m *MockFileSystem) RemoveAll(path string) error              { return nil }
func (m *MockFileSystem) FileExists(path string) (bool, error)     { return false, nil }

// passthroughRewriter returns the sample text unchanged.
type passthroughRewriter struct{}

func (passthroughRewriter) Rewrite(s *sample.CodeSample, _ *sandbox.Environment) (string, error) {
	return s.Code, nil
}

func testConfig(timeoutSec int) *config.Config {
	return &config.Config{
		Execution: config.ExecutionConfig{
			TimeoutSec:        timeoutSec,
			RestoreTimeoutSec: timeoutSec,
		},
		Mocking: config.MockingConfig{APIKeyPlaceholder: "test_api_key"},
	}
}

func executeLanguage() *config.Language {
	return &config.Language{
		Name:        "csharp",
		Mode:        config.ModeExecute,
		ProgramFile: "Program.cs",
		RunCommand:  []string{"dotnet", "run"},
	}
}

func testEnv() *sandbox.Environment {
	return &sandbox.Environment{
		ID:  "env-1",
		Dir: "/tmp/mock",
		EnvVars: map[string]string{
			sandbox.EnvAPIKey: "test_api_key",
		},
	}
}

func newExecuteRunner(t *testing.T, cmd sandbox.CommandRunner, fs sandbox.FileSystem, lang *config.Language) *Runner {
	t.Helper()
	r, err := New(zaptest.NewLogger(t), testConfig(30), lang, passthroughRewriter{},
		WithCommandRunner(cmd), WithFileSystem(fs))
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	t.Run("ModeFromDescriptor", func(t *testing.T) {
		r := newExecuteRunner(t, &MockCommandRunner{}, &MockFileSystem{}, executeLanguage())
		assert.Equal(t, ModeExecute, r.Mode())

		lang := &config.Language{Name: "python", Mode: config.ModeAnalyze}
		a, err := New(zaptest.NewLogger(t), testConfig(30), lang, rewrite.NewPython("test_api_key"))
		require.NoError(t, err)
		assert.Equal(t, ModeAnalyze, a.Mode())
	})

	t.Run("BadValidationRuleFailsConstruction", func(t *testing.T) {
		lang := executeLanguage()
		lang.ValidationRules = []config.ValidationRule{{Name: "broken", Check: "[", Expected: true}}

		_, err := New(zaptest.NewLogger(t), testConfig(30), lang, passthroughRewriter{})
		require.Error(t, err)
	})
}

func TestExecute(t *testing.T) {
	s := &sample.CodeSample{
		FilePath:   "docs/page.md",
		LineNumber: 3,
		Code:       "Console.WriteLine(\"ok\");",
	}

	t.Run("Success", func(t *testing.T) {
		cmd := &MockCommandRunner{stdout: "✅ Code sample executed successfully\n"}
		fs := &MockFileSystem{}
		r := newExecuteRunner(t, cmd, fs, executeLanguage())

		result := r.Run(context.Background(), s, testEnv())
		assert.True(t, result.Success)
		assert.Contains(t, result.Stdout, "executed successfully")
		assert.Empty(t, result.ErrorMessage)
		assert.Contains(t, fs.writeFileData, "/tmp/mock/Program.cs")

		require.Len(t, cmd.specs, 1)
		assert.Equal(t, []string{"dotnet", "run"}, cmd.specs[0].Args)
		assert.Equal(t, "/tmp/mock", cmd.specs[0].Dir)
		assert.Equal(t, "test_api_key", cmd.specs[0].Env[sandbox.EnvAPIKey])
	})

	t.Run("NonzeroExit", func(t *testing.T) {
		cmd := &MockCommandRunner{stderr: "CS1002: ; expected", exitCode: 1}
		r := newExecuteRunner(t, cmd, &MockFileSystem{}, executeLanguage())

		result := r.Run(context.Background(), s, testEnv())
		assert.False(t, result.Success)
		assert.Contains(t, result.Stderr, "CS1002")
	})

	t.Run("Timeout", func(t *testing.T) {
		cmd := &MockCommandRunner{blockUntilCancel: true}
		lang := executeLanguage()
		r, err := New(zaptest.NewLogger(t), testConfig(1), lang, passthroughRewriter{},
			WithCommandRunner(cmd), WithFileSystem(&MockFileSystem{}))
		require.NoError(t, err)

		result := r.Run(context.Background(), s, testEnv())
		assert.False(t, result.Success)
		assert.Equal(t, TimeoutMessage, result.ErrorMessage)
	})

	t.Run("MaterializeFailure", func(t *testing.T) {
		fs := &MockFileSystem{
			writeFileErrors: map[string]error{"/tmp/mock/Program.cs": errors.New("readonly fs")},
		}
		r := newExecuteRunner(t, &MockCommandRunner{}, fs, executeLanguage())

		result := r.Run(context.Background(), s, testEnv())
		assert.False(t, result.Success)
		assert.Contains(t, result.ErrorMessage, "readonly fs")
	})

	t.Run("ProjectFilesMaterialized", func(t *testing.T) {
		lang := executeLanguage()
		lang.ProjectFiles = map[string]string{"TestProject.csproj": "<Project></Project>"}
		fs := &MockFileSystem{}
		r := newExecuteRunner(t, &MockCommandRunner{}, fs, lang)

		r.Run(context.Background(), s, testEnv())
		assert.Contains(t, fs.writeFileData, "/tmp/mock/TestProject.csproj")
	})

	t.Run("RestoreRunsBeforeProgram", func(t *testing.T) {
		lang := executeLanguage()
		lang.RestoreCommand = []string{"dotnet", "restore"}
		cmd := &MockCommandRunner{}
		r := newExecuteRunner(t, cmd, &MockFileSystem{}, lang)

		r.Run(context.Background(), s, testEnv())
		require.Len(t, cmd.specs, 2)
		assert.Equal(t, []string{"dotnet", "restore"}, cmd.specs[0].Args)
		assert.Equal(t, []string{"dotnet", "run"}, cmd.specs[1].Args)
	})

	t.Run("ValidationResultsMerged", func(t *testing.T) {
		lang := executeLanguage()
		lang.ValidationRules = []config.ValidationRule{
			{Name: "no_hardcoded_api_url", Check: `https://api\.deepgram\.com`, Expected: false},
		}
		r := newExecuteRunner(t, &MockCommandRunner{}, &MockFileSystem{}, lang)

		result := r.Run(context.Background(), s, testEnv())
		assert.True(t, result.ValidationResults["no_hardcoded_api_url"])
	})
}

func TestAnalyze(t *testing.T) {
	newAnalyzeRunner := func(t *testing.T) *Runner {
		t.Helper()
		lang := &config.Language{Name: "python", Mode: config.ModeAnalyze}
		r, err := New(zaptest.NewLogger(t), testConfig(30), lang, rewrite.NewPython("test_api_key"))
		require.NoError(t, err)
		return r
	}

	run := func(t *testing.T, code string) sample.TestResult {
		t.Helper()
		r := newAnalyzeRunner(t)
		return r.Run(context.Background(), &sample.CodeSample{Code: code}, nil)
	}

	t.Run("OutdatedImportIsBlocking", func(t *testing.T) {
		result := run(t, "from deepgram import Deepgram\ndeepgram = client")

		assert.False(t, result.Success)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, "Outdated SDK Import (v2/v3)", result.Findings[0].Issue)
		assert.True(t, result.Findings[0].Blocking)
		assert.True(t, result.ValidationResults["blocking_issues"])
		assert.Contains(t, result.Stdout, "prevent users from running this code")
	})

	t.Run("CleanSamplePasses", func(t *testing.T) {
		result := run(t, "from deepgram import DeepgramClient\nclient = DeepgramClient()")

		assert.True(t, result.Success)
		assert.Empty(t, result.Findings)
		assert.Equal(t, "No issues found - code looks good!", result.Stdout)
		assert.False(t, result.ValidationResults["blocking_issues"])
	})

	t.Run("PlaceholderIsAdvisory", func(t *testing.T) {
		result := run(t, "from deepgram import DeepgramClient\nclient = DeepgramClient(\"YOUR_API_KEY\")")

		assert.True(t, result.Success)
		require.Len(t, result.Findings, 1)
		assert.False(t, result.Findings[0].Blocking)
		assert.Contains(t, result.Stdout, "suggestion(s) to improve this example")
	})

	t.Run("AsyncClientWithoutAwaitIsBlocking", func(t *testing.T) {
		result := run(t, "from deepgram import AsyncDeepgramClient\nclient = AsyncDeepgramClient()\nclient.listen()")

		assert.False(t, result.Success)
		found := false
		for _, f := range result.Findings {
			if f.Issue == "Async Pattern Issue" {
				found = true
				assert.True(t, f.Blocking)
			}
		}
		assert.True(t, found)
	})

	t.Run("LegacyConstructorDetected", func(t *testing.T) {
		result := run(t, "from deepgram import DeepgramClient\ndg = Deepgram(\"abc\")")

		assert.False(t, result.Success)
		issues := make([]string, 0, len(result.Findings))
		for _, f := range result.Findings {
			issues = append(issues, f.Issue)
		}
		assert.Contains(t, issues, "Outdated Constructor (v2/v3)")
	})

	t.Run("StderrAlwaysEmpty", func(t *testing.T) {
		result := run(t, "from deepgram import Deepgram")
		assert.Empty(t, result.Stderr)
	})

	t.Run("MixedClientsAdvisory", func(t *testing.T) {
		code := strings.Join([]string{
			"from deepgram import DeepgramClient, AsyncDeepgramClient",
			"sync_client = DeepgramClient()",
			"async_client = AsyncDeepgramClient()",
			"result = await async_client.listen()",
		}, "\n")
		result := run(t, code)

		found := false
		for _, f := range result.Findings {
			if f.Issue == "Mixed Client Types" {
				found = true
				assert.False(t, f.Blocking)
			}
		}
		assert.True(t, found)
	})
}
