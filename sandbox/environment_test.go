package sandbox

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/deepgram-devs/docs-sample-testing/sample"
)

// MockFileSystem implements FileSystem for testing
type MockFileSystem struct {
	mkdirTempResult string
	mkdirTempErr    error
	writeFileErrors map[string]error
	writeFileData   map[string][]byte
	removedPaths    []string
	removeAllErr    error
}

func (m *MockFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	if m.mkdirTempErr != nil {
		return "", m.mkdirTempErr
	}
	if m.mkdirTempResult != "" {
		return m.mkdirTempResult, nil
	}
	return "/tmp/docstest-mock", nil
}

func (m *MockFileSystem) MkdirAll(path string, _ os.FileMode) error {
	return nil
}

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

func (m *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	if data, exists := m.writeFileData[filename]; exists {
		return data, nil
	}
	return []byte{}, nil
}

func (m *MockFileSystem) RemoveAll(path string) error {
	if m.removeAllErr != nil {
		return m.removeAllErr
	}
	m.removedPaths = append(m.removedPaths, path)
	return nil
}

func (m *MockFileSystem) FileExists(path string) (bool, error) {
	_, exists := m.writeFileData[path]
	return exists, nil
}

func TestPrepare(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("BasicEnvironment", func(t *testing.T) {
		fs := &MockFileSystem{}
		m := NewManager(logger, "test_api_key", WithFileSystem(fs))

		env, err := m.Prepare(&sample.CodeSample{Code: "print(1)"})
		require.NoError(t, err)
		assert.NotEmpty(t, env.ID)
		assert.Equal(t, "/tmp/docstest-mock", env.Dir)
		assert.Equal(t, "test_api_key", env.EnvVars[EnvAPIKey])
		assert.Equal(t, "test_api_key", env.EnvVars[EnvToken])
		assert.Empty(t, env.MockAudioPath)
	})

	t.Run("UniqueIDs", func(t *testing.T) {
		fs := &MockFileSystem{}
		m := NewManager(logger, "test_api_key", WithFileSystem(fs))

		a, err := m.Prepare(&sample.CodeSample{})
		require.NoError(t, err)
		b, err := m.Prepare(&sample.CodeSample{})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("MockAudioWhenRequired", func(t *testing.T) {
		fs := &MockFileSystem{}
		m := NewManager(logger, "test_api_key", WithFileSystem(fs))

		env, err := m.Prepare(&sample.CodeSample{RequiresAudioFile: true})
		require.NoError(t, err)

		expected := filepath.Join("/tmp/docstest-mock", MockAudioFileName)
		assert.Equal(t, expected, env.MockAudioPath)
		assert.Contains(t, env.MockFiles, expected)
		assert.Contains(t, fs.writeFileData, expected)
	})

	t.Run("MkdirTempFailure", func(t *testing.T) {
		fs := &MockFileSystem{mkdirTempErr: errors.New("disk full")}
		m := NewManager(logger, "test_api_key", WithFileSystem(fs))

		_, err := m.Prepare(&sample.CodeSample{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create sandbox dir")
	})

	t.Run("AudioWriteFailureCleansUp", func(t *testing.T) {
		audioPath := filepath.Join("/tmp/docstest-mock", MockAudioFileName)
		fs := &MockFileSystem{
			writeFileErrors: map[string]error{audioPath: errors.New("readonly fs")},
		}
		m := NewManager(logger, "test_api_key", WithFileSystem(fs))

		_, err := m.Prepare(&sample.CodeSample{RequiresAudioFile: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create mock audio file")
		assert.Equal(t, []string{"/tmp/docstest-mock"}, fs.removedPaths)
	})
}

func TestCleanup(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("RemovesDirExactlyOnce", func(t *testing.T) {
		fs := &MockFileSystem{}
		m := NewManager(logger, "test_api_key", WithFileSystem(fs))

		env, err := m.Prepare(&sample.CodeSample{})
		require.NoError(t, err)

		m.Cleanup(env)
		m.Cleanup(env)
		assert.Equal(t, []string{"/tmp/docstest-mock"}, fs.removedPaths)
		assert.Empty(t, env.Dir)
	})

	t.Run("NilEnvironment", func(t *testing.T) {
		m := NewManager(logger, "test_api_key", WithFileSystem(&MockFileSystem{}))
		m.Cleanup(nil)
	})

	t.Run("FailureIsLoggedNotPropagated", func(t *testing.T) {
		fs := &MockFileSystem{removeAllErr: errors.New("busy")}
		m := NewManager(logger, "test_api_key", WithFileSystem(fs))

		env := &Environment{ID: "x", Dir: "/tmp/docstest-mock"}
		m.Cleanup(env)
		// Dir is kept so a later retry is still possible.
		assert.Equal(t, "/tmp/docstest-mock", env.Dir)
	})
}

func TestPrepareWithRealFileSystem(t *testing.T) {
	logger := zaptest.NewLogger(t)
	m := NewManager(logger, "test_api_key")

	env, err := m.Prepare(&sample.CodeSample{RequiresAudioFile: true})
	require.NoError(t, err)
	defer m.Cleanup(env)

	info, err := os.Stat(env.MockAudioPath)
	require.NoError(t, err)
	assert.Equal(t, int64(44), info.Size())

	dir := env.Dir
	m.Cleanup(env)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestMockWAV(t *testing.T) {
	data := mockWAV()

	require.Len(t, data, 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))

	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))     // PCM
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))     // mono
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28])) // sample rate
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))    // bit depth
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[40:44]))     // empty payload
}
