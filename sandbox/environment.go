package sandbox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deepgram-devs/docs-sample-testing/sample"
)

// MockAudioFileName is the name of the synthesized audio asset inside an
// environment's directory.
const MockAudioFileName = "test_audio.wav"

// Credential environment variables mocked for every execution.
const (
	EnvAPIKey = "DEEPGRAM_API_KEY"
	EnvToken  = "DEEPGRAM_TOKEN"
)

// Environment represents one disposable sandbox instance. The directory
// and everything under it is exclusively owned by a single in-flight
// sample execution.
type Environment struct {
	ID            string
	Dir           string
	MockFiles     []string
	MockAudioPath string
	EnvVars       map[string]string
}

// ManagerOption defines a functional option for Manager.
type ManagerOption func(*Manager)

// WithFileSystem sets the FileSystem used by the Manager.
func WithFileSystem(fs FileSystem) ManagerOption {
	return func(m *Manager) {
		m.fs = fs
	}
}

// Manager prepares and tears down sandbox environments.
type Manager struct {
	logger      *zap.Logger
	placeholder string
	fs          FileSystem
}

// NewManager creates a Manager. The placeholder is the mocked credential
// value exposed through the environment variables.
func NewManager(logger *zap.Logger, placeholder string, opts ...ManagerOption) *Manager {
	m := &Manager{
		logger:      logger,
		placeholder: placeholder,
		fs:          &RealFileSystem{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Prepare allocates a fresh uniquely named temporary directory for the
// sample, synthesizes a mock audio asset when the sample needs one, and
// builds the mocked credential environment variable mapping.
func (m *Manager) Prepare(s *sample.CodeSample) (*Environment, error) {
	dir, err := m.fs.MkdirTemp("", "docstest-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox dir: %w", err)
	}

	env := &Environment{
		ID:  uuid.NewString(),
		Dir: dir,
		EnvVars: map[string]string{
			EnvAPIKey: m.placeholder,
			EnvToken:  m.placeholder,
		},
	}

	if s.RequiresAudioFile {
		audioPath := filepath.Join(dir, MockAudioFileName)
		if writeErr := m.fs.WriteFile(audioPath, mockWAV(), FilePermission); writeErr != nil {
			// Undo the allocation so a failed prepare never leaks a dir.
			m.Cleanup(env)
			return nil, fmt.Errorf("failed to create mock audio file: %w", writeErr)
		}
		env.MockFiles = append(env.MockFiles, audioPath)
		env.MockAudioPath = audioPath
	}

	m.logger.Debug("sandbox environment prepared",
		zap.String("env_id", env.ID),
		zap.String("dir", env.Dir),
		zap.Bool("mock_audio", env.MockAudioPath != ""))

	return env, nil
}

// Cleanup recursively deletes the environment's directory. Deletion
// failures are logged as warnings and never propagated; cleanup must not
// fail the overall run.
func (m *Manager) Cleanup(env *Environment) {
	if env == nil || env.Dir == "" {
		return
	}

	if err := m.fs.RemoveAll(env.Dir); err != nil {
		m.logger.Warn("failed to clean up sandbox dir",
			zap.String("env_id", env.ID),
			zap.String("dir", env.Dir),
			zap.Error(err))
		return
	}

	// Guard against a double delete of the same environment.
	env.Dir = ""
}

// mockWAV builds a minimal valid WAV file: a 44-byte single-channel
// 16-bit 44.1kHz PCM header with a zero-length data chunk.
func mockWAV() []byte {
	var buf bytes.Buffer

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(44-8)) //nolint:errcheck // bytes.Buffer never fails
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))    //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM format
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // mono
	binary.Write(&buf, binary.LittleEndian, uint32(44100)) // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(88200)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))     // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))    // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // empty payload

	return buf.Bytes()
}
