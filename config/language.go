package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Runner mode constants for language descriptors.
const (
	ModeExecute = "execute"
	ModeAnalyze = "analyze"
)

// Language describes one language-variant pipeline: how its samples are
// fenced in documentation, how they are validated, and how the rewritten
// program is materialized and run.
type Language struct {
	Name string `yaml:"name"`

	// Mode selects the runner behavior: "execute" runs the rewritten
	// program as a subprocess, "analyze" matches the raw text against the
	// known-issue catalogue without running anything.
	Mode string `yaml:"mode"`

	// ValidationRules are pattern checks applied to the raw sample text.
	ValidationRules []ValidationRule `yaml:"validation_rules"`

	// ProgramFile is the filename the rewritten source is written to
	// inside the sandbox directory, e.g. "main.py" or "Program.cs".
	ProgramFile string `yaml:"program_file"`

	// RunCommand is the argument vector that executes the program.
	RunCommand []string `yaml:"run_command"`

	// RestoreCommand optionally restores dependencies before the run
	// (e.g. ["dotnet", "restore"]). Its timeout is tolerated.
	RestoreCommand []string `yaml:"restore_command"`

	// ProjectFiles maps extra file names to their contents, materialized
	// alongside the program (e.g. a minimal .csproj descriptor).
	ProjectFiles map[string]string `yaml:"project_files"`

	// RequiredDeclarations are import/using lines injected when absent.
	RequiredDeclarations []string `yaml:"required_declarations"`
}

// ValidationRule is one named pattern check. Expected=true means the
// pattern must be present for the rule to pass; Expected=false means its
// presence is the failure.
type ValidationRule struct {
	Name     string `yaml:"name"`
	Check    string `yaml:"check"`
	Expected bool   `yaml:"expected"`
}

// validate ensures a language descriptor is usable.
func (l *Language) validate() error {
	if l.Name == "" {
		return fmt.Errorf("language name must not be empty")
	}
	if l.Mode != ModeExecute && l.Mode != ModeAnalyze {
		return fmt.Errorf("invalid mode for %s: %q, must be 'execute' or 'analyze'", l.Name, l.Mode)
	}
	if l.Mode == ModeExecute {
		if l.ProgramFile == "" {
			return fmt.Errorf("language %s: program_file is required in execute mode", l.Name)
		}
		if len(l.RunCommand) == 0 {
			return fmt.Errorf("language %s: run_command is required in execute mode", l.Name)
		}
	}
	return nil
}

// LoadLanguage reads one language descriptor from a YAML file.
func LoadLanguage(path string) (*Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read language config %s: %w", path, err)
	}

	var lang Language
	if err := yaml.Unmarshal(data, &lang); err != nil {
		return nil, fmt.Errorf("failed to parse language config %s: %w", path, err)
	}
	if lang.Name == "" {
		lang.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := lang.validate(); err != nil {
		return nil, err
	}

	return &lang, nil
}

// FindLanguage loads the descriptor for name from dir, accepting either
// the .yaml or .yml extension.
func FindLanguage(dir, name string) (*Language, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadLanguage(path)
		}
	}
	return nil, fmt.Errorf("no language descriptor for %q under %s", name, dir)
}

// DiscoverLanguages lists the language names that have descriptor files
// under dir, sorted for deterministic iteration.
func DiscoverLanguages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read languages dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
