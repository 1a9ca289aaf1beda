// Package config provides application configuration management.
//
// The config package handles loading and validation of the framework-wide
// configuration from YAML files (execution timeout, mock credential
// placeholder, documentation corpus location, priority levels) and of
// per-language descriptors that define how each language variant's samples
// are validated and run.
//
// Usage:
//
//	cfg, err := config.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lang, err := config.LoadLanguage("languages/python.yaml")
package config
