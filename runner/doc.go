// Package runner executes or statically analyzes rewritten code samples.
//
// The runner operates in one of two mutually exclusive modes selected per
// language variant. In execute mode it materializes the rewritten source
// as a standalone program inside the sandbox directory, optionally
// restores dependencies, and runs it as a subprocess with mocked
// environment variables under a hard wall-clock timeout. In analyze mode
// it never runs anything; the raw sample text is matched against a fixed
// catalogue of known problematic patterns, emitting structured findings
// tagged blocking or advisory.
//
// Success semantics: execute mode succeeds iff the subprocess exits zero;
// analyze mode succeeds iff no blocking finding was detected.
package runner
