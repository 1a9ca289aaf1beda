// Package cli defines the docstest command-line interface.
//
// The root command carries two subcommands: test runs the full
// extract/rewrite/execute pipeline over a documentation corpus and
// writes per-language reports, and analyze checks a single snippet
// against the known-issue catalogue.
package cli
