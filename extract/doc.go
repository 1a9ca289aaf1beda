// Package extract finds code samples embedded in documentation pages.
//
// The extract package scans document text for fenced code blocks in a
// target dialect, filters out trivial, comment-only, or cross-contaminated
// blocks, and produces classified sample.CodeSample records with positional
// metadata. Extraction is line-anchored pattern matching over raw text; a
// block's line number is the count of newlines preceding its fence plus one.
//
// Dialects are registered explicitly in a registry keyed by language name
// rather than discovered dynamically.
//
// Usage:
//
//	dialect, err := extract.ForName("python")
//	ex := extract.New(dialect, logger)
//	samples, err := ex.FromDir("docs/fern/pages")
package extract
