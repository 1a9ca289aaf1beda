// Package rewrite transforms extracted code samples into runnable
// standalone programs.
//
// The rewrite package applies a fixed-order pipeline of text-level
// substitutions: migration-comment stripping, indentation normalization,
// credential substitution, deprecated-symbol migration, blocking-call
// neutralization, mock-resource path injection, asset-URL replacement,
// missing-declaration injection, and entry-point wrapping. The pipeline
// order matters; later steps inspect the output of earlier ones. All
// substitutions are pure pattern rewrites with no semantic parsing.
//
// Usage:
//
//	rw, err := rewrite.ForDialect("python", "test_api_key", nil)
//	code, err := rw.Rewrite(&smpl, env)
package rewrite
