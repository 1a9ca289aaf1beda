// Package report aggregates per-sample results into run-level reports.
//
// A Report carries the summary counters, a by-type breakdown, and the
// flat list of outcomes. It renders to machine-readable JSON and to a
// human-facing Markdown document that groups findings by issue type and
// derives concrete next steps from what was found. The Console type
// handles interactive progress output.
//
// Usage:
//
//	rep := report.Build("python", results)
//	jsonPath, mdPath, err := rep.Save("test-results")
package report
