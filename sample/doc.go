// Package sample defines the core data model for documentation testing.
//
// The sample package holds the records that flow through the pipeline:
// CodeSample (one extracted code block with positional provenance and
// derived classification), TestResult (the outcome of executing or
// analyzing one sample), and Finding (a structured static observation
// about a sample, tagged blocking or advisory).
//
// Samples are immutable once created by the extractor; results are
// immutable once produced by the runner.
package sample
