// Package scorecard defines the canonical hole-indexed scoring record shared by
// the form and HTML paths.
package scorecard
