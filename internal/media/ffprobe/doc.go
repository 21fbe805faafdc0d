// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The pipeline only needs durations and frame geometry, so the types here
// cover that slice of ffprobe's schema. Inspect shells out to the configured
// binary; callers treat failures as best-effort (log and continue) since the
// compiler can synthesize its output without probe data.
package ffprobe
