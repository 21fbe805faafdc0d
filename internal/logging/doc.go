// Package logging wraps log/slog construction for the pipeline.
//
// Loggers are built from Options (level, format, output paths). The console
// format is the default when stderr is a terminal; otherwise output is JSON
// so CI log scrapers get structured events. File outputs are appended and
// their parent directories created on demand.
package logging
