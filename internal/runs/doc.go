// Package runs owns the on-disk run bookkeeping shared by the collector and
// the compiler: run directory naming, the per-run manifest, the latest-run
// pointer, and the fallback logic that resolves which run to compile.
package runs
