// Package collector turns the test runner's raw output tree into a flat,
// manifest-described run directory.
//
// Collection is deliberately tolerant: a missing raw root yields an empty
// result, a source file vanishing mid-copy is skipped, and a failed pointer
// refresh is only a warning. The one thing it is strict about is manifest
// integrity — every entry's copied file passed a verified copy before the
// manifest was written.
package collector
