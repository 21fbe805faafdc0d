// Package launcher runs the UI test runner inside a display controller
// session. It owns the merged child environment, exit code propagation, and
// the guarantee that controller teardown happens exactly once no matter how
// the process exits.
package launcher
