// Package preflight verifies the environment before a run: writable
// directories and the external binaries the pipeline shells out to.
package preflight
