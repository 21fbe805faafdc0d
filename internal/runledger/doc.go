// Package runledger keeps a small SQLite history of collector runs.
//
// The ledger is an index, never a source of truth: the manifest and pointer
// files on disk decide everything, and any ledger failure is demoted to a
// warning by callers.
package runledger
