// Package stamp persists export fingerprints.
//
// A fingerprint is an opaque token summarizing upstream state: the journal
// cursor of the most recent entry, or a hash of the lockfile contents.
// Equality of current vs. persisted fingerprint is the sole no-op basis;
// any difference, including a source reset, counts as changed.
package stamp

import "errors"

// ErrNoStamp is returned when no fingerprint has been persisted yet.
var ErrNoStamp = errors.New("no stamp")

// Store persists one fingerprint per exporter, keyed by name. Commit must
// be the last operation of a successful run: an interrupted run leaves the
// stamp stale and the next run simply redoes the pass.
type Store interface {
	Load(name string) (string, error)
	Commit(name, fingerprint string) error
	Close() error
}

// ShouldRun reports whether an export pass is needed: the fingerprint
// changed, or the output is missing and must be rebuilt (a manually deleted
// output tree forces a full re-export even with an unchanged fingerprint).
func ShouldRun(current, persisted string, outputExists bool) bool {
	return current != persisted || !outputExists
}
