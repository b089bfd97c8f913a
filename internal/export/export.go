// Package export implements the fingerprint-gated parquet export pipeline.
//
// Both exporters follow the same one-shot pass: probe the source
// fingerprint, compare it to the persisted stamp, and stop if nothing
// changed and the output is present. Otherwise read the source in full,
// write the eligible output files, and commit the new stamp last. The
// commit ordering is the central correctness property: a run killed
// mid-write leaves a stale stamp, and the next run redoes the full pass
// (cheap for closed partitions, whose files already exist and are skipped).
package export

// Status classifies how a run ended.
type Status int

const (
	// StatusExported means the pass ran; Written lists the files.
	// A pass with zero eligible partitions is still StatusExported.
	StatusExported Status = iota

	// StatusUnchanged means the fingerprint matched the stamp and the
	// output exists; no fetch happened at all.
	StatusUnchanged

	// StatusNoSource means the upstream descriptor or probe is missing on
	// this system. Distinguishable from StatusUnchanged, but not an error.
	StatusNoSource
)

func (s Status) String() string {
	switch s {
	case StatusExported:
		return "exported"
	case StatusUnchanged:
		return "unchanged"
	case StatusNoSource:
		return "no source"
	default:
		return "unknown"
	}
}

// Result reports what a run did.
type Result struct {
	Status  Status
	Written []string // paths written, in write order
	Rows    int      // total rows across written files
}
