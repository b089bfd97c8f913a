package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ehrlich-b/tvdump/internal/cargo"
	"github.com/ehrlich-b/tvdump/internal/columnar"
	"github.com/ehrlich-b/tvdump/internal/remote"
	"github.com/ehrlich-b/tvdump/internal/stamp"
)

const cargoStamp = "cargo"

// CargoExporter dumps the cargo dependency table to a single parquet file.
// It is the degenerate single-partition case: the snapshot is always open
// and fully replaced whenever the lockfile fingerprint changes.
type CargoExporter struct {
	Source *cargo.Client
	Store  stamp.Store

	// OutPath is the snapshot file, e.g. <data>/cargo.parquet.
	OutPath string

	// Remote, if set, mirrors the snapshot under cargo.parquet.
	Remote remote.Uploader

	// Out receives progress lines. Default: os.Stdout.
	Out io.Writer

	Log *slog.Logger
}

func (e *CargoExporter) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

func (e *CargoExporter) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

// Run performs one export pass.
func (e *CargoExporter) Run(ctx context.Context) (*Result, error) {
	current, err := e.Source.LockFingerprint()
	if errors.Is(err, cargo.ErrNoLockfile) {
		return &Result{Status: StatusNoSource}, nil
	}
	if err != nil {
		return nil, err
	}

	persisted, err := e.Store.Load(cargoStamp)
	if err != nil && !errors.Is(err, stamp.ErrNoStamp) {
		return nil, err
	}

	_, statErr := os.Stat(e.OutPath)
	if !stamp.ShouldRun(current, persisted, statErr == nil) {
		e.log().Debug("lockfile unchanged", "fingerprint", current)
		return &Result{Status: StatusUnchanged}, nil
	}

	rows, err := e.Source.Packages(ctx)
	if err != nil {
		return nil, err
	}

	n, err := columnar.WriteFile(e.OutPath, rows)
	if err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	if e.Remote != nil {
		if err := e.Remote.Upload(ctx, filepath.Base(e.OutPath), e.OutPath); err != nil {
			return nil, fmt.Errorf("mirror snapshot: %w", err)
		}
	}

	fmt.Fprintf(e.out(), "Wrote %s (%d packages)\n", e.OutPath, n)

	if err := e.Store.Commit(cargoStamp, current); err != nil {
		return nil, err
	}
	return &Result{
		Status:  StatusExported,
		Written: []string{e.OutPath},
		Rows:    n,
	}, nil
}
