package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/ehrlich-b/tvdump/internal/columnar"
	"github.com/ehrlich-b/tvdump/internal/journal"
	"github.com/ehrlich-b/tvdump/internal/remote"
	"github.com/ehrlich-b/tvdump/internal/stamp"
)

const journalStamp = "journal"

// JournalExporter dumps journal entries to one parquet file per day.
type JournalExporter struct {
	Source *journal.Client
	Store  stamp.Store

	// Clock decides which partition is "today". Default: the real clock.
	Clock clockwork.Clock

	// OutDir holds the per-day parquet files, e.g. <data>/journal.
	OutDir string

	// Remote, if set, mirrors each written file under journal/<date>.parquet.
	Remote remote.Uploader

	// Out receives progress lines. Default: os.Stdout.
	Out io.Writer

	Log *slog.Logger
}

func (e *JournalExporter) clock() clockwork.Clock {
	if e.Clock != nil {
		return e.Clock
	}
	return clockwork.NewRealClock()
}

func (e *JournalExporter) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

func (e *JournalExporter) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

// Run performs one export pass.
func (e *JournalExporter) Run(ctx context.Context) (*Result, error) {
	log := e.log()

	current, err := e.Source.Cursor(ctx)
	if errors.Is(err, journal.ErrUnavailable) {
		return &Result{Status: StatusNoSource}, nil
	}
	if err != nil {
		return nil, err
	}

	persisted, err := e.Store.Load(journalStamp)
	if err != nil && !errors.Is(err, stamp.ErrNoStamp) {
		return nil, err
	}

	if !stamp.ShouldRun(current, persisted, e.outputExists()) {
		log.Debug("journal unchanged", "cursor", current)
		return &Result{Status: StatusUnchanged}, nil
	}

	lines, err := e.Source.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var records []journal.Record
	dropped := 0
	for _, line := range lines {
		rec, err := journal.Decode(line)
		if err != nil {
			// One bad line never aborts the batch.
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if dropped > 0 {
		log.Debug("dropped undecodable entries", "count", dropped)
	}

	today := e.clock().Now().Format(journal.DateFormat)
	result := &Result{Status: StatusExported}

	for _, part := range Plan(records, today) {
		outPath := filepath.Join(e.OutDir, part.Key+".parquet")
		if !part.Open {
			if _, err := os.Stat(outPath); err == nil {
				// Closed partitions are write-once.
				continue
			}
		}

		n, err := columnar.WriteFile(outPath, part.Records)
		if err != nil {
			return nil, fmt.Errorf("write partition %s: %w", part.Key, err)
		}
		if e.Remote != nil {
			key := path.Join("journal", part.Key+".parquet")
			if err := e.Remote.Upload(ctx, key, outPath); err != nil {
				return nil, fmt.Errorf("mirror partition %s: %w", part.Key, err)
			}
		}

		fmt.Fprintf(e.out(), "Wrote %s (%d rows)\n", outPath, n)
		result.Written = append(result.Written, outPath)
		result.Rows += n
	}

	if err := e.Store.Commit(journalStamp, current); err != nil {
		return nil, err
	}
	return result, nil
}

// outputExists reports whether the output dir holds at least one partition
// file. An emptied tree forces a full re-export even with an unchanged
// cursor.
func (e *JournalExporter) outputExists() bool {
	entries, err := os.ReadDir(e.OutDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".parquet") {
			return true
		}
	}
	return false
}
