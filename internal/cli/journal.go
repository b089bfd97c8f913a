package cli

import (
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/ehrlich-b/tvdump/internal/export"
	"github.com/ehrlich-b/tvdump/internal/journal"
)

func journalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "Dump journal logs to parquet, one file per day",
		Long: `Dump journal logs to parquet, one file per day.

Reads the full journal via journalctl and writes one parquet file per
calendar date under <data>/journal. Past dates are written once and never
touched again; today's file is rewritten on every run. The whole pass is
skipped when the journal cursor has not moved since the last run.`,
		Args: cobra.NoArgs,
		RunE: runJournal,
	}
}

func runJournal(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	exporter := &export.JournalExporter{
		Source: &journal.Client{Binary: env.cfg.Journal.Binary},
		Store:  env.store,
		Clock:  clockwork.NewRealClock(),
		OutDir: filepath.Join(env.dir, "journal"),
		Remote: env.up,
		Out:    cmd.OutOrStdout(),
		Log:    env.log,
	}

	result, err := exporter.Run(cmd.Context())
	if err != nil {
		return err
	}
	report(env.log, "journal", result)
	return nil
}
