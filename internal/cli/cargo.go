package cli

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/tvdump/internal/cargo"
	"github.com/ehrlich-b/tvdump/internal/export"
)

func cargoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cargo",
		Short: "Dump cargo dependencies to parquet",
		Long: `Dump cargo dependencies to parquet.

Reads cargo metadata for the workspace and writes one row per package
(name, version, direct dependency count, first target kind) to
<data>/cargo.parquet, replacing the prior snapshot. The pass is skipped
when Cargo.lock has not changed since the last run.`,
		Args: cobra.NoArgs,
		RunE: runCargo,
	}
}

func runCargo(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	exporter := &export.CargoExporter{
		Source:  &cargo.Client{Dir: env.cfg.Cargo.Dir},
		Store:   env.store,
		OutPath: filepath.Join(env.dir, "cargo.parquet"),
		Remote:  env.up,
		Out:     cmd.OutOrStdout(),
		Log:     env.log,
	}

	result, err := exporter.Run(cmd.Context())
	if err != nil {
		return err
	}
	report(env.log, "cargo", result)
	return nil
}

// report logs the non-write outcomes; written files were already printed as
// progress lines.
func report(log *slog.Logger, source string, result *export.Result) {
	switch result.Status {
	case export.StatusNoSource:
		log.Info("source unavailable, skipping", "source", source)
	case export.StatusUnchanged:
		log.Debug("source unchanged, nothing to do", "source", source)
	}
}
