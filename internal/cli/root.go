// Package cli implements the tvdump commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/tvdump/internal/config"
	"github.com/ehrlich-b/tvdump/internal/remote"
	"github.com/ehrlich-b/tvdump/internal/stamp"
	"github.com/ehrlich-b/tvdump/internal/version"
)

// Root builds the tvdump command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:          "tvdump",
		Short:        "Dump journal logs and cargo metadata to parquet",
		Version:      version.Version,
		SilenceUsage: true,
	}
	root.AddCommand(
		journalCmd(),
		cargoCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tvdump version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
}

// dataDir resolves the output root: $TVDUMP_DATA_DIR, else ~/.tv.
func dataDir() string {
	if dir := os.Getenv("TVDUMP_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tv"
	}
	return filepath.Join(home, ".tv")
}

// runEnv holds everything both exporter commands need.
type runEnv struct {
	cfg   *config.Config
	dir   string
	store stamp.Store
	up    remote.Uploader
	log   *slog.Logger
}

func (e *runEnv) close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("closing stamp store", "error", err)
	}
}

// setup resolves the data dir, loads config, applies env overrides, and
// opens the stamp store and optional mirror.
func setup() (*runEnv, error) {
	log := slog.Default()
	dir := dataDir()

	cfg, name, err := config.Load(dir)
	if errors.Is(err, config.ErrNoConfig) {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	} else {
		log.Debug("loaded config", "file", name)
	}
	applyEnv(cfg)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	var store stamp.Store
	switch cfg.State {
	case "sqlite":
		store, err = stamp.NewSQLite(filepath.Join(dir, "state.db"))
	default:
		store, err = stamp.NewFileStore(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open stamp store: %w", err)
	}

	var up remote.Uploader
	if cfg.R2 != nil {
		r2, err := remote.NewR2Client(remote.R2Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			Bucket:          cfg.R2.Bucket,
		}, log)
		if err != nil {
			store.Close()
			return nil, err
		}
		up = r2
	}

	return &runEnv{cfg: cfg, dir: dir, store: store, up: up, log: log}, nil
}

// applyEnv lets env vars override the config file.
func applyEnv(cfg *config.Config) {
	if state := os.Getenv("TVDUMP_STATE"); state != "" {
		cfg.State = state
	}
	if binary := os.Getenv("TVDUMP_JOURNALCTL"); binary != "" {
		cfg.Journal.Binary = binary
	}
	if dir := os.Getenv("TVDUMP_CARGO_DIR"); dir != "" {
		cfg.Cargo.Dir = dir
	}
	if bucket := os.Getenv("TVDUMP_R2_BUCKET"); bucket != "" {
		if cfg.R2 == nil {
			cfg.R2 = &config.R2Config{}
		}
		cfg.R2.Bucket = bucket
		cfg.R2.AccountID = os.Getenv("TVDUMP_R2_ACCOUNT_ID")
		cfg.R2.AccessKeyID = os.Getenv("TVDUMP_R2_ACCESS_KEY_ID")
		cfg.R2.SecretAccessKey = os.Getenv("TVDUMP_R2_SECRET_ACCESS_KEY")
	}
}
