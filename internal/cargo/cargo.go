// Package cargo reads dependency metadata from a cargo workspace.
package cargo

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/ehrlich-b/tvdump/internal/runner"
)

// ErrNoLockfile is returned when the workspace has no Cargo.lock to
// fingerprint.
var ErrNoLockfile = errors.New("no Cargo.lock")

// Client queries cargo metadata for a workspace.
type Client struct {
	// Dir is the workspace directory. Default: current directory.
	Dir string

	// Runner executes the command. Default: runner.Exec.
	Runner runner.Runner
}

func (c *Client) dir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return "."
}

func (c *Client) run() runner.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return runner.Exec{}
}

// LockFingerprint hashes the workspace's Cargo.lock contents. Any edit to
// the lockfile, including a rollback, yields a different fingerprint.
func (c *Client) LockFingerprint() (string, error) {
	data, err := os.ReadFile(filepath.Join(c.dir(), "Cargo.lock"))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoLockfile
	}
	if err != nil {
		return "", fmt.Errorf("read Cargo.lock: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Row is one exported package: name, version, direct dependency count, and
// the first declared build-target kind.
type Row struct {
	Name    string `parquet:"name"`
	Version string `parquet:"version"`
	Deps    int64  `parquet:"deps"`
	Kind    string `parquet:"kind"`
}

type metadata struct {
	Packages []struct {
		Name         string            `json:"name"`
		Version      string            `json:"version"`
		Dependencies []json.RawMessage `json:"dependencies"`
		Targets      []struct {
			Kind []string `json:"kind"`
		} `json:"targets"`
	} `json:"packages"`
}

// Packages fetches the full metadata document and projects each package
// into a Row. Unlike the journal, the document is a single structured unit,
// so a malformed document fails the whole fetch rather than skipping rows.
func (c *Client) Packages(ctx context.Context) ([]Row, error) {
	out, err := c.run().Output(ctx, c.dir(), "cargo", "metadata", "--format-version=1")
	if err != nil {
		return nil, fmt.Errorf("cargo metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, fmt.Errorf("parse cargo metadata: %w", err)
	}

	rows := make([]Row, 0, len(meta.Packages))
	for _, pkg := range meta.Packages {
		kind := ""
		if len(pkg.Targets) > 0 && len(pkg.Targets[0].Kind) > 0 {
			kind = pkg.Targets[0].Kind[0]
		}
		rows = append(rows, Row{
			Name:    pkg.Name,
			Version: pkg.Version,
			Deps:    int64(len(pkg.Dependencies)),
			Kind:    kind,
		})
	}
	return rows, nil
}
