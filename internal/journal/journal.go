// Package journal reads entries from the systemd journal via journalctl.
//
// The journal is treated as a black-box line stream: the cursor of the most
// recent entry is a cheap change fingerprint, and a full read returns one
// independently-parseable JSON line per entry.
package journal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/ehrlich-b/tvdump/internal/runner"
)

// ErrUnavailable is returned when journalctl is not present on this system.
var ErrUnavailable = errors.New("journalctl not available")

// Client queries journalctl.
type Client struct {
	// Binary overrides the journalctl binary. Default: "journalctl".
	Binary string

	// Runner executes the command. Default: runner.Exec.
	Runner runner.Runner
}

func (c *Client) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return "journalctl"
}

func (c *Client) run() runner.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return runner.Exec{}
}

// Cursor returns the cursor of the most recent journal entry without
// reading the full stream. An empty journal yields an empty cursor, which
// is just another fingerprint value, not an error.
func (c *Client) Cursor(ctx context.Context) (string, error) {
	out, err := c.run().Output(ctx, "", c.binary(), "-n1", "-o", "json", "--no-pager")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("probe journal: %w", err)
	}

	line := bytes.TrimSpace(out)
	if len(line) == 0 {
		return "", nil
	}

	var entry struct {
		Cursor string `json:"__CURSOR"`
	}
	if err := json.Unmarshal(line, &entry); err != nil {
		return "", fmt.Errorf("parse probe entry: %w", err)
	}
	return entry.Cursor, nil
}

// ReadAll reads every journal entry as raw NDJSON lines, one synchronous
// pass. Lines are returned undecoded so a malformed entry stays isolated
// to its own Decode call.
func (c *Client) ReadAll(ctx context.Context) ([][]byte, error) {
	out, err := c.run().Output(ctx, "", c.binary(), "-o", "json", "--no-pager")
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var lines [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(out))
	// Journal messages can be large; the default 64KB token limit is not enough.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal output: %w", err)
	}
	return lines, nil
}
