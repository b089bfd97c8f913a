package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DateFormat is the partition key layout, the timestamp's calendar date.
const DateFormat = "2006-01-02"

// Record is one decoded journal entry. Date is the partition key, derived
// from the entry's realtime timestamp in local time.
type Record struct {
	Date    string `parquet:"date"`
	Time    string `parquet:"time"`
	Boot    string `parquet:"boot"`
	Unit    string `parquet:"unit"`
	Message string `parquet:"message"`
}

// DecodeError reports a raw entry that could not be decoded into a Record.
// Callers drop the entry and continue; one bad line never aborts a batch.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode entry: %s: %v", e.Reason, e.Err)
	}
	return "decode entry: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

type rawEntry struct {
	Realtime json.RawMessage `json:"__REALTIME_TIMESTAMP"`
	BootID   string          `json:"_BOOT_ID"`
	Unit     string          `json:"SYSLOG_IDENTIFIER"`
	Message  json.RawMessage `json:"MESSAGE"`
}

// Decode converts one raw NDJSON journal line into a Record.
func Decode(line []byte) (Record, error) {
	var raw rawEntry
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, &DecodeError{Reason: "malformed entry", Err: err}
	}

	usec, err := parseUsec(raw.Realtime)
	if err != nil {
		return Record{}, err
	}
	ts := time.UnixMicro(usec)

	boot := raw.BootID
	if len(boot) > 8 {
		boot = boot[:8]
	}

	return Record{
		Date:    ts.Format(DateFormat),
		Time:    ts.Format("15:04:05"),
		Boot:    boot,
		Unit:    raw.Unit,
		Message: messageString(raw.Message),
	}, nil
}

// parseUsec reads the microsecond realtime clock, which journald emits as a
// JSON string ("1700000000000000") but some forwarders emit as a bare number.
func parseUsec(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, &DecodeError{Reason: "missing __REALTIME_TIMESTAMP"}
	}
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	usec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &DecodeError{Reason: "bad __REALTIME_TIMESTAMP", Err: err}
	}
	return usec, nil
}

// messageString returns MESSAGE when it is a JSON string. journald encodes
// non-UTF8 payloads as byte arrays; those become an empty message.
func messageString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
