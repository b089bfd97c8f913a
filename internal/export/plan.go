package export

import (
	"sort"

	"github.com/ehrlich-b/tvdump/internal/journal"
)

// Partition is the set of records sharing one calendar date.
type Partition struct {
	Key     string
	Open    bool // today's partition, always rewritten
	Records []journal.Record
}

// Plan groups records by date and classifies each partition. Only the
// today partition is open: it may still be receiving entries and is
// rewritten on every run. Every other date is closed and write-once, even
// if the source would report different rows for it later (stability over
// freshness for history). Partitions come back sorted by key so runs write
// in a stable order.
func Plan(records []journal.Record, today string) []Partition {
	byDay := make(map[string][]journal.Record)
	for _, rec := range records {
		byDay[rec.Date] = append(byDay[rec.Date], rec)
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]Partition, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, Partition{
			Key:     key,
			Open:    key == today,
			Records: byDay[key],
		})
	}
	return parts
}
