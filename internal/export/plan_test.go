package export

import (
	"testing"

	"github.com/ehrlich-b/tvdump/internal/journal"
)

func TestPlan(t *testing.T) {
	records := []journal.Record{
		{Date: "2024-05-14", Message: "c"},
		{Date: "2024-05-12", Message: "a"},
		{Date: "2024-05-14", Message: "d"},
		{Date: "2024-05-13", Message: "b"},
	}

	parts := Plan(records, "2024-05-14")
	if len(parts) != 3 {
		t.Fatalf("got %d partitions, want 3", len(parts))
	}

	wantKeys := []string{"2024-05-12", "2024-05-13", "2024-05-14"}
	for i, part := range parts {
		if part.Key != wantKeys[i] {
			t.Errorf("partition %d key = %q, want %q (sorted)", i, part.Key, wantKeys[i])
		}
		if part.Open != (part.Key == "2024-05-14") {
			t.Errorf("partition %s open = %v", part.Key, part.Open)
		}
	}
	if len(parts[2].Records) != 2 {
		t.Errorf("today partition has %d records, want 2", len(parts[2].Records))
	}
}

func TestPlanEmpty(t *testing.T) {
	if parts := Plan(nil, "2024-05-14"); len(parts) != 0 {
		t.Errorf("got %d partitions for no records, want 0", len(parts))
	}
}

func TestPlanNoTodayRecords(t *testing.T) {
	parts := Plan([]journal.Record{{Date: "2024-05-10"}}, "2024-05-14")
	if len(parts) != 1 || parts[0].Open {
		t.Errorf("partitions = %+v, want one closed partition", parts)
	}
}
