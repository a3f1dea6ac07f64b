package model

import "testing"

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"":       PriorityMedium,
		"low":    PriorityLow,
		" HIGH ": PriorityHigh,
		"Medium": PriorityMedium,
	}
	for input, want := range cases {
		got, err := ParsePriority(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", input, want, got)
		}
	}

	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
}

func TestParseSortMode(t *testing.T) {
	mode, err := ParseSortMode("")
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if mode != SortByDate {
		t.Fatalf("expected default %q, got %q", SortByDate, mode)
	}

	mode, err = ParseSortMode("Status")
	if err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if mode != SortByStatus {
		t.Fatalf("expected %q, got %q", SortByStatus, mode)
	}

	if _, err := ParseSortMode("alphabetical"); err == nil {
		t.Fatalf("expected error for unknown sort mode")
	}
}

func TestSortModeNextCycles(t *testing.T) {
	mode := SortByDate
	seen := map[SortMode]bool{}
	for i := 0; i < len(SortModes()); i++ {
		seen[mode] = true
		mode = mode.Next()
	}
	if mode != SortByDate {
		t.Fatalf("expected cycle to return to %q, got %q", SortByDate, mode)
	}
	if len(seen) != len(SortModes()) {
		t.Fatalf("expected to visit %d modes, visited %d", len(SortModes()), len(seen))
	}
}

func TestPriorityRankOrdersHighFirst(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Fatalf("expected high < medium < low ranks")
	}
}
