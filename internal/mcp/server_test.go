package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/meltforce/terrapump/internal/models"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestDefaultDateRange verifies date range defaults (last 30 days) and parsing.
func TestDefaultDateRange(t *testing.T) {
	// Both empty → defaults to last 30 days
	from, to, err := defaultDateRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromT, _ := time.Parse("2006-01-02", from)
	toT, _ := time.Parse("2006-01-02", to)
	diff := toT.Sub(fromT)
	if diff.Hours() < 28*24 || diff.Hours() > 32*24 {
		t.Errorf("default range = %.0f hours, want ~720", diff.Hours())
	}

	// Explicit dates
	from, to, err = defaultDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != "2024-01-01" {
		t.Errorf("from = %q, want 2024-01-01", from)
	}
	if to != "2024-01-31" {
		t.Errorf("to = %q, want 2024-01-31", to)
	}

	// RFC3339 collapses to the date
	from, _, err = defaultDateRange("2024-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != "2024-06-15" {
		t.Errorf("from = %q, want 2024-06-15", from)
	}

	// Invalid
	_, _, err = defaultDateRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestFilterByStart verifies date-bound filtering of workout records,
// including the zero-start rule: unparsable starts only survive an
// unbounded query.
func TestFilterByStart(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 10, 0, 0, 0, time.UTC) }
	records := []models.WorkoutRecord{
		{Name: "a", Start: day(20)},
		{Name: "b", Start: day(10)},
		{Name: "c"}, // zero start
	}

	out, err := filterByStart(records, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Errorf("unbounded: got %d records, want 3", len(out))
	}

	out, err = filterByStart(records, "2025-06-15", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "a" {
		t.Errorf("lower bound: got %v, want [a]", names(out))
	}

	out, err = filterByStart(records, "", "2025-06-10")
	if err != nil {
		t.Fatal(err)
	}
	// End date is inclusive: the whole end day counts.
	if len(out) != 1 || out[0].Name != "b" {
		t.Errorf("upper bound: got %v, want [b]", names(out))
	}

	if _, err := filterByStart(records, "bogus", ""); err == nil {
		t.Error("expected error for invalid start date")
	}
}

func names(records []models.WorkoutRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
