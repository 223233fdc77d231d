package board

import (
	"testing"
	"time"
)

var filterNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func filterFixture() []Task {
	high := PriorityHigh
	low := PriorityLow
	past := filterNow.Add(-24 * time.Hour)
	future := filterNow.Add(24 * time.Hour)
	return []Task{
		{ID: "t1", Title: "Write report", Description: "quarterly numbers", Status: StatusTodo, Priority: &high, DueDate: &past},
		{ID: "t2", Title: "Review PR", Description: "", Status: StatusInProgress, Priority: &low, DueDate: &future},
		{ID: "t3", Title: "Plan sprint", Description: "write the backlog", Status: StatusTodo},
		{ID: "t4", Title: "Ship release", Description: "", Status: StatusDone, Priority: &high, DueDate: &past},
	}
}

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func sameIDs(a []Task, want ...string) bool {
	if len(a) != len(want) {
		return false
	}
	for i := range a {
		if a[i].ID != want[i] {
			return false
		}
	}
	return true
}

func TestApplyFiltersSearchMatchesTitleAndDescription(t *testing.T) {
	tasks := filterFixture()

	got := ApplyFilters(tasks, Filters{Search: "WRITE", Status: StatusAll, Priority: PriorityAll}, filterNow)
	if !sameIDs(got, "t1", "t3") {
		t.Fatalf("search ids = %v, want [t1 t3]", ids(got))
	}

	got = ApplyFilters(tasks, Filters{Search: "  review ", Status: StatusAll, Priority: PriorityAll}, filterNow)
	if !sameIDs(got, "t2") {
		t.Fatalf("trimmed search ids = %v, want [t2]", ids(got))
	}
}

func TestApplyFiltersEmptySearchMatchesEverything(t *testing.T) {
	tasks := filterFixture()
	got := ApplyFilters(tasks, Filters{Search: "   ", Status: StatusAll, Priority: PriorityAll}, filterNow)
	if len(got) != len(tasks) {
		t.Fatalf("len = %d, want %d", len(got), len(tasks))
	}
}

func TestApplyFiltersStatus(t *testing.T) {
	tasks := filterFixture()

	got := ApplyFilters(tasks, Filters{Status: string(StatusTodo), Priority: PriorityAll}, filterNow)
	if !sameIDs(got, "t1", "t3") {
		t.Fatalf("status ids = %v, want [t1 t3]", ids(got))
	}

	// Sentinel and empty both mean no status filtering.
	for _, status := range []string{StatusAll, ""} {
		got = ApplyFilters(tasks, Filters{Status: status, Priority: PriorityAll}, filterNow)
		if len(got) != len(tasks) {
			t.Fatalf("status %q len = %d, want %d", status, len(got), len(tasks))
		}
	}
}

func TestApplyFiltersPrioritySkipsUnsetTasks(t *testing.T) {
	tasks := filterFixture()

	got := ApplyFilters(tasks, Filters{Status: StatusAll, Priority: string(PriorityHigh)}, filterNow)
	if !sameIDs(got, "t1", "t4") {
		t.Fatalf("priority ids = %v, want [t1 t4]", ids(got))
	}

	// t3 has no priority; it only surfaces through the sentinel.
	got = ApplyFilters(tasks, Filters{Status: StatusAll, Priority: PriorityAll}, filterNow)
	if !sameIDs(got, "t1", "t2", "t3", "t4") {
		t.Fatalf("sentinel ids = %v, want all", ids(got))
	}
}

func TestApplyFiltersOverdue(t *testing.T) {
	tasks := filterFixture()
	got := ApplyFilters(tasks, Filters{Status: StatusAll, Priority: PriorityAll, ShowOverdue: true}, filterNow)
	if !sameIDs(got, "t1", "t4") {
		t.Fatalf("overdue ids = %v, want [t1 t4]", ids(got))
	}
}

func TestApplyFiltersCriteriaCombineAsAND(t *testing.T) {
	tasks := filterFixture()
	got := ApplyFilters(tasks, Filters{
		Search:      "write",
		Status:      string(StatusTodo),
		Priority:    string(PriorityHigh),
		ShowOverdue: true,
	}, filterNow)
	if !sameIDs(got, "t1") {
		t.Fatalf("combined ids = %v, want [t1]", ids(got))
	}
}

func TestApplyFiltersPreservesRelativeOrder(t *testing.T) {
	tasks := filterFixture()
	got := ApplyFilters(tasks, Filters{Status: string(StatusTodo), Priority: PriorityAll}, filterNow)
	if !sameIDs(got, "t1", "t3") {
		t.Fatalf("order = %v, want [t1 t3]", ids(got))
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	tasks := filterFixture()
	before := ids(tasks)
	_ = ApplyFilters(tasks, Filters{Search: "write", Status: string(StatusTodo), Priority: string(PriorityHigh)}, filterNow)
	after := ids(tasks)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input order changed at %d: %q -> %q", i, before[i], after[i])
		}
	}
}
