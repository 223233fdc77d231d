package board

import (
	"strings"
	"time"
)

// ApplyFilters reduces tasks to the subset matching every active criterion.
// Stages run in a fixed order (search, status, priority, overdue), each one
// narrowing the previous result and preserving relative order. The input
// slice is never modified.
func ApplyFilters(tasks []Task, f Filters, now time.Time) []Task {
	out := filterSearch(tasks, f.Search)
	out = filterStatus(out, f.Status)
	out = filterPriority(out, f.Priority)
	out = filterOverdue(out, f.ShowOverdue, now)
	return out
}

func filterSearch(tasks []Task, query string) []Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return copyTasks(tasks)
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Description), query) {
			out = append(out, t)
		}
	}
	return out
}

func filterStatus(tasks []Task, status string) []Task {
	if status == "" || status == StatusAll {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if string(t.Status) == status {
			out = append(out, t)
		}
	}
	return out
}

func filterPriority(tasks []Task, priority string) []Task {
	if priority == "" || priority == PriorityAll {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		// Tasks without a priority only match the sentinel.
		if t.Priority != nil && string(*t.Priority) == priority {
			out = append(out, t)
		}
	}
	return out
}

func filterOverdue(tasks []Task, showOverdue bool, now time.Time) []Task {
	if !showOverdue {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Overdue(now) {
			out = append(out, t)
		}
	}
	return out
}

func copyTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
