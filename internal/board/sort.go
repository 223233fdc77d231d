package board

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	collatorOnce sync.Once
	collator     *collate.Collator
	collatorMu   sync.Mutex
)

func compareTitles(a, b string) int {
	collatorOnce.Do(func() {
		collator = collate.New(language.Und)
	})
	// collate.Collator reuses an internal buffer and is not safe for
	// concurrent use.
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// SortTasks returns a new ordering of tasks according to cfg; the input is
// never mutated. Tasks without a due date always sort after tasks with one,
// in both directions. An unrecognized field yields a copy in the original
// order; the store rejects such configs before they enter state, so this
// path only serves direct engine callers.
func SortTasks(tasks []Task, cfg SortConfig) []Task {
	out := copyTasks(tasks)
	desc := cfg.Direction == SortDesc

	var less func(a, b Task) bool
	switch cfg.Field {
	case SortByCreatedAt:
		less = func(a, b Task) bool {
			return flip(a.CreatedAt.Compare(b.CreatedAt), desc) < 0
		}
	case SortByDueDate:
		less = func(a, b Task) bool {
			// The missing-due-date tie-break is direction-invariant.
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return false
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			}
			return flip(a.DueDate.Compare(*b.DueDate), desc) < 0
		}
	case SortByPriority:
		less = func(a, b Task) bool {
			return flip(priorityRank(a)-priorityRank(b), desc) < 0
		}
	case SortByTitle:
		less = func(a, b Task) bool {
			return flip(compareTitles(a.Title, b.Title), desc) < 0
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func flip(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}

func priorityRank(t Task) int {
	if t.Priority == nil {
		return 0
	}
	return t.Priority.Rank()
}
