package assist

import (
	"context"
	"fmt"
	"time"

	"github.com/ent0n29/taskboard/internal/board"
)

// MockProvider produces deterministic local answers when no completion API
// is configured. It keeps the assist surface usable offline.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (p *MockProvider) Summarize(ctx context.Context, tasks []board.Task) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Kind: KindGeneric, Err: err}
	}
	counts := countByStatus(tasks)
	now := time.Now().UTC()
	s := fmt.Sprintf("You have %d task(s): %d to do, %d in progress, %d done.",
		len(tasks),
		counts[string(board.StatusTodo)],
		counts[string(board.StatusInProgress)],
		counts[string(board.StatusDone)],
	)
	if n := overdueCount(tasks, now); n > 0 {
		s += fmt.Sprintf(" %d task(s) are overdue.", n)
	}
	return s, nil
}

func (p *MockProvider) SuggestPriority(ctx context.Context, tasks []board.Task) (*PrioritySuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindGeneric, Err: err}
	}
	pick := pickNext(tasks)
	if pick == nil {
		return nil, nil
	}
	reason := "Highest-ranked unfinished task on the board."
	if pick.Overdue(time.Now().UTC()) {
		reason = "Past its due date and still unfinished."
	}
	suggested := board.PriorityHigh
	if pick.Priority != nil {
		suggested = *pick.Priority
	}
	return &PrioritySuggestion{
		TaskID:            pick.ID,
		TaskTitle:         pick.Title,
		Reason:            reason,
		SuggestedPriority: suggested,
	}, nil
}

func (p *MockProvider) Analyze(ctx context.Context, tasks []board.Task) (Analysis, error) {
	overview, err := p.Summarize(ctx, tasks)
	if err != nil {
		return Analysis{}, err
	}

	now := time.Now().UTC()
	insights := []string{}
	if n := overdueCount(tasks, now); n > 0 {
		insights = append(insights, fmt.Sprintf("%d task(s) are past their due date.", n))
	}
	unprioritized := 0
	for _, t := range tasks {
		if t.Priority == nil && t.Status != board.StatusDone {
			unprioritized++
		}
	}
	if unprioritized > 0 {
		insights = append(insights, fmt.Sprintf("%d open task(s) have no priority set.", unprioritized))
	}

	recommendations := []string{}
	if overdueCount(tasks, now) > 0 {
		recommendations = append(recommendations, "Clear the overdue tasks before starting new work.")
	}
	if unprioritized > 0 {
		recommendations = append(recommendations, "Assign priorities so the board sorts meaningfully.")
	}

	suggestions := []PrioritySuggestion{}
	if s, _ := p.SuggestPriority(ctx, tasks); s != nil {
		suggestions = append(suggestions, *s)
	}

	return Analysis{
		Summary: Summary{
			Overview: overview,
			ByStatus: countByStatus(tasks),
			Insights: insights,
		},
		PrioritySuggestions: suggestions,
		Recommendations:     recommendations,
	}, nil
}

// pickNext prefers overdue tasks, then higher priority, then older
// creation, skipping anything already done.
func pickNext(tasks []board.Task) *board.Task {
	now := time.Now().UTC()
	var best *board.Task
	for i := range tasks {
		t := &tasks[i]
		if t.Status == board.StatusDone {
			continue
		}
		if best == nil || moreUrgent(*t, *best, now) {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	c := best.Clone()
	return &c
}

func moreUrgent(a, b board.Task, now time.Time) bool {
	ao, bo := a.Overdue(now), b.Overdue(now)
	if ao != bo {
		return ao
	}
	ar, br := 0, 0
	if a.Priority != nil {
		ar = a.Priority.Rank()
	}
	if b.Priority != nil {
		br = b.Priority.Rank()
	}
	if ar != br {
		return ar > br
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
