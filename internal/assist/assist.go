// Package assist is the thin client of a third-party completion API that
// turns the board into summaries, priority suggestions, and a full
// analysis. The board never depends on it being available.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ent0n29/taskboard/internal/board"
)

// PrioritySuggestion points at the one task the assistant would tackle
// next and why.
type PrioritySuggestion struct {
	TaskID            string         `json:"task_id"`
	TaskTitle         string         `json:"task_title"`
	Reason            string         `json:"reason"`
	SuggestedPriority board.Priority `json:"suggested_priority"`
}

type Summary struct {
	Overview string         `json:"overview"`
	ByStatus map[string]int `json:"by_status"`
	Insights []string       `json:"insights"`
}

type Analysis struct {
	Summary             Summary              `json:"summary"`
	PrioritySuggestions []PrioritySuggestion `json:"priority_suggestions"`
	Recommendations     []string             `json:"recommendations"`
}

// Provider answers the three assist capabilities over a task collection.
type Provider interface {
	Summarize(ctx context.Context, tasks []board.Task) (string, error)
	SuggestPriority(ctx context.Context, tasks []board.Task) (*PrioritySuggestion, error)
	Analyze(ctx context.Context, tasks []board.Task) (Analysis, error)
}

// Config controls assistant construction.
type Config struct {
	Mode       string // auto | openai | mock
	APIURL     string
	APIKey     string
	Model      string
	MaxRetries int
	CacheTTL   time.Duration
}

// NewProvider selects the assist backend. Auto prefers the completion API
// when a key is configured and falls back to the deterministic local mock.
func NewProvider(cfg Config) (Provider, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}
	switch mode {
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, "", errors.New("assist API key is required for openai mode")
		}
		return NewOpenAIProvider(cfg), "openai", nil
	case "mock":
		return NewMockProvider(), "mock", nil
	case "auto":
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewOpenAIProvider(cfg), "openai", nil
		}
		return NewMockProvider(), "mock", nil
	default:
		return nil, "", fmt.Errorf("unsupported assist mode %q", cfg.Mode)
	}
}

func countByStatus(tasks []board.Task) map[string]int {
	out := map[string]int{
		string(board.StatusTodo):       0,
		string(board.StatusInProgress): 0,
		string(board.StatusDone):       0,
	}
	for _, t := range tasks {
		out[string(t.Status)]++
	}
	return out
}

func overdueCount(tasks []board.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.Overdue(now) && t.Status != board.StatusDone {
			n++
		}
	}
	return n
}
