package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ent0n29/taskboard/internal/board"
)

const systemPrompt = "You are a concise task-management assistant. " +
	"Answer only from the task list you are given."

// OpenAIProvider renders prompts for the completion API and parses its
// replies. Per-status counts are computed locally so they cannot drift
// from the actual board.
type OpenAIProvider struct {
	client *OpenAIClient
}

func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	return &OpenAIProvider{client: NewOpenAIClient(cfg)}
}

func (p *OpenAIProvider) Summarize(ctx context.Context, tasks []board.Task) (string, error) {
	user := fmt.Sprintf(
		"Summarize this task board in 2-3 sentences for its owner. Mention progress and anything overdue.\n\n%s",
		renderTasks(tasks),
	)
	return p.client.Complete(ctx, systemPrompt, user)
}

func (p *OpenAIProvider) SuggestPriority(ctx context.Context, tasks []board.Task) (*PrioritySuggestion, error) {
	user := fmt.Sprintf(
		"Pick the single task the owner should do next. Reply with only a JSON object "+
			`{"task_id": "...", "task_title": "...", "reason": "...", "suggested_priority": "low|medium|high"}.`+
			"\n\n%s",
		renderTasks(tasks),
	)
	raw, err := p.client.Complete(ctx, systemPrompt, user)
	if err != nil {
		return nil, err
	}

	var out PrioritySuggestion
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return nil, &Error{Kind: KindGeneric, Err: fmt.Errorf("parse suggestion: %w", err)}
	}
	if !out.SuggestedPriority.Valid() {
		out.SuggestedPriority = board.PriorityMedium
	}
	return &out, nil
}

func (p *OpenAIProvider) Analyze(ctx context.Context, tasks []board.Task) (Analysis, error) {
	user := fmt.Sprintf(
		"Analyze this task board. Reply with only a JSON object "+
			`{"overview": "...", "insights": ["..."], "priority_suggestions": `+
			`[{"task_id": "...", "task_title": "...", "reason": "...", "suggested_priority": "low|medium|high"}], `+
			`"recommendations": ["..."]}.`+
			"\n\n%s",
		renderTasks(tasks),
	)
	raw, err := p.client.Complete(ctx, systemPrompt, user)
	if err != nil {
		return Analysis{}, err
	}

	var parsed struct {
		Overview            string               `json:"overview"`
		Insights            []string             `json:"insights"`
		PrioritySuggestions []PrioritySuggestion `json:"priority_suggestions"`
		Recommendations     []string             `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return Analysis{}, &Error{Kind: KindGeneric, Err: fmt.Errorf("parse analysis: %w", err)}
	}

	return Analysis{
		Summary: Summary{
			Overview: parsed.Overview,
			ByStatus: countByStatus(tasks),
			Insights: parsed.Insights,
		},
		PrioritySuggestions: parsed.PrioritySuggestions,
		Recommendations:     parsed.Recommendations,
	}, nil
}

func renderTasks(tasks []board.Task) string {
	var b strings.Builder
	b.WriteString("Tasks:\n")
	now := time.Now().UTC()
	for _, t := range tasks {
		b.WriteString(fmt.Sprintf("- id=%s status=%s", t.ID, t.Status))
		if t.Priority != nil {
			b.WriteString(" priority=" + string(*t.Priority))
		}
		if t.DueDate != nil {
			b.WriteString(" due=" + t.DueDate.Format("2006-01-02"))
			if t.Overdue(now) {
				b.WriteString(" (overdue)")
			}
		}
		b.WriteString(fmt.Sprintf(" title=%q", t.Title))
		if t.Description != "" {
			b.WriteString(fmt.Sprintf(" description=%q", t.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// stripFences unwraps the markdown code fences some models insist on.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
