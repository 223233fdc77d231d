package assist

import (
	"context"

	"github.com/ent0n29/taskboard/internal/board"
	"github.com/ent0n29/taskboard/internal/observability"
)

const emptyBoardSummary = "Your board is empty. Add a task to get started."

// Service fronts a Provider with the response cache, empty-board
// short-circuits, and metrics. The rest of the application only sees this
// type.
type Service struct {
	provider Provider
	mode     string
	cache    *responseCache
	metrics  *observability.Metrics
}

func NewService(provider Provider, mode string, cfg Config, metrics *observability.Metrics) *Service {
	return &Service{
		provider: provider,
		mode:     mode,
		cache:    newResponseCache(cfg.CacheTTL),
		metrics:  metrics,
	}
}

// Mode names the active backend for health reporting.
func (s *Service) Mode() string { return s.mode }

func (s *Service) Summarize(ctx context.Context, tasks []board.Task) (string, error) {
	if len(tasks) == 0 {
		return emptyBoardSummary, nil
	}
	key := fingerprint("summary", tasks)
	if v, ok := s.cache.get(key); ok {
		s.countCache(true)
		return v.(string), nil
	}
	s.countCache(false)

	out, err := s.provider.Summarize(ctx, tasks)
	s.countRequest("summary", err)
	if err != nil {
		return "", err
	}
	s.cache.put(key, out)
	return out, nil
}

func (s *Service) SuggestPriority(ctx context.Context, tasks []board.Task) (*PrioritySuggestion, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	key := fingerprint("priority", tasks)
	if v, ok := s.cache.get(key); ok {
		s.countCache(true)
		return v.(*PrioritySuggestion), nil
	}
	s.countCache(false)

	out, err := s.provider.SuggestPriority(ctx, tasks)
	s.countRequest("priority", err)
	if err != nil {
		return nil, err
	}
	s.cache.put(key, out)
	return out, nil
}

func (s *Service) Analyze(ctx context.Context, tasks []board.Task) (Analysis, error) {
	if len(tasks) == 0 {
		return Analysis{
			Summary: Summary{
				Overview: emptyBoardSummary,
				ByStatus: countByStatus(nil),
				Insights: []string{},
			},
			PrioritySuggestions: []PrioritySuggestion{},
			Recommendations:     []string{},
		}, nil
	}
	key := fingerprint("analyze", tasks)
	if v, ok := s.cache.get(key); ok {
		s.countCache(true)
		return v.(Analysis), nil
	}
	s.countCache(false)

	out, err := s.provider.Analyze(ctx, tasks)
	s.countRequest("analyze", err)
	if err != nil {
		return Analysis{}, err
	}
	s.cache.put(key, out)
	return out, nil
}

func (s *Service) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	s.metrics.AssistCache.WithLabelValues(result).Inc()
}

func (s *Service) countRequest(op string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.AssistRequests.WithLabelValues(op, outcome).Inc()
}
