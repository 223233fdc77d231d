package httpapi

import (
	"errors"
	"net/http"

	"github.com/ent0n29/taskboard/internal/assist"
)

func (s *Server) handleAssistSummary(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		respondError(w, http.StatusNotImplemented, "assist_disabled", "AI assist is not configured.")
		return
	}
	summary, err := s.assist.Summarize(r.Context(), s.store.Tasks())
	if err != nil {
		respondAssistError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleAssistPriority(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		respondError(w, http.StatusNotImplemented, "assist_disabled", "AI assist is not configured.")
		return
	}
	suggestion, err := s.assist.SuggestPriority(r.Context(), s.store.Tasks())
	if err != nil {
		respondAssistError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"suggestion": suggestion})
}

func (s *Server) handleAssistAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		respondError(w, http.StatusNotImplemented, "assist_disabled", "AI assist is not configured.")
		return
	}
	analysis, err := s.assist.Analyze(r.Context(), s.store.Tasks())
	if err != nil {
		respondAssistError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}

func respondAssistError(w http.ResponseWriter, err error) {
	var aerr *assist.Error
	if !errors.As(err, &aerr) {
		respondError(w, http.StatusInternalServerError, "assist_failed", "The AI assistant failed to answer. Try again.")
		return
	}
	switch aerr.Kind {
	case assist.KindAuth:
		respondError(w, http.StatusBadGateway, "assist_auth", aerr.Message())
	case assist.KindRateLimit:
		respondError(w, http.StatusTooManyRequests, "assist_rate_limited", aerr.Message())
	case assist.KindNetwork:
		respondError(w, http.StatusBadGateway, "assist_unreachable", aerr.Message())
	default:
		respondError(w, http.StatusInternalServerError, "assist_failed", aerr.Message())
	}
}
