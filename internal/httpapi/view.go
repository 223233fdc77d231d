package httpapi

import (
	"net/http"

	"github.com/ent0n29/taskboard/internal/board"
)

// View configuration is in-memory state only; none of these handlers ever
// reach persistence.

func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var patch board.FilterPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	s.store.SetFilters(patch)
	s.handleListTasks(w, r)
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.store.ResetFilters()
	s.handleListTasks(w, r)
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var cfg board.SortConfig
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := s.store.SetSortConfig(cfg); err != nil {
		respondStoreError(w, err, s.store.Err())
		return
	}
	s.handleListTasks(w, r)
}

func (s *Server) handleClearError(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearError()
	w.WriteHeader(http.StatusNoContent)
}
