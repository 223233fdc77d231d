package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/taskboard/internal/board"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type moveTaskRequest struct {
	Status string `json:"status"`
}

type taskListResponse struct {
	Tasks      []board.Task     `json:"tasks"`
	Total      int              `json:"total"`
	Filters    board.Filters    `json:"filters"`
	SortConfig board.SortConfig `json:"sort_config"`
	IsLoading  bool             `json:"is_loading"`
	IsHydrated bool             `json:"is_hydrated"`
	Error      string           `json:"error,omitempty"`
}

// handleListTasks returns the derived view: the canonical collection piped
// through the filter and sort engines, plus the board state around it.
func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	st := s.store.State()
	respondJSON(w, http.StatusOK, taskListResponse{
		Tasks:      s.store.FilteredTasks(),
		Total:      len(st.Tasks),
		Filters:    st.Filters,
		SortConfig: st.SortConfig,
		IsLoading:  st.IsLoading,
		IsHydrated: st.IsHydrated,
		Error:      st.Error,
	})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var priority *board.Priority
	if p := strings.TrimSpace(req.Priority); p != "" {
		bp := board.Priority(p)
		priority = &bp
	}

	task, err := s.store.Add(req.Title, req.Description, priority, req.DueDate)
	if err != nil {
		respondStoreError(w, err, s.store.Err())
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var patch board.Patch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	task, err := s.store.Update(id, patch)
	if err != nil {
		respondStoreError(w, err, s.store.Err())
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var req moveTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	task, err := s.store.Move(id, board.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		respondStoreError(w, err, s.store.Err())
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if err := s.store.Delete(id); err != nil {
		respondStoreError(w, err, s.store.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
