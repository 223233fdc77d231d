package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ent0n29/taskboard/internal/board"
)

const maxImportBytes = 10 << 20

// handleExport serializes the entire canonical collection as indented JSON.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	tasks := s.store.Tasks()
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="taskboard-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImport accepts a JSON array of task records, replaces the persisted
// collection, and re-reads it into the store.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var tasks []board.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_import", "import must be a JSON array of tasks")
		return
	}

	if err := s.store.ReplaceAll(r.Context(), tasks); err != nil {
		respondStoreError(w, err, s.store.Err())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"imported": len(tasks)})
}
