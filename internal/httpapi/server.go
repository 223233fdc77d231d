package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ent0n29/taskboard/internal/assist"
	"github.com/ent0n29/taskboard/internal/board"
	"github.com/ent0n29/taskboard/internal/config"
	"github.com/ent0n29/taskboard/internal/observability"
)

type Server struct {
	cfg       config.Config
	store     *board.Store
	assist    *assist.Service
	storeMode string
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
	static    http.Handler
}

func New(cfg config.Config, store *board.Store, assistSvc *assist.Service, storeMode string, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		assist:    assistSvc,
		storeMode: storeMode,
		metrics:   metrics,
		static:    newStaticHandler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser connections may watch the board
				// unless explicitly opened up; other sites must not observe
				// the user's tasks if this ever leaves localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusTemporaryRedirect)
	})
	r.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusTemporaryRedirect)
	})
	r.Handle("/ui/*", http.StripPrefix("/ui/", s.static))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/v1/tasks", s.handleListTasks)
	r.Post("/v1/tasks", s.handleCreateTask)
	r.Patch("/v1/tasks/{id}", s.handleUpdateTask)
	r.Delete("/v1/tasks/{id}", s.handleDeleteTask)
	r.Post("/v1/tasks/{id}/move", s.handleMoveTask)

	r.Put("/v1/view/filters", s.handleSetFilters)
	r.Delete("/v1/view/filters", s.handleResetFilters)
	r.Put("/v1/view/sort", s.handleSetSort)
	r.Delete("/v1/board/error", s.handleClearError)

	r.Get("/v1/board/export", s.handleExport)
	r.Post("/v1/board/import", s.handleImport)
	r.Get("/v1/board/ws", s.handleBoardWS)

	r.Post("/v1/assist/summary", s.handleAssistSummary)
	r.Post("/v1/assist/priority", s.handleAssistPriority)
	r.Post("/v1/assist/analyze", s.handleAssistAnalyze)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"store_mode":  s.storeMode,
		"assist_mode": s.assistMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	status := "ready"
	code := http.StatusOK
	if !s.store.State().IsHydrated {
		status = "hydrating"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]any{
		"status":      status,
		"store_mode":  s.storeMode,
		"assist_mode": s.assistMode(),
	})
}

func (s *Server) assistMode() string {
	if s.assist == nil {
		return "disabled"
	}
	return s.assist.Mode()
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondStoreError maps a store validation failure onto an HTTP error
// while the store keeps the same message in its user-visible error slot.
func respondStoreError(w http.ResponseWriter, err error, userMsg string) {
	switch {
	case errors.Is(err, board.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, "task_not_found", userMsg)
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", userMsg)
	}
}
