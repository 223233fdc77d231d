package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ent0n29/taskboard/internal/observability"
)

var (
	ErrEmptyTitle       = errors.New("title must not be empty")
	ErrMissingTaskID    = errors.New("task id is required")
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyPatch       = errors.New("patch must change at least one field")
	ErrMissingStatus    = errors.New("status is required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortDir   = errors.New("invalid sort direction")
)

const saveTimeout = 5 * time.Second

// Persistence is the slice of the storage contract the store needs.
type Persistence interface {
	SaveAll(ctx context.Context, tasks []Task) error
	LoadAll(ctx context.Context) ([]Task, error)
}

// State is a read snapshot of the store for API responses.
type State struct {
	Tasks      []Task     `json:"tasks"`
	Filters    Filters    `json:"filters"`
	SortConfig SortConfig `json:"sort_config"`
	IsLoading  bool       `json:"is_loading"`
	IsHydrated bool       `json:"is_hydrated"`
	Error      string     `json:"error,omitempty"`
}

// Store owns the canonical task collection and the view configuration.
// It is constructed explicitly and passed to whoever needs it; there is no
// package-level instance.
//
// Every mutation validates first (no partial state on failure), applies to
// memory, clears the error slot, and schedules a background persist of the
// full collection. At most one save is in flight at a time; mutations that
// land during a save coalesce into the next one, so a stale snapshot can
// never overwrite a newer board.
type Store struct {
	mu sync.RWMutex

	db      Persistence
	metrics *observability.Metrics

	tasks    []Task
	filters  Filters
	sortCfg  SortConfig
	loading  bool
	hydrated bool
	errMsg   string

	subscribers map[int]chan Event
	nextSubID   int

	saveMu sync.Mutex
	dirty  bool
	saving bool
	closed bool
	wg     sync.WaitGroup
}

func NewStore(db Persistence, metrics *observability.Metrics) *Store {
	return &Store{
		db:          db,
		metrics:     metrics,
		tasks:       []Task{},
		filters:     DefaultFilters(),
		sortCfg:     DefaultSortConfig(),
		subscribers: make(map[int]chan Event),
	}
}

// Hydrate performs the one-time load of the persisted collection. A load
// failure still leaves the store usable: it reaches the hydrated state with
// an empty board and a user-visible error.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	if s.hydrated || s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	tasks, err := s.db.LoadAll(ctx)

	s.mu.Lock()
	s.loading = false
	s.hydrated = true
	if err != nil {
		log.Printf("hydrate failed: %v", err)
		s.countPersist("load", false)
		s.tasks = []Task{}
		s.errMsg = "Failed to load saved tasks. Starting with an empty board."
	} else {
		s.countPersist("load", true)
		s.tasks = tasks
		s.errMsg = ""
	}
	s.setTasksGauge()
	s.publishLocked(Event{Type: EventBoardHydrated, At: time.Now().UTC()})
	s.mu.Unlock()
}

// Add creates a task with a fresh id and a todo status. The returned error
// mirrors the store's error slot for callers that shape responses from it.
func (s *Store) Add(title, description string, priority *Priority, dueDate *time.Time) (Task, error) {
	title = normalizeTitle(title)
	if title == "" {
		s.fail("Task title cannot be empty.")
		s.countOp("add", false)
		return Task{}, ErrEmptyTitle
	}
	if priority != nil && !priority.Valid() {
		s.fail(fmt.Sprintf("Unknown priority %q.", *priority))
		s.countOp("add", false)
		return Task{}, ErrInvalidPriority
	}

	now := time.Now().UTC()
	task := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
	}
	if priority != nil {
		p := *priority
		task.Priority = &p
	}
	if dueDate != nil {
		d := dueDate.UTC()
		task.DueDate = &d
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.errMsg = ""
	s.setTasksGauge()
	s.publishLocked(Event{Type: EventTaskAdded, TaskID: task.ID, Task: cloneTaskPtr(task), At: now})
	s.mu.Unlock()

	s.countOp("add", true)
	s.schedulePersist()
	return task.Clone(), nil
}

// Update merges patch into the task with the given id. ID and CreatedAt
// are not patchable, and a patched title may not trim to empty.
func (s *Store) Update(id string, patch Patch) (Task, error) {
	if id == "" {
		s.fail("Cannot update a task without an id.")
		s.countOp("update", false)
		return Task{}, ErrMissingTaskID
	}
	if patch.Empty() {
		s.fail("Nothing to update.")
		s.countOp("update", false)
		return Task{}, ErrEmptyPatch
	}
	if patch.Title != nil && normalizeTitle(*patch.Title) == "" {
		s.fail("Task title cannot be empty.")
		s.countOp("update", false)
		return Task{}, ErrEmptyTitle
	}
	if patch.Status != nil && !patch.Status.Valid() {
		s.fail(fmt.Sprintf("Unknown status %q.", *patch.Status))
		s.countOp("update", false)
		return Task{}, ErrInvalidStatus
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		s.fail(fmt.Sprintf("Unknown priority %q.", *patch.Priority))
		s.countOp("update", false)
		return Task{}, ErrInvalidPriority
	}

	now := time.Now().UTC()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.fail("Task no longer exists.")
		s.countOp("update", false)
		return Task{}, ErrTaskNotFound
	}

	t := &s.tasks[idx]
	if patch.Title != nil {
		t.Title = normalizeTitle(*patch.Title)
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	switch {
	case patch.ClearPriority:
		t.Priority = nil
	case patch.Priority != nil:
		p := *patch.Priority
		t.Priority = &p
	}
	switch {
	case patch.ClearDueDate:
		t.DueDate = nil
	case patch.DueDate != nil:
		d := patch.DueDate.UTC()
		t.DueDate = &d
	}
	updated := t.Clone()
	s.errMsg = ""
	s.publishLocked(Event{Type: EventTaskUpdated, TaskID: id, Task: cloneTaskPtr(updated), At: now})
	s.mu.Unlock()

	s.countOp("update", true)
	s.schedulePersist()
	return updated, nil
}

// Move is the status-only transition reported by the UI's drag and drop.
// Everything else about the task stays byte-for-byte unchanged.
func (s *Store) Move(id string, status Status) (Task, error) {
	if id == "" {
		s.fail("Cannot move a task without an id.")
		s.countOp("move", false)
		return Task{}, ErrMissingTaskID
	}
	if status == "" {
		s.fail("Cannot move a task without a target column.")
		s.countOp("move", false)
		return Task{}, ErrMissingStatus
	}
	if !status.Valid() {
		s.fail(fmt.Sprintf("Unknown status %q.", status))
		s.countOp("move", false)
		return Task{}, ErrInvalidStatus
	}

	now := time.Now().UTC()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.fail("Task no longer exists.")
		s.countOp("move", false)
		return Task{}, ErrTaskNotFound
	}
	s.tasks[idx].Status = status
	moved := s.tasks[idx].Clone()
	s.errMsg = ""
	s.publishLocked(Event{Type: EventTaskMoved, TaskID: id, Task: cloneTaskPtr(moved), At: now})
	s.mu.Unlock()

	s.countOp("move", true)
	s.schedulePersist()
	return moved, nil
}

func (s *Store) Delete(id string) error {
	if id == "" {
		s.fail("Cannot delete a task without an id.")
		s.countOp("delete", false)
		return ErrMissingTaskID
	}

	now := time.Now().UTC()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.fail("Task no longer exists.")
		s.countOp("delete", false)
		return ErrTaskNotFound
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.errMsg = ""
	s.setTasksGauge()
	s.publishLocked(Event{Type: EventTaskDeleted, TaskID: id, At: now})
	s.mu.Unlock()

	s.countOp("delete", true)
	s.schedulePersist()
	return nil
}

// SetFilters merges the given partial criteria into the current filters.
// In-memory only; persistence is never touched.
func (s *Store) SetFilters(patch FilterPatch) {
	s.mu.Lock()
	if patch.Search != nil {
		s.filters.Search = *patch.Search
	}
	if patch.Status != nil {
		s.filters.Status = *patch.Status
	}
	if patch.Priority != nil {
		s.filters.Priority = *patch.Priority
	}
	if patch.ShowOverdue != nil {
		s.filters.ShowOverdue = *patch.ShowOverdue
	}
	s.publishLocked(Event{Type: EventViewChanged, At: time.Now().UTC()})
	s.mu.Unlock()
}

func (s *Store) ResetFilters() {
	s.mu.Lock()
	s.filters = DefaultFilters()
	s.publishLocked(Event{Type: EventViewChanged, At: time.Now().UTC()})
	s.mu.Unlock()
}

// SetSortConfig rejects unknown fields and directions instead of letting
// them no-op inside the engine, so an invalid config never enters state.
func (s *Store) SetSortConfig(cfg SortConfig) error {
	if !cfg.Field.Valid() {
		s.fail(fmt.Sprintf("Unknown sort field %q.", cfg.Field))
		return ErrInvalidSortField
	}
	if !cfg.Direction.Valid() {
		s.fail(fmt.Sprintf("Unknown sort direction %q.", cfg.Direction))
		return ErrInvalidSortDir
	}
	s.mu.Lock()
	s.sortCfg = cfg
	s.errMsg = ""
	s.publishLocked(Event{Type: EventViewChanged, At: time.Now().UTC()})
	s.mu.Unlock()
	return nil
}

// FilteredTasks pipes the canonical collection through the filter engine
// and then the sort engine. Recomputed on every call; the collection is
// small and a stale cache would be worse than the recompute.
func (s *Store) FilteredTasks() []Task {
	s.mu.RLock()
	tasks := s.snapshotLocked()
	filters := s.filters
	sortCfg := s.sortCfg
	s.mu.RUnlock()

	return SortTasks(ApplyFilters(tasks, filters, time.Now().UTC()), sortCfg)
}

// Tasks returns the canonical collection in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Tasks:      s.snapshotLocked(),
		Filters:    s.filters,
		SortConfig: s.sortCfg,
		IsLoading:  s.loading,
		IsHydrated: s.hydrated,
		Error:      s.errMsg,
	}
}

func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// ReplaceAll swaps in an imported collection. Unlike regular mutations the
// save is awaited, because the caller explicitly asked to replace durable
// state and deserves the failure. On success the store re-reads from the
// adapter, the import analogue of hydration.
func (s *Store) ReplaceAll(ctx context.Context, tasks []Task) error {
	for i := range tasks {
		if normalizeTitle(tasks[i].Title) == "" {
			s.fail(fmt.Sprintf("Imported task %d has an empty title.", i+1))
			return ErrEmptyTitle
		}
		if !tasks[i].Status.Valid() {
			s.fail(fmt.Sprintf("Imported task %d has an unknown status.", i+1))
			return ErrInvalidStatus
		}
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
		if tasks[i].CreatedAt.IsZero() {
			tasks[i].CreatedAt = time.Now().UTC()
		}
	}

	if err := s.db.SaveAll(ctx, tasks); err != nil {
		s.countPersist("save", false)
		s.fail("Import failed: could not write the new board.")
		return err
	}
	s.countPersist("save", true)

	loaded, err := s.db.LoadAll(ctx)
	if err != nil {
		log.Printf("reload after import failed: %v", err)
		loaded = tasks
	}

	s.mu.Lock()
	s.tasks = loaded
	s.hydrated = true
	s.errMsg = ""
	s.setTasksGauge()
	s.publishLocked(Event{Type: EventBoardReplaced, At: time.Now().UTC()})
	s.mu.Unlock()
	return nil
}

// Subscribe registers a listener for board events. The returned cancel
// func must be called to release the channel. Slow listeners miss events
// rather than block mutations.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

// Close stops accepting new persists and waits for the in-flight one to
// drain any pending snapshot.
func (s *Store) Close() {
	s.saveMu.Lock()
	s.closed = true
	s.saveMu.Unlock()
	s.wg.Wait()
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// fail records a validation failure in the single user-visible error slot.
// A new failure overwrites the previous one.
func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) publishLocked(evt Event) {
	for _, ch := range s.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// schedulePersist marks the board dirty and ensures a single saver
// goroutine is running. The saver always writes the latest full snapshot.
func (s *Store) schedulePersist() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.closed {
		return
	}
	s.dirty = true
	if s.saving {
		return
	}
	s.saving = true
	s.wg.Add(1)
	go s.saveLoop()
}

func (s *Store) saveLoop() {
	defer s.wg.Done()
	for {
		s.saveMu.Lock()
		if !s.dirty {
			s.saving = false
			s.saveMu.Unlock()
			return
		}
		s.dirty = false
		s.saveMu.Unlock()

		s.mu.RLock()
		snapshot := s.snapshotLocked()
		s.mu.RUnlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		start := time.Now()
		err := s.db.SaveAll(ctx, snapshot)
		cancel()

		if err != nil {
			// Deliberately not surfaced: memory already reflects the
			// user's intent and the next mutation re-persists everything.
			log.Printf("task persist failed: %v", err)
			s.countPersist("save", false)
			continue
		}
		s.countPersist("save", true)
		s.observeSaveLatency(time.Since(start))
	}
}

func (s *Store) countOp(op string, ok bool) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	s.metrics.StoreOps.WithLabelValues(op, result).Inc()
}

func (s *Store) countPersist(op string, ok bool) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	s.metrics.PersistOps.WithLabelValues(op, result).Inc()
}

func (s *Store) setTasksGauge() {
	if s.metrics == nil {
		return
	}
	s.metrics.TasksTotal.Set(float64(len(s.tasks)))
}

func (s *Store) observeSaveLatency(d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.SaveLatency.Observe(float64(d.Milliseconds()))
}

func cloneTaskPtr(t Task) *Task {
	c := t.Clone()
	return &c
}
