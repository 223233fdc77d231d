package board

import "time"

type EventType string

const (
	EventBoardHydrated EventType = "board_hydrated"
	EventBoardReplaced EventType = "board_replaced"
	EventTaskAdded     EventType = "task_added"
	EventTaskUpdated   EventType = "task_updated"
	EventTaskMoved     EventType = "task_moved"
	EventTaskDeleted   EventType = "task_deleted"
	EventViewChanged   EventType = "view_changed"
)

// Event describes a board change for live listeners (the UI tabs).
type Event struct {
	Type   EventType `json:"type"`
	TaskID string    `json:"task_id,omitempty"`
	Task   *Task     `json:"task,omitempty"`
	At     time.Time `json:"at"`
}
