package types

import "time"

// Card field names.
const (
	FieldListID         = "listId"
	FieldBoardID        = "boardId"
	FieldDueDate        = "dueDate"
	FieldIsDueCompleted = "isDueCompleted"
	FieldIsClosed       = "isClosed"
)

// Card is the typed view of a card record.
type Card struct {
	ID             string         `json:"id"`
	BoardID        string         `json:"boardId"`
	ListID         string         `json:"listId"`
	CreatorUserID  string         `json:"creatorUserId"`
	Type           string         `json:"type"`
	Position       float64        `json:"position"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	DueDate        *time.Time     `json:"dueDate"`
	IsDueCompleted bool           `json:"isDueCompleted"`
	Stopwatch      map[string]any `json:"stopwatch"`
	CommentsTotal  int            `json:"commentsTotal"`
	IsClosed       bool           `json:"isClosed"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// TaskList is the typed view of a card's checklist.
type TaskList struct {
	ID                 string  `json:"id"`
	CardID             string  `json:"cardId"`
	Position           float64 `json:"position"`
	Name               string  `json:"name"`
	HideCompletedTasks bool    `json:"hideCompletedTasks"`
}

// Task is the typed view of one checklist item.
type Task struct {
	ID             string  `json:"id"`
	TaskListID     string  `json:"taskListId"`
	AssigneeUserID string  `json:"assigneeUserId"`
	Position       float64 `json:"position"`
	Name           string  `json:"name"`
	IsCompleted    bool    `json:"isCompleted"`
}

// Comment is the typed view of a card comment.
type Comment struct {
	ID        string    `json:"id"`
	CardID    string    `json:"cardId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
