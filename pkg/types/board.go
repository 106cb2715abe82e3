package types

import "time"

// Common field names shared by most resources.
const (
	FieldName        = "name"
	FieldPosition    = "position"
	FieldDescription = "description"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// List types. Archive and trash lists exist on every board and are not
// user-visible columns.
const (
	ListTypeActive  = "active"
	ListTypeClosed  = "closed"
	ListTypeArchive = "archive"
	ListTypeTrash   = "trash"
)

// Project is the typed view of a project record.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsHidden    bool      `json:"isHidden"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Board is the typed view of a board record.
type Board struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	Position        float64   `json:"position"`
	Name            string    `json:"name"`
	DefaultView     string    `json:"defaultView"`
	DefaultCardType string    `json:"defaultCardType"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// List is the typed view of a list (board column) record.
type List struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"boardId"`
	Type      string    `json:"type"`
	Position  float64   `json:"position"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Label is the typed view of a board label record.
type Label struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"boardId"`
	Position  float64   `json:"position"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is the typed view of a user record. Email is only present for
// administrators and the current user.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Phone         string `json:"phone"`
	Organization  string `json:"organization"`
	IsDeactivated bool   `json:"isDeactivated"`
}
