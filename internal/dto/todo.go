package dto

import "time"

// CreateTodoInput is the input of the create procedure.
// Empty text is rejected by the service with a validation error.
type CreateTodoInput struct {
	Text string `json:"text" example:"Buy groceries"`
}

// UpdateTodoInput is the input of the update procedure. Absent (or null)
// text/completed leave the stored value unchanged.
// ID is a pointer so that a missing id is a bad request while an id that
// matches no row (0 or negative included) is reported as not found.
type UpdateTodoInput struct {
	ID        *int64  `json:"id" binding:"required" example:"1"`
	Text      *string `json:"text,omitempty" example:"Buy bread"`
	Completed *bool   `json:"completed,omitempty" example:"true"`
}

// TodoIDInput is the input of the get and delete procedures.
type TodoIDInput struct {
	ID *int64 `json:"id" binding:"required" example:"1"`
}

type TodoResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeleteTodoResponse struct {
	Success bool `json:"success"`
}
