package model

import "time"

// Task is a user-owned todo item from the `tasks` table. Every query on
// tasks is scoped by (id, user_id) jointly so one user's tasks are
// invisible to another. Deletion is soft.
type Task struct {
	ID          uint64    `json:"id"`          // tasks.id
	Title       string    `json:"title"`       // tasks.title
	Description string    `json:"description"` // tasks.description
	UserID      uint64    `json:"userId"`      // tasks.user_id (owner)
	Deleted     bool      `json:"deleted"`     // tasks.deleted (soft-delete flag)
	CreatedAt   time.Time `json:"createdAt"`   // tasks.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // tasks.updated_at
}
