package service

import "context"

// Service defines the interface for the remote task API.
// Every record crossing this boundary is already normalized.
// Commands never talk HTTP directly.
type Service interface {
	// ListTasks returns tasks matching q, in API order.
	ListTasks(ctx context.Context, q Query) ([]Task, error)

	// GetTask returns one task. Returns ErrNotFound if absent.
	GetTask(ctx context.Context, id string) (Task, error)

	// CreateTask creates a task and returns the stored record.
	CreateTask(ctx context.Context, d Draft) (Task, error)

	// UpdateTask applies a partial update and returns the stored record.
	UpdateTask(ctx context.Context, id string, p Patch) (Task, error)

	// DeleteTask deletes a task. Returns ErrNotFound if absent.
	DeleteTask(ctx context.Context, id string) error

	// Signup registers an account and returns its session.
	Signup(ctx context.Context, name, email, password string) (User, string, error)

	// Login authenticates and returns the user and bearer token.
	Login(ctx context.Context, email, password string) (User, string, error)
}
