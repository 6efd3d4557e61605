// Package app turns user intents into store actions and API calls.
//
// Every network call is bracketed by the task store's loading flag, and
// failures are recorded as store error state before being handed back to
// the caller for reporting.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"taskboard/internal/filter"
	"taskboard/internal/service"
	"taskboard/internal/store"
)

// Board wires the gateway to the auth and task stores.
type Board struct {
	svc   service.Service
	auth  *store.AuthStore
	tasks *store.TaskStore

	// fetchSeq numbers list fetches; only the newest may commit.
	fetchSeq atomic.Uint64

	// Clock returns the current time; "today" is derived from it.
	Clock func() time.Time
}

// New creates a Board.
func New(svc service.Service, auth *store.AuthStore, tasks *store.TaskStore) *Board {
	return &Board{
		svc:   svc,
		auth:  auth,
		tasks: tasks,
		Clock: time.Now,
	}
}

// Auth returns the auth store.
func (b *Board) Auth() *store.AuthStore { return b.auth }

// Tasks returns the task store.
func (b *Board) Tasks() *store.TaskStore { return b.tasks }

// Today is the local calendar day used by due-date filtering.
func (b *Board) Today() service.Date {
	return service.DateOf(b.Clock())
}

// Visible returns the tasks matching the active criteria.
func (b *Board) Visible() []service.Task {
	return b.tasks.Visible(b.Today())
}

// SetFilter merges p into the active criteria.
func (b *Board) SetFilter(p filter.Patch) {
	b.tasks.SetFilter(p)
}

// Refresh fetches the task list for the active criteria.
// If another Refresh started after this one, this result is discarded.
func (b *Board) Refresh(ctx context.Context) error {
	seq := b.fetchSeq.Add(1)
	b.tasks.SetLoading(true)

	tasks, err := b.svc.ListTasks(ctx, b.tasks.State().Criteria.Query())

	if seq != b.fetchSeq.Load() {
		log.WithField("seq", seq).Debug("discarding stale task list")
		return err
	}
	if err != nil {
		b.tasks.SetError(service.MessageOf(err, "Failed to fetch tasks"))
		return err
	}
	b.tasks.ReplaceAll(tasks)
	return nil
}

// Open fetches one task and selects it.
func (b *Board) Open(ctx context.Context, id string) (service.Task, error) {
	b.tasks.SetLoading(true)
	t, err := b.svc.GetTask(ctx, id)
	if err != nil {
		b.tasks.SetError(service.MessageOf(err, "Failed to load task"))
		return service.Task{}, err
	}
	b.tasks.Dispatch(
		store.ApplyUpdate{Task: t},
		store.SelectTask{Task: &t},
		store.SetLoading{Loading: false},
	)
	return t, nil
}

// OpenCreate shows the create form.
func (b *Board) OpenCreate() {
	b.tasks.Dispatch(store.ToggleCreateModal{Open: true})
}

// Create validates d, creates the task and prepends it.
// Validation failures return before any state change.
func (b *Board) Create(ctx context.Context, d service.Draft) (service.Task, error) {
	if err := d.Validate(); err != nil {
		return service.Task{}, err
	}

	b.tasks.SetLoading(true)
	t, err := b.svc.CreateTask(ctx, d)
	if err != nil {
		b.tasks.SetError(service.MessageOf(err, "Failed to create task"))
		return service.Task{}, err
	}
	b.tasks.Dispatch(
		store.InsertNew{Task: t},
		store.SetLoading{Loading: false},
		store.ToggleCreateModal{Open: false},
	)
	return t, nil
}

// BeginEdit selects t and shows the edit form.
func (b *Board) BeginEdit(t service.Task) {
	b.tasks.Dispatch(store.SelectTask{Task: &t}, store.ToggleEditModal{Open: true})
}

// SaveEdit applies p to the selected task and closes the edit form.
func (b *Board) SaveEdit(ctx context.Context, p service.Patch) (service.Task, error) {
	sel := b.tasks.State().Selected
	if sel == nil {
		return service.Task{}, fmt.Errorf("%w: no task selected", service.ErrValidation)
	}
	t, err := b.Update(ctx, sel.ID, p)
	if err != nil {
		return service.Task{}, err
	}
	b.tasks.Dispatch(store.ToggleEditModal{Open: false})
	return t, nil
}

// Update sends a partial update and replaces the local copy.
func (b *Board) Update(ctx context.Context, id string, p service.Patch) (service.Task, error) {
	if err := p.Validate(); err != nil {
		return service.Task{}, err
	}

	b.tasks.SetLoading(true)
	t, err := b.svc.UpdateTask(ctx, id, p)
	if err != nil {
		b.tasks.SetError(service.MessageOf(err, "Failed to update task"))
		return service.Task{}, err
	}
	b.tasks.Dispatch(store.ApplyUpdate{Task: t}, store.SetLoading{Loading: false})
	return t, nil
}

// Delete removes a task. On failure the local copy stays in place.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.tasks.SetLoading(true)
	if err := b.svc.DeleteTask(ctx, id); err != nil {
		b.tasks.SetError(service.MessageOf(err, "Failed to delete task"))
		return err
	}
	b.tasks.Dispatch(store.RemoveByID{ID: id}, store.SetLoading{Loading: false})
	return nil
}

// Restore loads the persisted session.
func (b *Board) Restore(ctx context.Context) {
	b.auth.Restore(ctx)
}

// Login authenticates and persists the session.
func (b *Board) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password required", service.ErrValidation)
	}

	b.auth.SetPending(true)
	user, token, err := b.svc.Login(ctx, email, password)
	if err != nil {
		b.auth.SetFailure(service.MessageOf(err, "Login failed"))
		return err
	}
	b.auth.SetSession(ctx, user, token)
	return nil
}

// Signup registers an account and persists the session.
func (b *Board) Signup(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("%w: name, email and password required", service.ErrValidation)
	}

	b.auth.SetPending(true)
	user, token, err := b.svc.Signup(ctx, name, email, password)
	if err != nil {
		b.auth.SetFailure(service.MessageOf(err, "Signup failed"))
		return err
	}
	b.auth.SetSession(ctx, user, token)
	return nil
}

// Logout clears the session and drops cached tasks.
func (b *Board) Logout(ctx context.Context) {
	b.auth.ClearSession(ctx)
	b.tasks.ReplaceAll(nil)
}
