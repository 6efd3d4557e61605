// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskboard/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Tasks are kept newest first, the way the API returns them.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	users  map[string]fakeAccount // email -> account
	nextID int

	// Now stamps CreatedAt on new tasks.
	Now func() time.Time

	// Queries records every ListTasks query.
	Queries []service.Query

	// ListHook, if set, runs at the start of ListTasks (e.g. to block).
	ListHook func(ctx context.Context, call int)

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	AuthErr       error
}

type fakeAccount struct {
	user     service.User
	password string
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users: make(map[string]fakeAccount),
		Now:   time.Now,
	}
}

// AddTask appends a task as if it already existed server-side.
func (f *FakeService) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// AddUser registers an account.
func (f *FakeService) AddUser(u service.User, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.Email] = fakeAccount{user: u, password: password}
}

// Tasks returns a copy of the server-side tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks...)
}

// ListTasks implements service.Service. Only status and search are
// applied server-side; callers filter the rest.
func (f *FakeService) ListTasks(ctx context.Context, q service.Query) ([]service.Task, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, q)
	call := len(f.Queries)
	f.mu.Unlock()

	if f.ListHook != nil {
		f.ListHook(ctx, call)
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Task
	for _, t := range f.tasks {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, notFound()
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, d service.Draft) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	t := service.Task{
		ID:          fmt.Sprintf("new-%d", f.nextID),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		CreatedAt:   f.Now(),
	}
	if d.DueDate != nil {
		t.DueDate = *d.DueDate
	}
	f.tasks = append([]service.Task{t}, f.tasks...)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, p service.Patch) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Status != nil {
			t.Status = *p.Status
		}
		if p.Priority != nil {
			t.Priority = *p.Priority
		}
		if p.DueDate != nil {
			t.DueDate = *p.DueDate
		}
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, notFound()
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound()
}

// Signup implements service.Service.
func (f *FakeService) Signup(ctx context.Context, name, email, password string) (service.User, string, error) {
	if f.AuthErr != nil {
		return service.User{}, "", f.AuthErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[email]; exists {
		return service.User{}, "", &service.Error{Kind: service.ErrNetwork, Message: "User already exists"}
	}
	u := service.User{ID: "user-" + email, Name: name, Email: email}
	f.users[email] = fakeAccount{user: u, password: password}
	return u, "token-" + email, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.User, string, error) {
	if f.AuthErr != nil {
		return service.User{}, "", f.AuthErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	acct, ok := f.users[email]
	if !ok || acct.password != password {
		return service.User{}, "", &service.Error{Kind: service.ErrUnauthorized, Message: "Invalid credentials"}
	}
	return acct.user, "token-" + email, nil
}

func notFound() error {
	return &service.Error{Kind: service.ErrNotFound, Message: "Task not found"}
}

// ErrBackend is a generic injected failure.
var ErrBackend = &service.Error{Kind: service.ErrNetwork, Message: "connection refused"}

var _ service.Service = (*FakeService)(nil)
