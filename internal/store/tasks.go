// Package store holds the client-side state containers.
//
// State is an explicit struct advanced by pure reducers in response to
// action values. The stores serialize dispatches and never return errors:
// failures are recorded as state.
package store

import (
	"sync"

	"taskboard/internal/filter"
	"taskboard/internal/service"
)

// UIState holds transient presentation flags.
type UIState struct {
	CreateOpen bool
	EditOpen   bool
	Loading    bool
	Error      string
}

// TaskState is the task collection, the active criteria and UI flags.
type TaskState struct {
	Tasks    []service.Task
	Selected *service.Task
	Criteria filter.Criteria
	UI       UIState
}

func (s TaskState) clone() TaskState {
	if s.Tasks != nil {
		s.Tasks = append([]service.Task(nil), s.Tasks...)
	}
	if s.Selected != nil {
		sel := *s.Selected
		s.Selected = &sel
	}
	return s
}

// TaskAction is an intent applied to TaskState.
type TaskAction interface {
	applyTo(s *TaskState)
}

// ReplaceAll replaces the collection after a list fetch.
type ReplaceAll struct{ Tasks []service.Task }

// InsertNew prepends a newly created task.
type InsertNew struct{ Task service.Task }

// ApplyUpdate replaces the task with the same ID, if present.
type ApplyUpdate struct{ Task service.Task }

// RemoveByID drops the task with the given ID, if present.
type RemoveByID struct{ ID string }

// SetFilter merges a partial criteria update.
type SetFilter struct{ Patch filter.Patch }

// SetLoading marks a network call in flight.
type SetLoading struct{ Loading bool }

// SetError records a failure; an empty message clears it.
type SetError struct{ Message string }

// SelectTask sets or clears (nil) the task being viewed or edited.
type SelectTask struct{ Task *service.Task }

// ToggleCreateModal opens or closes the create form.
type ToggleCreateModal struct{ Open bool }

// ToggleEditModal opens or closes the edit form.
type ToggleEditModal struct{ Open bool }

func (a ReplaceAll) applyTo(s *TaskState) {
	s.Tasks = append([]service.Task(nil), a.Tasks...)
	s.UI.Loading = false
	s.UI.Error = ""
}

func (a InsertNew) applyTo(s *TaskState) {
	s.Tasks = append([]service.Task{a.Task}, s.Tasks...)
}

func (a ApplyUpdate) applyTo(s *TaskState) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == a.Task.ID {
			s.Tasks[i] = a.Task
			break
		}
	}
	if s.Selected != nil && s.Selected.ID == a.Task.ID {
		t := a.Task
		s.Selected = &t
	}
}

func (a RemoveByID) applyTo(s *TaskState) {
	kept := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ID != a.ID {
			kept = append(kept, t)
		}
	}
	s.Tasks = kept
	if s.Selected != nil && s.Selected.ID == a.ID {
		s.Selected = nil
	}
}

func (a SetFilter) applyTo(s *TaskState) {
	s.Criteria = s.Criteria.Merge(a.Patch)
}

func (a SetLoading) applyTo(s *TaskState) {
	s.UI.Loading = a.Loading
}

func (a SetError) applyTo(s *TaskState) {
	s.UI.Error = a.Message
	s.UI.Loading = false
}

func (a SelectTask) applyTo(s *TaskState) {
	if a.Task == nil {
		s.Selected = nil
		return
	}
	t := *a.Task
	s.Selected = &t
}

func (a ToggleCreateModal) applyTo(s *TaskState) {
	s.UI.CreateOpen = a.Open
}

func (a ToggleEditModal) applyTo(s *TaskState) {
	s.UI.EditOpen = a.Open
}

// ReduceTasks returns the state after applying a. The input is not modified.
func ReduceTasks(s TaskState, a TaskAction) TaskState {
	next := s.clone()
	a.applyTo(&next)
	return next
}

// TaskStore serializes task actions.
type TaskStore struct {
	mu    sync.RWMutex
	state TaskState
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// Dispatch applies each action in order.
func (s *TaskStore) Dispatch(actions ...TaskAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.state = ReduceTasks(s.state, a)
	}
}

// State returns a copy of the current state.
func (s *TaskStore) State() TaskState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Visible returns the tasks matching the current criteria.
func (s *TaskStore) Visible(today service.Date) []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Visible(s.state.Tasks, s.state.Criteria, today)
}

func (s *TaskStore) ReplaceAll(tasks []service.Task) { s.Dispatch(ReplaceAll{Tasks: tasks}) }
func (s *TaskStore) InsertNew(t service.Task)        { s.Dispatch(InsertNew{Task: t}) }
func (s *TaskStore) ApplyUpdate(t service.Task)      { s.Dispatch(ApplyUpdate{Task: t}) }
func (s *TaskStore) RemoveByID(id string)            { s.Dispatch(RemoveByID{ID: id}) }
func (s *TaskStore) SetFilter(p filter.Patch)        { s.Dispatch(SetFilter{Patch: p}) }
func (s *TaskStore) SetLoading(loading bool)         { s.Dispatch(SetLoading{Loading: loading}) }
func (s *TaskStore) SetError(msg string)             { s.Dispatch(SetError{Message: msg}) }
