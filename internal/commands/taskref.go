package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskboard/internal/app"
	"taskboard/internal/filter"
	"taskboard/internal/service"
	"taskboard/internal/store"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in the unfiltered listing; 0 when ID is set
	ID  string // explicit task ID from "id:<id>"
}

// String renders the reference the way a user would type it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return idPrefix + r.ID
	}
	return strconv.Itoa(r.Num)
}

const idPrefix = "id:"

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskOutOfRange indicates a task number past the end of the listing.
	ErrTaskOutOfRange = errors.New("task number out of range")
)

// ParseTaskRef parses the task reference from the first arg.
//
// Accepted forms:
//   - all digits: position in the listing printed by "taskboard list"
//   - "id:<id>": the task's server ID
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := args[0]
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("%w: %s", ErrTaskOutOfRange, arg)
		}
		return TaskRef{Num: num}, nil
	}

	if id, found := strings.CutPrefix(arg, idPrefix); found {
		if id = strings.TrimSpace(id); id != "" {
			return TaskRef{ID: id}, nil
		}
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef loads the task ref points at.
// Numbered refs fetch the unfiltered listing first, so numbers match
// what "taskboard list" prints without filters.
func ResolveTaskRef(ctx context.Context, b *app.Board, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		return b.Open(ctx, ref.ID)
	}

	b.SetFilter(clearFilters())
	if err := b.Refresh(ctx); err != nil {
		return service.Task{}, err
	}

	tasks := b.Visible()
	if ref.Num < 1 || ref.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrTaskOutOfRange, ref.Num)
	}
	task := tasks[ref.Num-1]
	b.Tasks().Dispatch(store.SelectTask{Task: &task})
	return task, nil
}

// clearFilters resets every criterion.
func clearFilters() filter.Patch {
	var (
		search   string
		status   service.Status
		priority service.Priority
		due      = filter.NoDue()
	)
	return filter.Patch{Search: &search, Status: &status, Priority: &priority, Due: &due}
}
