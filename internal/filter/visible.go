package filter

import (
	"strings"

	"taskboard/internal/service"
)

// Visible returns the tasks satisfying every active predicate of c,
// in the order they appear in tasks.
func Visible(tasks []service.Task, c Criteria, today service.Date) []service.Task {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !matchesText(t, search) {
			continue
		}
		if c.Status != "" && t.Status != c.Status {
			continue
		}
		if c.Priority != "" && t.Priority != c.Priority {
			continue
		}
		if !MatchesDue(t, c.Due, today) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// matchesText expects needle already lowercased.
func matchesText(t service.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

// MatchesDue evaluates only the active due-date mode of f.
// Tasks without a due date match only ModeNone.
func MatchesDue(t service.Task, f DueFilter, today service.Date) bool {
	if f.Mode == ModeNone {
		return true
	}
	if !t.HasDueDate() {
		return false
	}
	due := t.DueDate

	switch f.Mode {
	case ModeExact:
		return due == f.On
	case ModeRange:
		if !f.From.IsZero() && due.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && due.After(f.To) {
			return false
		}
		return true
	case ModeOverdue:
		return due.Before(today) && t.Status != service.StatusDone
	case ModeUpcoming:
		days := today.DaysUntil(due)
		return days >= 0 && days <= f.Within
	}
	return false
}
