// Package filter derives the visible task set from the active criteria.
package filter

import (
	"strings"

	"taskboard/internal/service"
)

// DueMode selects which due-date predicate is active.
type DueMode int

const (
	ModeNone DueMode = iota
	ModeExact
	ModeRange
	ModeOverdue
	ModeUpcoming
)

func (m DueMode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeRange:
		return "range"
	case ModeOverdue:
		return "overdue"
	case ModeUpcoming:
		return "upcoming"
	default:
		return "none"
	}
}

// DueFilter is the due-date part of the criteria.
// Only the fields owned by Mode are ever set. Build it with the
// constructors below so that switching modes drops the other fields.
type DueFilter struct {
	Mode   DueMode
	On     service.Date // exact
	From   service.Date // range, zero means unbounded
	To     service.Date // range, zero means unbounded
	Within int          // upcoming, days ahead
}

// NoDue clears the due-date filter.
func NoDue() DueFilter { return DueFilter{} }

// DueOn matches tasks due on day d.
func DueOn(d service.Date) DueFilter {
	return DueFilter{Mode: ModeExact, On: d}
}

// DueBetween matches tasks due within [from, to]. Either bound may be zero.
func DueBetween(from, to service.Date) DueFilter {
	return DueFilter{Mode: ModeRange, From: from, To: to}
}

// DueOverdue matches unfinished tasks due before today.
func DueOverdue() DueFilter {
	return DueFilter{Mode: ModeOverdue}
}

// DueWithin matches tasks due between today and n days ahead.
// A negative n matches nothing.
func DueWithin(n int) DueFilter {
	return DueFilter{Mode: ModeUpcoming, Within: n}
}

// Criteria is the active combination of filter predicates.
// Zero-valued fields are unset.
type Criteria struct {
	Search   string
	Status   service.Status
	Priority service.Priority
	Due      DueFilter
}

// Patch is a partial criteria update. Nil fields keep their prior value.
type Patch struct {
	Search   *string
	Status   *service.Status
	Priority *service.Priority
	Due      *DueFilter
}

// Merge returns c with the non-nil fields of p applied.
func (c Criteria) Merge(p Patch) Criteria {
	if p.Search != nil {
		c.Search = *p.Search
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.Due != nil {
		c.Due = *p.Due
	}
	return c
}

// Query maps the criteria onto the list endpoint parameters.
func (c Criteria) Query() service.Query {
	q := service.Query{
		Status:   c.Status,
		Search:   strings.TrimSpace(c.Search),
		Priority: c.Priority,
	}
	switch c.Due.Mode {
	case ModeExact:
		q.DueDate = c.Due.On
	case ModeRange:
		q.DueDateFrom = c.Due.From
		q.DueDateTo = c.Due.To
	case ModeOverdue:
		q.Overdue = true
	case ModeUpcoming:
		n := c.Due.Within
		q.Upcoming = &n
	}
	return q
}
