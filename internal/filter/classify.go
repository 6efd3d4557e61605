package filter

import (
	"fmt"

	"taskboard/internal/service"
)

// DueClass buckets a due date relative to today.
type DueClass int

const (
	ClassNone DueClass = iota
	ClassOverdue
	ClassToday
	ClassTomorrow
	ClassThisWeek
	ClassLater
)

// Classification is a due-date bucket with its display label.
type Classification struct {
	Class DueClass
	Days  int // days from today; negative when overdue
	Label string
}

// Classify buckets due relative to today for display.
// A zero due date yields ClassNone with an empty label.
func Classify(due, today service.Date) Classification {
	if due.IsZero() {
		return Classification{Class: ClassNone}
	}

	days := today.DaysUntil(due)
	c := Classification{Days: days}
	switch {
	case days < 0:
		c.Class = ClassOverdue
		c.Label = fmt.Sprintf("Overdue by %s", plural(-days, "day"))
	case days == 0:
		c.Class = ClassToday
		c.Label = "Due today"
	case days == 1:
		c.Class = ClassTomorrow
		c.Label = "Due tomorrow"
	case days <= 7:
		c.Class = ClassThisWeek
		c.Label = fmt.Sprintf("Due in %d days", days)
	default:
		c.Class = ClassLater
		c.Label = "Due " + due.String()
	}
	return c
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
