package commands

import (
	"fmt"
	"strings"

	"taskboard/internal/service"
)

// Flag values for status, priority and dates are parsed up front so bad
// input is rejected before any request is made.

func parseStatusFlag(s string) (service.Status, error) {
	st, ok := service.ParseStatus(s)
	if !ok {
		return "", fmt.Errorf("%w: invalid status %q (want todo, in_progress or done)", service.ErrValidation, s)
	}
	return st, nil
}

func parsePriorityFlag(s string) (service.Priority, error) {
	p, ok := service.ParsePriority(s)
	if !ok {
		return "", fmt.Errorf("%w: invalid priority %q (want low, medium or high)", service.ErrValidation, s)
	}
	return p, nil
}

func parseDateFlag(name, s string) (service.Date, error) {
	d, err := service.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return service.Date{}, fmt.Errorf("%w: invalid --%s date %q (want YYYY-MM-DD)", service.ErrValidation, name, s)
	}
	return d, nil
}
