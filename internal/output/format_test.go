package output_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/filter"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

var today = service.Date{Year: 2024, Month: 1, Day: 5}

func Test_FormatTask_Golden(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTask(&buf, "1", service.Task{Title: "Pay rent", Status: service.StatusTodo, Priority: service.PriorityHigh, DueDate: service.Date{Year: 2024, Month: 1, Day: 1}}, today)
	output.FormatTask(&buf, "2", service.Task{Title: "File\ntaxes", Status: service.StatusDone, Priority: service.PriorityLow}, today)
	output.FormatTask(&buf, "3", service.Task{Title: "  ", Status: service.StatusInProgress, Priority: service.PriorityMedium, DueDate: service.Date{Year: 2024, Month: 1, Day: 6}}, today)
	output.FormatTask(&buf, "id:abc", service.Task{Title: "Plan trip", Status: service.StatusTodo, Priority: service.PriorityMedium, DueDate: service.Date{Year: 2024, Month: 2, Day: 1}}, today)

	testutil.Golden(t, "tasks", buf.Bytes())
}

func Test_FormatDetail(t *testing.T) {
	var buf bytes.Buffer
	output.FormatDetail(&buf, service.Task{
		ID:       "t1",
		Title:    "Plan trip",
		Status:   service.StatusInProgress,
		Priority: service.PriorityLow,
		DueDate:  service.Date{Year: 2024, Month: 1, Day: 7},
	}, today)

	want := "ID:        t1\n" +
		"Title:     Plan trip\n" +
		"Status:    In Progress\n" +
		"Priority:  Low\n" +
		"Due:       2024-01-07 (Due in 2 days)\n" +
		"\n" +
		"  No description provided.\n"
	assert.Equal(t, want, buf.String())
}

func Test_FormatCriteria(t *testing.T) {
	var buf bytes.Buffer
	output.FormatCriteria(&buf, filter.Criteria{})
	assert.Empty(t, buf.String())

	output.FormatCriteria(&buf, filter.Criteria{
		Search: "milk",
		Status: service.StatusDone,
		Due:    filter.DueBetween(service.Date{}, today),
	})
	assert.Equal(t, "filters: search=\"milk\" status=done due=*..2024-01-05\n", buf.String())
}

func Test_FormatUser(t *testing.T) {
	var buf bytes.Buffer
	output.FormatUser(&buf, service.User{Name: "Alice", Email: "alice@example.com"})
	assert.Equal(t, "Alice <alice@example.com>\n", buf.String())
}
