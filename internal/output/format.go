// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskboard/internal/filter"
	"taskboard/internal/service"
)

// FormatTask formats one task line.
// Format: "{REF:>4}  {STATUS:<11}  {PRIORITY:<6}  {TITLE}[  ({DUE LABEL})]\n"
func FormatTask(w io.Writer, ref string, task service.Task, today service.Date) {
	fmt.Fprintf(w, "%4s  %-11s  %-6s  %s", ref, task.Status.Label(), task.Priority.Label(), normalizeTitle(task.Title))
	if c := filter.Classify(task.DueDate, today); c.Class != filter.ClassNone {
		fmt.Fprintf(w, "  (%s)", c.Label)
	}
	fmt.Fprintln(w)
}

// FormatDetail formats every field of a task, one per line.
func FormatDetail(w io.Writer, task service.Task, today service.Date) {
	fmt.Fprintf(w, "ID:        %s\n", task.ID)
	fmt.Fprintf(w, "Title:     %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "Status:    %s\n", task.Status.Label())
	fmt.Fprintf(w, "Priority:  %s\n", task.Priority.Label())
	if task.HasDueDate() {
		fmt.Fprintf(w, "Due:       %s (%s)\n", task.DueDate, filter.Classify(task.DueDate, today).Label)
	}
	if !task.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created:   %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	desc := strings.TrimSpace(task.Description)
	if desc == "" {
		desc = "No description provided."
	}
	fmt.Fprintln(w, "")
	for _, line := range strings.Split(desc, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// FormatCriteria describes the active filters, e.g.
// "filters: search=milk status=done due=overdue". Writes nothing when none are set.
func FormatCriteria(w io.Writer, c filter.Criteria) {
	var parts []string
	if s := strings.TrimSpace(c.Search); s != "" {
		parts = append(parts, fmt.Sprintf("search=%q", s))
	}
	if c.Status != "" {
		parts = append(parts, "status="+string(c.Status))
	}
	if c.Priority != "" {
		parts = append(parts, "priority="+string(c.Priority))
	}
	switch c.Due.Mode {
	case filter.ModeExact:
		parts = append(parts, "due="+c.Due.On.String())
	case filter.ModeRange:
		from, to := c.Due.From.String(), c.Due.To.String()
		if from == "" {
			from = "*"
		}
		if to == "" {
			to = "*"
		}
		parts = append(parts, "due="+from+".."+to)
	case filter.ModeOverdue:
		parts = append(parts, "due=overdue")
	case filter.ModeUpcoming:
		parts = append(parts, fmt.Sprintf("due=next %d days", c.Due.Within))
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintf(w, "filters: %s\n", strings.Join(parts, " "))
}

// FormatUser formats the signed-in user.
func FormatUser(w io.Writer, u service.User) {
	if u.Name == "" {
		fmt.Fprintln(w, u.Email)
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
