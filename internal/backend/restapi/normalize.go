package restapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// record is a task as received from the API, before normalization.
type record map[string]any

// decodeList accepts either a bare array or {"tasks": [...]}.
// Anything else is an empty list.
func decodeList(body []byte) ([]record, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", service.ErrNetwork, err)
	}
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items, _ = t["tasks"].([]any)
	}

	out := make([]record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, record(m))
		}
	}
	return out, nil
}

// decodeOne accepts either a bare record or {"task": {...}}.
func decodeOne(body []byte) (record, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", service.ErrNetwork, err)
	}
	if inner, ok := m["task"].(map[string]any); ok {
		return record(inner), nil
	}
	return record(m), nil
}

// str returns the first non-empty string under keys.
// Numeric values are formatted, since some backends send numeric ids.
func (r record) str(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// normalize maps a raw record onto service.Task, applying defaults for
// missing or malformed fields. Only a missing identifier is an error.
// The misspelled "litle" key is what an older backend sent for the title.
func normalize(r record, now time.Time) (service.Task, error) {
	id := r.str("_id", "id")
	if id == "" {
		return service.Task{}, fmt.Errorf("%w: missing id", service.ErrMalformedRecord)
	}
	fields := log.Fields{"task": id}

	t := service.Task{
		ID:          id,
		Title:       r.str("litle", "title"),
		Description: r.str("description"),
		Status:      service.StatusTodo,
		Priority:    service.PriorityMedium,
		CreatedAt:   now,
	}
	if strings.TrimSpace(t.Title) == "" {
		t.Title = "Untitled"
	}

	if raw := r.str("status"); raw != "" {
		if s, ok := service.ParseStatus(raw); ok {
			t.Status = s
		} else {
			log.WithFields(fields).WithField("status", raw).Debug("unknown status, using todo")
		}
	}
	if raw := r.str("priority"); raw != "" {
		if p, ok := service.ParsePriority(raw); ok {
			t.Priority = p
		} else {
			log.WithFields(fields).WithField("priority", raw).Debug("unknown priority, using medium")
		}
	}
	if raw := r.str("dueDate"); raw != "" {
		if d, err := service.ParseDate(raw); err == nil {
			t.DueDate = d
		} else {
			log.WithFields(fields).WithField("dueDate", raw).Debug("unparsable due date, ignoring")
		}
	}
	if raw := r.str("createdAt"); raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			t.CreatedAt = ts
		} else {
			log.WithFields(fields).WithField("createdAt", raw).Debug("unparsable createdAt, using now")
		}
	}
	return t, nil
}

// normalizeList normalizes every record, dropping those without an id.
func normalizeList(records []record, now time.Time) []service.Task {
	tasks := make([]service.Task, 0, len(records))
	for _, r := range records {
		t, err := normalize(r, now)
		if err != nil {
			log.WithError(err).Debug("dropping task record")
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// authReply is the body of /auth/login and /auth/signup.
type authReply struct {
	User  record `json:"user"`
	Token string `json:"token"`
}

func decodeAuth(body []byte) (service.User, string, error) {
	var reply authReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return service.User{}, "", fmt.Errorf("%w: invalid response: %v", service.ErrNetwork, err)
	}
	if reply.Token == "" || reply.User == nil {
		return service.User{}, "", fmt.Errorf("%w: auth reply without user or token", service.ErrMalformedRecord)
	}
	u := service.User{
		ID:    reply.User.str("_id", "id"),
		Name:  reply.User.str("name"),
		Email: reply.User.str("email"),
	}
	return u, reply.Token, nil
}
