package restapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/service"
)

var fixedNow = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

func Test_normalize_Defaults(t *testing.T) {
	task, err := normalize(record{"id": "t1"}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, service.Task{
		ID:        "t1",
		Title:     "Untitled",
		Status:    service.StatusTodo,
		Priority:  service.PriorityMedium,
		CreatedAt: fixedNow,
	}, task)
}

func Test_normalize_AlternateKeys(t *testing.T) {
	task, err := normalize(record{
		"_id":   "mongo-1",
		"id":    "ignored",
		"litle": "Legacy title",
		"title": "Modern title",
	}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "mongo-1", task.ID)
	assert.Equal(t, "Legacy title", task.Title)
}

func Test_normalize_FullRecord(t *testing.T) {
	task, err := normalize(record{
		"_id":         "t1",
		"title":       "Write report",
		"description": "quarterly",
		"status":      "in-progress",
		"priority":    "high",
		"dueDate":     "2024-01-10T00:00:00.000Z",
		"createdAt":   "2024-01-01T08:30:00Z",
	}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "quarterly", task.Description)
	assert.Equal(t, service.StatusInProgress, task.Status)
	assert.Equal(t, service.PriorityHigh, task.Priority)
	assert.Equal(t, service.Date{Year: 2024, Month: time.January, Day: 10}, task.DueDate)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), task.CreatedAt)
}

func Test_normalize_MalformedFieldsFallBack(t *testing.T) {
	task, err := normalize(record{
		"id":        42.0,
		"status":    "archived",
		"priority":  "urgent",
		"dueDate":   "next week",
		"createdAt": "yesterday",
	}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "42", task.ID)
	assert.Equal(t, service.StatusTodo, task.Status)
	assert.Equal(t, service.PriorityMedium, task.Priority)
	assert.False(t, task.HasDueDate())
	assert.Equal(t, fixedNow, task.CreatedAt)
}

func Test_normalize_MissingID(t *testing.T) {
	_, err := normalize(record{"title": "orphan"}, fixedNow)
	assert.ErrorIs(t, err, service.ErrMalformedRecord)
}

func Test_decodeList_Envelopes(t *testing.T) {
	bare, err := decodeList([]byte(`[{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	assert.Len(t, bare, 2)

	wrapped, err := decodeList([]byte(`{"tasks":[{"id":"a"}]}`))
	require.NoError(t, err)
	assert.Len(t, wrapped, 1)

	other, err := decodeList([]byte(`{"count":0}`))
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = decodeList([]byte(`<html>`))
	assert.ErrorIs(t, err, service.ErrNetwork)
}

func Test_normalizeList_DropsRecordsWithoutID(t *testing.T) {
	records, err := decodeList([]byte(`[{"id":"a"},{"title":"no id"},{"_id":"c"}]`))
	require.NoError(t, err)

	tasks := normalizeList(records, fixedNow)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "c", tasks[1].ID)
}

func Test_decodeOne_Envelopes(t *testing.T) {
	r, err := decodeOne([]byte(`{"task":{"_id":"x","title":"wrapped"}}`))
	require.NoError(t, err)
	assert.Equal(t, "x", r.str("_id"))

	r, err = decodeOne([]byte(`{"_id":"y"}`))
	require.NoError(t, err)
	assert.Equal(t, "y", r.str("_id"))
}
