package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Crixpsitos/lazytodo/internal/model"
)

// record is the persisted shape of one task.
type record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func encodeTask(task model.Task) record {
	rec := record{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		CreatedAt:   formatTime(task.CreatedAt),
	}
	if !task.UpdatedAt.IsZero() {
		rec.UpdatedAt = formatTime(task.UpdatedAt)
	}
	return rec
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

// looseRecord accepts the shapes older front-ends wrote: numeric ids and
// epoch-millisecond timestamps.
type looseRecord struct {
	ID          looseID    `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    *string    `json:"priority"`
	CreatedAt   *looseTime `json:"createdAt"`
	UpdatedAt   *looseTime `json:"updatedAt"`
}

func (r looseRecord) task() model.Task {
	task := model.Task{
		ID:        string(r.ID),
		Title:     r.Title,
		Completed: r.Completed,
		Priority:  model.PriorityMedium,
	}
	if r.Description != nil {
		task.Description = *r.Description
	}
	if r.Priority != nil {
		if priority, err := model.ParsePriority(*r.Priority); err == nil {
			task.Priority = priority
		}
	}
	if r.CreatedAt != nil {
		task.CreatedAt = time.Time(*r.CreatedAt)
	}
	task.UpdatedAt = task.CreatedAt
	if r.UpdatedAt != nil && !time.Time(*r.UpdatedAt).IsZero() {
		task.UpdatedAt = time.Time(*r.UpdatedAt)
	}
	return task
}

type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*id = looseID(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = looseID(number.String())
	return nil
}

type looseTime time.Time

func (t *looseTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = looseTime{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", value, err)
		}
		*t = looseTime(parsed.UTC())
		return nil
	}
	millis, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", data, err)
	}
	*t = looseTime(time.UnixMilli(millis).UTC())
	return nil
}
