package persist

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Crixpsitos/lazytodo/internal/blob"
	"github.com/Crixpsitos/lazytodo/internal/logging"
	"github.com/Crixpsitos/lazytodo/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	created := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.UTC)

	want := []model.Task{
		{
			ID:          "b",
			Title:       "Buy milk",
			Description: "2%",
			Priority:    model.PriorityHigh,
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Minute),
		},
		{
			ID:        "a",
			Title:     "Walk dog",
			Completed: true,
			Priority:  model.PriorityLow,
			CreatedAt: created.Add(time.Hour),
			UpdatedAt: created.Add(2 * time.Hour),
		},
	}

	if err := adapter.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := adapter.Load(context.Background())

	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		assertTaskEqual(t, want[i], got[i])
	}
}

func TestSaveEmptyWritesEmptyArray(t *testing.T) {
	adapter, blobs := newTestAdapter(t)
	if err := adapter.Save(context.Background(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	value, ok, err := blobs.Get(context.Background(), DefaultKey)
	if err != nil || !ok {
		t.Fatalf("expected stored value, got ok=%v err=%v", ok, err)
	}
	if value != "[]" {
		t.Fatalf("expected [], got %q", value)
	}
}

func TestSaveWritesISOTimestampsAndOmitsEmptyDescription(t *testing.T) {
	adapter, blobs := newTestAdapter(t)
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	task := model.Task{ID: "x", Title: "Plain", Priority: model.PriorityMedium, CreatedAt: created, UpdatedAt: created}

	if err := adapter.Save(context.Background(), []model.Task{task}); err != nil {
		t.Fatalf("save: %v", err)
	}
	value, _, _ := blobs.Get(context.Background(), DefaultKey)

	if !strings.Contains(value, `"createdAt":"2024-03-01T09:30:00Z"`) {
		t.Fatalf("expected ISO-8601 createdAt, got %s", value)
	}
	if strings.Contains(value, "description") {
		t.Fatalf("expected empty description to be omitted, got %s", value)
	}
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	got := adapter.Load(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil collection, got %#v", got)
	}
}

func TestLoadCorruptDataIsEmpty(t *testing.T) {
	cases := map[string]string{
		"not json":        "{{{",
		"object":          `{"id":"1"}`,
		"missing title":   `[{"id":"1"}]`,
		"bad timestamp":   `[{"id":"1","title":"Task","createdAt":"yesterday"}]`,
		"boolean id":      `[{"id":true,"title":"Task"}]`,
		"string complete": `[{"id":"1","title":"Task","completed":"yes"}]`,
	}

	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			var logs bytes.Buffer
			blobs := blob.NewMemory()
			adapter := New(blobs, WithLogger(logging.New(&logs, logging.Options{Level: "warn"})))
			if err := blobs.Set(context.Background(), DefaultKey, stored); err != nil {
				t.Fatalf("seed: %v", err)
			}

			got := adapter.Load(context.Background())
			if len(got) != 0 {
				t.Fatalf("expected empty collection, got %d tasks", len(got))
			}
			if !strings.Contains(logs.String(), "discarding unreadable tasks") {
				t.Fatalf("expected a warning to be logged, got %q", logs.String())
			}
		})
	}
}

func TestLoadAcceptsLegacyShapes(t *testing.T) {
	adapter, blobs := newTestAdapter(t)
	stored := `[
		{"id": 1700000000000, "title": "Numeric id", "description": "from the old app", "completed": true, "createdAt": 1700000000000},
		{"id": "u-2", "title": "No priority", "createdAt": "2024-01-02T03:04:05.678Z"},
		{"id": "u-3", "title": "Odd priority", "priority": "urgent", "createdAt": "2024-01-02T03:04:05Z", "updatedAt": "2024-01-03T00:00:00Z"}
	]`
	if err := blobs.Set(context.Background(), DefaultKey, stored); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got := adapter.Load(context.Background())
	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}

	if got[0].ID != "1700000000000" {
		t.Fatalf("expected numeric id to load as string, got %q", got[0].ID)
	}
	if !got[0].CreatedAt.Equal(time.UnixMilli(1700000000000)) {
		t.Fatalf("expected epoch millis createdAt, got %v", got[0].CreatedAt)
	}
	if !got[0].UpdatedAt.Equal(got[0].CreatedAt) {
		t.Fatalf("expected missing updatedAt to fall back to createdAt")
	}
	if !got[0].Completed || got[0].Description != "from the old app" {
		t.Fatalf("expected completed task with description, got %+v", got[0])
	}

	if got[1].Priority != model.PriorityMedium {
		t.Fatalf("expected missing priority to default to medium, got %q", got[1].Priority)
	}
	if got[1].CreatedAt.Nanosecond() != 678000000 {
		t.Fatalf("expected millisecond precision to survive, got %v", got[1].CreatedAt)
	}

	if got[2].Priority != model.PriorityMedium {
		t.Fatalf("expected unknown priority to default to medium, got %q", got[2].Priority)
	}
	if !got[2].UpdatedAt.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected explicit updatedAt, got %v", got[2].UpdatedAt)
	}
}

func TestLoadDropsDuplicateAndMissingIDs(t *testing.T) {
	adapter, blobs := newTestAdapter(t)
	stored := `[
		{"id": "a", "title": "First"},
		{"id": "a", "title": "Second"},
		{"id": "", "title": "Anonymous"}
	]`
	if err := blobs.Set(context.Background(), DefaultKey, stored); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got := adapter.Load(context.Background())
	if len(got) != 1 || got[0].Title != "First" {
		t.Fatalf("expected only the first task to survive, got %+v", got)
	}
}

func TestLoadReadFailureIsEmpty(t *testing.T) {
	adapter := New(failingBlobs{err: errors.New("disk gone")})
	if got := adapter.Load(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty collection, got %d tasks", len(got))
	}
}

func TestSaveReportsWriteFailure(t *testing.T) {
	adapter := New(failingBlobs{err: errors.New("disk full")})
	err := adapter.Save(context.Background(), []model.Task{{ID: "a", Title: "Task"}})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}

func TestWithKey(t *testing.T) {
	blobs := blob.NewMemory()
	adapter := New(blobs, WithKey("todos"))
	if adapter.Key() != "todos" {
		t.Fatalf("expected key todos, got %q", adapter.Key())
	}
	if err := adapter.Save(context.Background(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, _ := blobs.Get(context.Background(), "todos"); !ok {
		t.Fatalf("expected collection under custom key")
	}
	if New(blobs, WithKey("")).Key() != DefaultKey {
		t.Fatalf("expected empty key to keep the default")
	}
}

type failingBlobs struct {
	err error
}

func (f failingBlobs) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingBlobs) Set(context.Context, string, string) error { return f.err }
func (f failingBlobs) Delete(context.Context, string) error { return f.err }

func newTestAdapter(t *testing.T) (*Adapter, *blob.Memory) {
	t.Helper()
	blobs := blob.NewMemory()
	return New(blobs), blobs
}

func assertTaskEqual(t *testing.T, want, got model.Task) {
	t.Helper()
	if want.ID != got.ID || want.Title != got.Title || want.Description != got.Description ||
		want.Completed != got.Completed || want.Priority != got.Priority {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if !want.CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("expected createdAt %v, got %v", want.CreatedAt, got.CreatedAt)
	}
	if !want.UpdatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("expected updatedAt %v, got %v", want.UpdatedAt, got.UpdatedAt)
	}
}
