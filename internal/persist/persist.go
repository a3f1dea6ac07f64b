// Package persist saves and loads the whole task collection as one JSON
// document under a fixed key of a blob store.
package persist

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Crixpsitos/lazytodo/internal/blob"
	"github.com/Crixpsitos/lazytodo/internal/logging"
	"github.com/Crixpsitos/lazytodo/internal/model"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "tasks"

//go:embed tasks.schema.json
var schemaJSON string

var collectionSchema = jsonschema.MustCompileString("tasks.schema.json", schemaJSON)

type Adapter struct {
	blobs  blob.Store
	key    string
	logger *log.Logger
}

type Option func(*Adapter)

func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(blobs blob.Store, opts ...Option) *Adapter {
	adapter := &Adapter{blobs: blobs, key: DefaultKey}
	for _, opt := range opts {
		opt(adapter)
	}
	adapter.logger = logging.OrDiscard(adapter.logger)
	return adapter
}

func (a *Adapter) Key() string {
	return a.key
}

// Save replaces the stored collection. An empty collection is stored as "[]".
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	records := make([]record, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, encodeTask(task))
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	if err := a.blobs.Set(ctx, a.key, string(data)); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	a.logger.Debug("saved tasks", "key", a.key, "count", len(tasks))
	return nil
}

// Load returns the stored collection. Missing, unreadable or malformed data
// yields an empty collection; failures are logged, never returned.
func (a *Adapter) Load(ctx context.Context) []model.Task {
	value, ok, err := a.blobs.Get(ctx, a.key)
	if err != nil {
		a.logger.Error("read tasks", "key", a.key, "err", err)
		return []model.Task{}
	}
	if !ok {
		a.logger.Debug("no stored tasks", "key", a.key)
		return []model.Task{}
	}

	tasks, err := Decode([]byte(value))
	if err != nil {
		a.logger.Warn("discarding unreadable tasks", "key", a.key, "err", err)
		return []model.Task{}
	}

	kept := dedupe(tasks, a.logger)
	a.logger.Debug("loaded tasks", "key", a.key, "count", len(kept))
	return kept
}

// Decode parses a stored collection.
func Decode(data []byte) ([]model.Task, error) {
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if err := collectionSchema.Validate(document); err != nil {
		return nil, fmt.Errorf("validate tasks: %w", err)
	}

	var records []looseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, rec.task())
	}
	return tasks, nil
}

func dedupe(tasks []model.Task, logger *log.Logger) []model.Task {
	seen := make(map[string]struct{}, len(tasks))
	kept := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID == "" {
			logger.Warn("skipping stored task without id", "title", task.Title)
			continue
		}
		if _, ok := seen[task.ID]; ok {
			logger.Warn("skipping duplicate stored task", "id", task.ID)
			continue
		}
		seen[task.ID] = struct{}{}
		kept = append(kept, task)
	}
	return kept
}
