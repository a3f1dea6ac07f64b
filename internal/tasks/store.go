// Package tasks owns the task collection for a session: it validates and
// applies every change, writes the whole collection after each change, and
// projects sorted read-only views for display.
package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Crixpsitos/lazytodo/internal/logging"
	"github.com/Crixpsitos/lazytodo/internal/model"
)

// ErrIDCollision is returned when the ID generator keeps producing IDs that
// are already in use.
var ErrIDCollision = errors.New("could not generate a unique task id")

const maxIDAttempts = 8

// Persister saves and loads the whole collection.
type Persister interface {
	Save(ctx context.Context, tasks []model.Task) error
	Load(ctx context.Context) []model.Task
}

type Store struct {
	mu    sync.Mutex
	tasks []model.Task

	persister   Persister
	logger      *log.Logger
	now         func() time.Time
	newID       func() string
	defaultSort model.SortMode
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDefaultSort sets the mode used when Sorted is given an empty mode.
func WithDefaultSort(mode model.SortMode) Option {
	return func(s *Store) {
		if parsed, err := model.ParseSortMode(string(mode)); err == nil {
			s.defaultSort = parsed
		}
	}
}

func New(persister Persister, opts ...Option) *Store {
	s := &Store{
		tasks:       []model.Task{},
		persister:   persister,
		now:         time.Now,
		newID:       newUUID,
		defaultSort: model.DefaultSortMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	return s
}

func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Load replaces the in-memory collection with the persisted one.
func (s *Store) Load(ctx context.Context) {
	loaded := s.persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]model.Task(nil), loaded...)
	if s.tasks == nil {
		s.tasks = []model.Task{}
	}
	s.logger.Debug("loaded tasks", "count", len(s.tasks))
}

// Add validates the input and appends a new task.
func (s *Store) Add(ctx context.Context, title, description string, priority model.Priority) (model.Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return model.Task{}, err
	}
	description, err = NormalizeDescription(description)
	if err != nil {
		return model.Task{}, err
	}
	priority, err = NormalizePriority(priority)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueID()
	if err != nil {
		return model.Task{}, err
	}

	now := s.timestamp()
	task := model.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   false,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, task)
	s.logger.Debug("added task", "id", task.ID, "title", task.Title)
	s.persist(ctx)
	return task, nil
}

// ToggleCompletion flips the completed flag. Unknown ids are ignored.
func (s *Store) ToggleCompletion(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		s.logger.Debug("toggle ignored unknown task", "id", id)
		return
	}

	task := &s.tasks[index]
	task.Completed = !task.Completed
	task.UpdatedAt = s.timestamp()
	s.logger.Debug("toggled task", "id", id, "completed", task.Completed)
	s.persist(ctx)
}

// Update applies the non-nil fields of patch. Any invalid field rejects the
// whole update. Unknown ids are ignored.
func (s *Store) Update(ctx context.Context, id string, patch model.Patch) error {
	var (
		title       string
		description string
		priority    model.Priority
		err         error
	)
	if patch.Title != nil {
		if title, err = NormalizeTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if description, err = NormalizeDescription(*patch.Description); err != nil {
			return err
		}
	}
	if patch.Priority != nil {
		if priority, err = NormalizePriority(*patch.Priority); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		s.logger.Debug("update ignored unknown task", "id", id)
		return nil
	}

	task := &s.tasks[index]
	if patch.Title != nil {
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = description
	}
	if patch.Priority != nil {
		task.Priority = priority
	}
	task.UpdatedAt = s.timestamp()
	s.logger.Debug("updated task", "id", id)
	s.persist(ctx)
	return nil
}

// Delete removes a task. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		s.logger.Debug("delete ignored unknown task", "id", id)
		return
	}

	s.tasks = append(s.tasks[:index:index], s.tasks[index+1:]...)
	s.logger.Debug("deleted task", "id", id)
	s.persist(ctx)
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return model.Task{}, false
	}
	return s.tasks[index], true
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) Counts() model.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := model.Counts{Total: len(s.tasks)}
	for _, task := range s.tasks {
		if task.Completed {
			counts.Completed++
		}
	}
	counts.Pending = counts.Total - counts.Completed
	return counts
}

func (s *Store) DefaultSort() model.SortMode {
	return s.defaultSort
}

func (s *Store) snapshot() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
		s.logger.Warn("generated task id already in use", "id", id, "attempt", attempt+1)
	}
	return "", ErrIDCollision
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// persist writes the whole collection. Failures are logged and the in-memory
// collection stays authoritative.
func (s *Store) persist(ctx context.Context) {
	if err := s.persister.Save(ctx, s.snapshot()); err != nil {
		s.logger.Error("save tasks", "count", len(s.tasks), "err", err)
	}
}
