package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/matt-steen/task-tracker/pkg/task"
	"github.com/rs/zerolog/log"
)

var (
	// ErrFileNotFound means the tasks file does not exist yet; callers start empty.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnreadable means a file exists but could not be read, for example for
	// lack of permission or because the path is a directory. Unlike
	// ErrFileNotFound there is no fallback; callers should stop.
	ErrUnreadable = errors.New("file unreadable")
	// ErrMalformedData means a file could not be parsed into the expected shape.
	ErrMalformedData = errors.New("malformed data")
	// ErrIndexOutOfRange means a task index outside the collection.
	ErrIndexOutOfRange = errors.New("task index out of range")
	// ErrPersistence means a file could not be written.
	ErrPersistence = errors.New("persistence error")
)

// Store owns the ordered task collection and the view history for one session.
type Store struct {
	tasksPath   string
	historyPath string
	tasks       []task.Task
	history     *history
}

// fileTask mirrors task.Task with pointers so missing fields can be detected.
type fileTask struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	CreatedAt   *string `json:"date_creation"`
	ChangedAt   *string `json:"date_change"`
}

// New creates an empty store persisting tasks to tasksPath and views to historyPath.
// Nothing is read until LoadTasks and LoadViewHistory are called.
func New(tasksPath, historyPath string) *Store {
	return &Store{
		tasksPath:   tasksPath,
		historyPath: historyPath,
		tasks:       []task.Task{},
		history:     newHistory(),
	}
}

// TasksPath returns the file the collection is saved to.
func (s *Store) TasksPath() string {
	return s.tasksPath
}

// AddTask appends t to the end of the collection.
func (s *Store) AddTask(t task.Task) {
	s.tasks = append(s.tasks, t)

	log.Debug().Int("count", len(s.tasks)).Msgf("added task '%s'", t.Name)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the collection in order.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)

	return out
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return fmt.Errorf("%w: %d (count: %d)", ErrIndexOutOfRange, index+1, len(s.tasks))
	}

	return nil
}

// GetTask returns the task at the 0-based index.
func (s *Store) GetTask(index int) (task.Task, error) {
	if err := s.checkIndex(index); err != nil {
		return task.Task{}, err
	}

	return s.tasks[index], nil
}

// UpdateTask replaces the task at the 0-based index.
func (s *Store) UpdateTask(index int, t task.Task) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	s.tasks[index] = t

	return nil
}

// ChangeStatus applies a status transition to the task at index and saves the
// collection. The stored task is unchanged if the transition is rejected.
func (s *Store) ChangeStatus(index int, next task.Status, now time.Time) (task.Task, error) {
	t, err := s.GetTask(index)
	if err != nil {
		return task.Task{}, err
	}

	previous := t.Status

	if err = t.TryTransition(next, now); err != nil {
		return task.Task{}, err
	}

	s.tasks[index] = t

	log.Info().
		Int("task", index+1).
		Str("from", string(previous)).
		Str("to", string(next)).
		Msg("status changed")

	if err = s.SaveTasks(); err != nil {
		return t, err
	}

	return t, nil
}

// SaveTasks writes the whole collection to the tasks file keyed "Task 1", "Task 2", ...
func (s *Store) SaveTasks() error {
	entries := make([]entry, 0, len(s.tasks))

	for i, t := range s.tasks {
		value, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("%w: encoding task %d: %w", ErrPersistence, i+1, err)
		}

		entries = append(entries, entry{key: fmt.Sprintf("Task %d", i+1), value: value})
	}

	data, err := encodeRecord(entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err = writeFileAtomic(s.tasksPath, data); err != nil {
		return fmt.Errorf("%w: error writing tasks to %s: %w", ErrPersistence, s.tasksPath, err)
	}

	log.Debug().Int("count", len(s.tasks)).Msgf("saved tasks to %s", s.tasksPath)

	return nil
}

// LoadTasks replaces the collection with the contents of the tasks file,
// keeping file order. The collection is untouched on error.
func (s *Store) LoadTasks() error {
	data, err := os.ReadFile(s.tasksPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, s.tasksPath)
	}

	if err != nil {
		return fmt.Errorf("%w: error reading tasks from %s: %w", ErrUnreadable, s.tasksPath, err)
	}

	entries, err := decodeRecord(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedData, s.tasksPath, err)
	}

	tasks := make([]task.Task, 0, len(entries))

	for _, e := range entries {
		t, err := decodeTask(e.value)
		if err != nil {
			return fmt.Errorf("%w: %s: %s: %w", ErrMalformedData, s.tasksPath, e.key, err)
		}

		tasks = append(tasks, t)
	}

	s.tasks = tasks

	log.Debug().Int("count", len(tasks)).Msgf("loaded tasks from %s", s.tasksPath)

	return nil
}

func decodeTask(raw json.RawMessage) (task.Task, error) {
	var ft fileTask

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&ft); err != nil {
		return task.Task{}, err
	}

	required := []struct {
		field string
		value *string
	}{
		{"name", ft.Name},
		{"description", ft.Description},
		{"status", ft.Status},
		{"date_creation", ft.CreatedAt},
	}

	for _, r := range required {
		if r.value == nil {
			return task.Task{}, fmt.Errorf("missing field %s", r.field)
		}
	}

	status := task.Status(*ft.Status)
	if !status.Valid() {
		return task.Task{}, fmt.Errorf("%w: '%s'", task.ErrUnknownStatus, status)
	}

	t := task.Task{
		Name:        *ft.Name,
		Description: *ft.Description,
		Status:      status,
		CreatedAt:   *ft.CreatedAt,
	}

	if ft.ChangedAt != nil {
		t.ChangedAt = *ft.ChangedAt
	}

	return t, nil
}
