package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matt-steen/task-tracker/pkg/store"
	"github.com/matt-steen/task-tracker/pkg/task"
	"github.com/stretchr/testify/assert"
)

func TestRecordView(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t)
	s.AddTask(newTask("A", task.StatusNew))
	s.AddTask(newTask("B", task.StatusNew))

	assert.Nil(s.RecordView(1, now))
	assert.Equal([]store.View{{At: "2024-03-05 14:30:15", Description: "task 2"}}, s.ViewHistory())

	err := s.RecordView(2, now)
	assert.True(errors.Is(err, store.ErrIndexOutOfRange))

	err = s.RecordView(-1, now)
	assert.True(errors.Is(err, store.ErrIndexOutOfRange))

	assert.Equal(1, len(s.ViewHistory()))
}

func TestRecordViewSameSecond(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t)
	s.AddTask(newTask("A", task.StatusNew))
	s.AddTask(newTask("B", task.StatusNew))

	assert.Nil(s.RecordView(0, now))
	assert.Nil(s.RecordView(1, now.Add(time.Second)))
	assert.Nil(s.RecordView(1, now.Add(300*time.Millisecond)))

	assert.Equal([]store.View{
		{At: "2024-03-05 14:30:15", Description: "task 2"},
		{At: "2024-03-05 14:30:16", Description: "task 2"},
	}, s.ViewHistory())
}

func TestViewHistoryRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, dir := getStore(t)
	s.AddTask(newTask("A", task.StatusNew))
	s.AddTask(newTask("B", task.StatusNew))

	// later timestamp first so order is not mistaken for sorting
	assert.Nil(s.RecordView(1, now.Add(time.Hour)))
	assert.Nil(s.RecordView(0, now))
	assert.Nil(s.SaveViewHistory())

	reloaded := store.New(filepath.Join(dir, "tasks.json"), filepath.Join(dir, "view_history.txt"))
	assert.Nil(reloaded.LoadViewHistory())

	assert.Equal([]store.View{
		{At: "2024-03-05 15:30:15", Description: "task 2"},
		{At: "2024-03-05 14:30:15", Description: "task 1"},
	}, reloaded.ViewHistory())

	data, err := os.ReadFile(filepath.Join(dir, "view_history.txt"))
	assert.Nil(err)
	assert.Equal("{\n    \"2024-03-05 15:30:15\": \"task 2\",\n    \"2024-03-05 14:30:15\": \"task 1\"\n}\n", string(data))
}

func TestLoadViewHistoryMissingFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t)

	assert.Nil(s.LoadViewHistory())
	assert.Equal([]store.View{}, s.ViewHistory())
}

func TestLoadViewHistoryMalformed(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, dir := getStore(t)
	assert.Nil(os.WriteFile(filepath.Join(dir, "view_history.txt"), []byte(`{"2024-01-01 10:00:00": 3}`), 0o600))

	err := s.LoadViewHistory()
	assert.True(errors.Is(err, store.ErrMalformedData))
}

func TestSaveViewHistoryEmpty(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, dir := getStore(t)
	assert.Nil(s.SaveViewHistory())

	data, err := os.ReadFile(filepath.Join(dir, "view_history.txt"))
	assert.Nil(err)
	assert.Equal("{}\n", string(data))
}

func TestLoadViewHistoryUnreadable(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "tasks.json"), dir)

	err := s.LoadViewHistory()
	assert.True(errors.Is(err, store.ErrUnreadable), "got %v", err)
}
