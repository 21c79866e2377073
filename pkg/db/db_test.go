package db_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matt-steen/task-tracker/pkg/db"
	"github.com/stretchr/testify/assert"
)

func getDB(t *testing.T, assert *assert.Assertions) (*db.Database, string) {
	filename := filepath.Join(t.TempDir(), "test_new_database.sqlite")

	database, err := db.NewDatabase(context.Background(), filename)
	assert.NotNil(database)
	assert.Nil(err)

	return database, filename
}

const tasksFile = "/home/me/tasks.json"

func change(taskNumber int, from, to string) db.StatusChange {
	return db.StatusChange{
		TasksFile:       tasksFile,
		TaskNumber:      taskNumber,
		TaskName:        "do some work",
		OldStatus:       from,
		NewStatus:       to,
		ChangedDatetime: time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC),
	}
}

func TestNewDatabaseBadFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, err := db.NewDatabase(context.Background(), "/alwfkjasfd/asdflkjdsal.sqlite")
	assert.Nil(database)
	assert.NotNil(err)
	assert.Equal("error running base sql: unable to open database file: no such file or directory", err.Error())
}

func TestNewDatabaseIdempotent(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, filename := getDB(t, assert)

	_, err := database.RecordStatusChange(context.Background(), change(1, "new", "in_progress"))
	assert.Nil(err)

	err = database.Close()
	assert.Nil(err)

	database2, err := db.NewDatabase(context.Background(), filename)
	assert.NotNil(database2)
	assert.Nil(err)

	defer database2.Close()

	changes, err := database2.StatusChanges(context.Background(), tasksFile, 1)
	assert.Nil(err)
	assert.Equal(1, len(changes))

	_, err = os.Stat(filename)
	assert.Nil(err)
}

func TestRecordStatusChange(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, _ := getDB(t, assert)
	defer database.Close()

	ctx := context.Background()

	first, err := database.RecordStatusChange(ctx, change(2, "new", "in_progress"))
	assert.Nil(err)
	assert.Equal(2, first.TaskNumber)
	assert.Less(0, first.ID())

	second, err := database.RecordStatusChange(ctx, change(2, "in_progress", "canceled"))
	assert.Nil(err)
	assert.Less(first.ID(), second.ID())

	_, err = database.RecordStatusChange(ctx, change(1, "new", "canceled"))
	assert.Nil(err)

	changes, err := database.StatusChanges(ctx, tasksFile, 2)
	assert.Nil(err)
	assert.Equal(2, len(changes))

	// oldest first
	assert.Equal("in_progress", changes[0].NewStatus)
	assert.Equal("canceled", changes[1].NewStatus)
	assert.Equal("do some work", changes[1].TaskName)
	assert.Equal(tasksFile, changes[1].TasksFile)
	assert.True(changes[0].ChangedDatetime.Equal(time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)))
}

func TestStatusChangesNone(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, _ := getDB(t, assert)
	defer database.Close()

	changes, err := database.StatusChanges(context.Background(), tasksFile, 7)
	assert.Nil(err)
	assert.Equal(0, len(changes))
}

func TestRecordStatusChangeInvalid(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, _ := getDB(t, assert)
	defer database.Close()

	_, err := database.RecordStatusChange(context.Background(), change(0, "new", "review"))
	assert.True(errors.Is(err, db.ErrInvalidChange))

	_, err = database.RecordStatusChange(context.Background(), change(1, "new", ""))
	assert.True(errors.Is(err, db.ErrInvalidChange))

	noFile := change(1, "new", "review")
	noFile.TasksFile = ""
	_, err = database.RecordStatusChange(context.Background(), noFile)
	assert.True(errors.Is(err, db.ErrInvalidChange))
}

func TestStatusChangesSeparatedByTasksFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, _ := getDB(t, assert)
	defer database.Close()

	ctx := context.Background()

	alpha := change(1, "new", "in_progress")
	alpha.TasksFile = "/home/me/a.json"
	alpha.TaskName = "Alpha"

	_, err := database.RecordStatusChange(ctx, alpha)
	assert.Nil(err)

	changes, err := database.StatusChanges(ctx, "/home/me/b.json", 1)
	assert.Nil(err)
	assert.Equal(0, len(changes))

	beta := change(1, "new", "canceled")
	beta.TasksFile = "/home/me/b.json"
	beta.TaskName = "Beta"

	_, err = database.RecordStatusChange(ctx, beta)
	assert.Nil(err)

	changes, err = database.StatusChanges(ctx, "/home/me/b.json", 1)
	assert.Nil(err)
	assert.Equal(1, len(changes))
	assert.Equal("Beta", changes[0].TaskName)

	changes, err = database.StatusChanges(ctx, "/home/me/a.json", 1)
	assert.Nil(err)
	assert.Equal(1, len(changes))
	assert.Equal("Alpha", changes[0].TaskName)
}
