package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed base.sql
var baseSQL string

// ErrInvalidChange is returned when a status change is missing required values.
var ErrInvalidChange = errors.New("invalid status change")

// Database keeps the audit trail of status changes.
type Database struct {
	conn *sql.DB
}

// NewDatabase connects to the sqlite database at the given filename and initializes
// the structure if not present.
func NewDatabase(ctx context.Context, filename string) (*Database, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	database := Database{conn: conn}

	if err = database.initialize(ctx); err != nil {
		conn.Close()

		return nil, err
	}

	log.Debug().Msgf("opened status change log at %s", filename)

	return &database, nil
}

func (d *Database) initialize(ctx context.Context) error {
	// run idempotent setup sql to create empty tables if they don't exist
	if _, err := d.conn.ExecContext(ctx, baseSQL); err != nil {
		return fmt.Errorf("error running base sql: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("error closing db: %w", err)
	}

	return nil
}

// RecordStatusChange stores change and returns it with its id set.
func (d *Database) RecordStatusChange(ctx context.Context, change StatusChange) (*StatusChange, error) {
	if change.TasksFile == "" || change.TaskNumber < 1 || change.NewStatus == "" {
		return nil, fmt.Errorf(
			"%w: task %d of '%s' to '%s'", ErrInvalidChange, change.TaskNumber, change.TasksFile, change.NewStatus,
		)
	}

	result, err := d.conn.ExecContext(
		ctx,
		`INSERT INTO status_change (tasks_file, task_number, task_name, old_status, new_status, changed_datetime)
		     VALUES ($1, $2, $3, $4, $5, $6)`,
		change.TasksFile, change.TaskNumber, change.TaskName, change.OldStatus, change.NewStatus, change.ChangedDatetime,
	)
	if err != nil {
		return nil, fmt.Errorf("error recording status change for task %d: %w", change.TaskNumber, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting id of status change for task %d: %w", change.TaskNumber, err)
	}

	change.id = int(id)

	log.Debug().
		Int("id", change.id).
		Int("task", change.TaskNumber).
		Msgf("recorded status change %s -> %s", change.OldStatus, change.NewStatus)

	return &change, nil
}

// StatusChanges returns the recorded changes for the task at taskNumber in tasksFile, oldest first.
func (d *Database) StatusChanges(ctx context.Context, tasksFile string, taskNumber int) ([]*StatusChange, error) {
	changeSQL := `SELECT id, tasks_file, task_number, task_name, old_status, new_status, changed_datetime
				FROM status_change
				WHERE tasks_file = $1 AND task_number = $2
				ORDER BY id`

	rows, err := d.conn.QueryContext(ctx, changeSQL, tasksFile, taskNumber)
	if err != nil {
		return nil, fmt.Errorf("error loading status changes: %w", err)
	}
	defer rows.Close()

	changes := []*StatusChange{}

	for rows.Next() {
		var change StatusChange

		err = rows.Scan(
			&change.id,
			&change.TasksFile,
			&change.TaskNumber,
			&change.TaskName,
			&change.OldStatus,
			&change.NewStatus,
			&change.ChangedDatetime,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning status change: %w", err)
		}

		changes = append(changes, &change)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning status changes: %w", err)
	}

	return changes, nil
}
