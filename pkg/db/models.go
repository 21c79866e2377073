package db

import "time"

// StatusChange is one accepted status transition of a task.
type StatusChange struct {
	id int
	// TasksFile is the absolute path of the tasks file the task belongs to.
	TasksFile string
	// TaskNumber is the 1-based position of the task in the tasks file.
	TaskNumber      int
	TaskName        string
	OldStatus       string
	NewStatus       string
	ChangedDatetime time.Time
}

// ID returns the row id assigned when the change was recorded.
func (c *StatusChange) ID() int {
	return c.id
}
