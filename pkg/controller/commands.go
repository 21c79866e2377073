package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matt-steen/task-tracker/pkg/db"
	"github.com/matt-steen/task-tracker/pkg/store"
	"github.com/matt-steen/task-tracker/pkg/task"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidNumber is returned when a task number is not an integer.
	ErrInvalidNumber = errors.New("task number must be a whole number")
	// ErrChangeNotLogged is returned when a status change was applied but not recorded in the change log.
	ErrChangeNotLogged = errors.New("status changed but not recorded in the change log")
)

// parseTaskNumber turns the 1-based number typed by the user into a 0-based index.
func parseTaskNumber(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidNumber, text)
	}

	return n - 1, nil
}

// addTask appends a new task and saves the collection. An empty createdAt
// defaults to today. The task stays in memory if saving fails.
func (c *Controller) addTask(name, description, status, createdAt string) (task.Task, error) {
	s, err := task.ParseStatus(status)
	if err != nil {
		return task.Task{}, err
	}

	createdAt = strings.TrimSpace(createdAt)
	if createdAt == "" {
		createdAt = c.now().Format(task.DateLayout)
	}

	t := task.Task{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Status:      s,
		CreatedAt:   createdAt,
	}

	c.store.AddTask(t)

	log.Info().Int("task", c.store.Len()).Msgf("added task '%s'", t.Name)

	if err = c.store.SaveTasks(); err != nil {
		log.Error().Err(err).Msg("error saving tasks")

		return t, err
	}

	return t, nil
}

// changeStatus moves the task with the given number to status and records the change.
func (c *Controller) changeStatus(number, status string) (task.Task, error) {
	index, err := parseTaskNumber(number)
	if err != nil {
		return task.Task{}, err
	}

	next, err := task.ParseStatus(status)
	if err != nil {
		return task.Task{}, err
	}

	before, err := c.store.GetTask(index)
	if err != nil {
		return task.Task{}, err
	}

	now := c.now()

	// a failed save keeps the change in memory, so it is still logged
	updated, saveErr := c.store.ChangeStatus(index, next, now)
	if saveErr != nil && !errors.Is(saveErr, store.ErrPersistence) {
		return task.Task{}, saveErr
	}

	if saveErr != nil {
		log.Error().Err(saveErr).Msg("status changed in memory but not saved")
	}

	_, err = c.changes.RecordStatusChange(c.ctx, db.StatusChange{
		TasksFile:       c.tasksFile,
		TaskNumber:      index + 1,
		TaskName:        updated.Name,
		OldStatus:       string(before.Status),
		NewStatus:       string(updated.Status),
		ChangedDatetime: now,
	})
	if err != nil {
		log.Error().Err(err).Int("task", index+1).Msg("error recording status change")

		err = fmt.Errorf("%w: %w", ErrChangeNotLogged, err)
	}

	return updated, errors.Join(saveErr, err)
}

// showTask records a view of the task with the given number and returns its details.
func (c *Controller) showTask(number string) (string, error) {
	index, err := parseTaskNumber(number)
	if err != nil {
		return "", err
	}

	t, err := c.store.GetTask(index)
	if err != nil {
		return "", err
	}

	if err = c.store.RecordView(index, c.now()); err != nil {
		return "", err
	}

	changes, err := c.changes.StatusChanges(c.ctx, c.tasksFile, index+1)
	if err != nil {
		log.Warn().Err(err).Int("task", index+1).Msg("error loading status changes")
	}

	return formatTask(index, t, changes), nil
}

func formatTask(index int, t task.Task, changes []*db.StatusChange) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[yellow]Task %d[white]\n", index+1)
	fmt.Fprintf(&b, "name: %s\n", tview.Escape(t.Name))
	fmt.Fprintf(&b, "description: %s\n", tview.Escape(t.Description))
	fmt.Fprintf(&b, "status: %s\n", t.Status)
	fmt.Fprintf(&b, "date_creation: %s\n", tview.Escape(t.CreatedAt))
	fmt.Fprintf(&b, "date_change: %s\n", tview.Escape(t.ChangedAt))

	if len(changes) > 0 {
		b.WriteString("\n[yellow]Status changes[white]\n")

		for _, change := range changes {
			fmt.Fprintf(
				&b,
				"%s  %s -> %s\n",
				change.ChangedDatetime.Local().Format(task.DateTimeLayout),
				change.OldStatus,
				change.NewStatus,
			)
		}
	}

	return b.String()
}

func (c *Controller) historyText() string {
	views := c.store.ViewHistory()
	if len(views) == 0 {
		return "no views recorded"
	}

	var b strings.Builder

	for _, v := range views {
		fmt.Fprintf(&b, "%s - %s viewed\n", v.At, tview.Escape(v.Description))
	}

	return b.String()
}
