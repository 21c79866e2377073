package controller

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/task-tracker/pkg/store"
	"github.com/matt-steen/task-tracker/pkg/task"
	"github.com/rivo/tview"
)

const descNameRatio = 2

var taskColumns = []string{"#", "name", "description", "status", "created", "changed"}

// statusColors makes the progression easy to scan in the task list.
var statusColors = map[task.Status]tcell.Color{
	task.StatusCanceled:   tcell.ColorGray,
	task.StatusNew:        tcell.ColorWhite,
	task.StatusInProgress: tcell.ColorYellow,
	task.StatusReview:     tcell.ColorOrange,
	task.StatusDone:       tcell.ColorGreen,
}

// TaskContent implements tview.TableContent, which tview.Table uses to update data.
type TaskContent struct {
	tview.TableContentReadOnly
	store *store.Store
}

// GetCell returns the cell at the given position or nil if no cell.
func (s *TaskContent) GetCell(row, col int) *tview.TableCell {
	if col < 0 || col >= len(taskColumns) {
		return nil
	}

	if row == 0 {
		return tview.NewTableCell(taskColumns[col]).SetExpansion(1).
			SetTextColor(tcell.ColorYellow).SetSelectable(false)
	}

	t, err := s.store.GetTask(row - 1)
	if err != nil {
		return nil
	}

	switch col {
	case 0:
		return tview.NewTableCell(strconv.Itoa(row)).SetReference(row - 1)
	case 1:
		return tview.NewTableCell(tview.Escape(t.Name)).SetExpansion(1)
	case 2:
		return tview.NewTableCell(tview.Escape(t.Description)).SetExpansion(descNameRatio)
	case 3:
		return tview.NewTableCell(string(t.Status)).SetExpansion(1).SetTextColor(statusColors[t.Status])
	case 4:
		return tview.NewTableCell(tview.Escape(t.CreatedAt)).SetExpansion(1)
	case 5:
		return tview.NewTableCell(tview.Escape(t.ChangedAt)).SetExpansion(1)
	}

	return nil
}

// GetRowCount returns the number of rows in the table.
func (s *TaskContent) GetRowCount() int {
	return s.store.Len() + 1
}

// GetColumnCount returns the number of columns in the table.
func (s *TaskContent) GetColumnCount() int {
	return len(taskColumns)
}

func (c *Controller) getTaskTable() *tview.Table {
	table := tview.NewTable().SetBorders(false)
	table.SetBorder(true).SetTitle(" Tasks (Enter: show, Esc: back) ")

	table.SetContent(&TaskContent{store: c.store})
	table.SetSelectable(true, false).SetFixed(1, 0)

	table.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			c.showMenu("")
		}
	})

	table.SetSelectedFunc(func(row, col int) {
		if row < 1 {
			return
		}

		text, err := c.showTask(strconv.Itoa(row))
		if err != nil {
			c.showError(err)

			return
		}

		c.showMenu(text)
	})

	return table
}

func (c *Controller) switchToTaskTable() {
	if c.store.Len() == 0 {
		c.showMenu("no tasks yet")

		return
	}

	c.taskTable.Select(1, 0).ScrollToBeginning()
	c.switchTo(pageList, c.taskTable)
}
