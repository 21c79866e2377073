package controller

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/task-tracker/pkg/db"
	"github.com/matt-steen/task-tracker/pkg/store"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	pageMenu   = "menu"
	pageAdd    = "add"
	pageStatus = "status"
	pageShow   = "show"
	pageList   = "list"

	menuWidth = 32
)

// ChangeLog records accepted status changes.
type ChangeLog interface {
	RecordStatusChange(ctx context.Context, change db.StatusChange) (*db.StatusChange, error)
	StatusChanges(ctx context.Context, tasksFile string, taskNumber int) ([]*db.StatusChange, error)
}

// Controller mediates between the store and the view.
type Controller struct {
	ctx     context.Context
	store   *store.Store
	changes ChangeLog
	now     func() time.Time
	// tasksFile keys the change log so several tasks files can share one database.
	tasksFile string

	app    *tview.Application
	pages  *tview.Pages
	menu   *tview.List
	output *tview.TextView
	events []KeyEvent

	addForm    *tview.Form
	statusForm *tview.Form
	showForm   *tview.Form
	taskTable  *tview.Table
	fields     formFields
}

// NewController creates a new Controller to run the app.
func NewController(ctx context.Context, s *store.Store, changes ChangeLog) *Controller {
	tasksFile, err := filepath.Abs(s.TasksPath())
	if err != nil {
		log.Warn().Err(err).Msgf("using '%s' as given for the change log", s.TasksPath())

		tasksFile = s.TasksPath()
	}

	c := Controller{
		ctx:       ctx,
		store:     s,
		changes:   changes,
		now:       time.Now,
		tasksFile: tasksFile,
		app:       tview.NewApplication(),
	}

	c.initEvents()
	c.initPages()

	return &c
}

// Go starts the app and blocks until the user exits.
func (c *Controller) Go() error {
	c.app.SetInputCapture(c.handleKeys)

	if err := c.app.SetRoot(c.pages, true).SetFocus(c.menu).Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}

	return nil
}

func (c *Controller) initPages() {
	c.output = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	c.output.SetBorder(true).SetTitle(" Output ")

	c.menu = c.getMenu()

	header := tview.NewTextView().SetDynamicColors(true)
	header.SetText(fmt.Sprintf("[yellow]Task Manager[white]  %s", tview.Escape(c.store.TasksPath())))

	body := tview.NewFlex().
		AddItem(c.menu, menuWidth, 0, true).
		AddItem(c.output, 0, 1, false)

	grid := tview.NewGrid().SetRows(1, 0).SetBorders(true)
	grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(body, 1, 0, 1, 1, 0, 0, true)

	c.initForms()
	c.taskTable = c.getTaskTable()

	c.pages = tview.NewPages().
		AddPage(pageMenu, grid, true, true).
		AddPage(pageAdd, c.addForm, true, false).
		AddPage(pageStatus, c.statusForm, true, false).
		AddPage(pageShow, c.showForm, true, false).
		AddPage(pageList, c.taskTable, true, false)
}

func (c *Controller) switchTo(page string, focus tview.Primitive) {
	c.pages.SwitchToPage(page)
	c.app.SetFocus(focus)
}

// showMenu returns to the menu and shows text in the output pane.
func (c *Controller) showMenu(text string) {
	c.output.SetText(text).ScrollToBeginning()
	c.switchTo(pageMenu, c.menu)
}

func (c *Controller) showError(err error) {
	log.Warn().Err(err).Msg("command failed")

	c.showMenu(fmt.Sprintf("[red]%s", tview.Escape(err.Error())))
}

// handleKeys lets Esc on the menu act as save and exit.
func (c *Controller) handleKeys(evt *tcell.EventKey) *tcell.EventKey {
	if name, _ := c.pages.GetFrontPage(); name != pageMenu {
		return evt
	}

	if evt.Key() == tcell.KeyEscape {
		c.saveAndExit()

		return nil
	}

	return evt
}
