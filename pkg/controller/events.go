package controller

import (
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// KeyEvent defines a menu entry and the key that triggers it.
type KeyEvent struct {
	Key         rune
	Description string
	Action      func()
}

func (c *Controller) initEvents() {
	c.events = []KeyEvent{
		{Key: '1', Description: "Add task", Action: c.switchToAddForm},
		{Key: '2', Description: "Change task status", Action: c.switchToStatusForm},
		{Key: '3', Description: "Show task", Action: c.switchToShowForm},
		{Key: '4', Description: "Show history", Action: c.showViewHistory},
		{Key: '5', Description: "List tasks", Action: c.switchToTaskTable},
		{Key: '6', Description: "Save history", Action: c.saveViewHistoryAction},
		{Key: 'q', Description: "Save and exit", Action: c.saveAndExit},
	}
}

func (c *Controller) getMenu() *tview.List {
	menu := tview.NewList().ShowSecondaryText(false)
	menu.SetBorder(true).SetTitle(" Menu ")

	for _, event := range c.events {
		menu.AddItem(event.Description, "", event.Key, event.Action)
	}

	return menu
}

func (c *Controller) showViewHistory() {
	c.showMenu(c.historyText())
}

func (c *Controller) saveViewHistoryAction() {
	if err := c.store.SaveViewHistory(); err != nil {
		c.showError(err)

		return
	}

	c.showMenu("view history saved")
}

// saveAndExit flushes the view history and stops the app. The app keeps running
// when the history cannot be written so views are not lost.
func (c *Controller) saveAndExit() {
	if err := c.store.SaveViewHistory(); err != nil {
		log.Error().Err(err).Msg("error saving view history on exit")
		c.showError(err)

		return
	}

	log.Info().Msg("terminating application")

	c.app.Stop()
}
