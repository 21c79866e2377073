package controller

import (
	"fmt"

	"github.com/matt-steen/task-tracker/pkg/task"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	nameMax        = 50
	descriptionMax = 500
	dateMax        = 20
	numberMax      = 6
)

// formFields holds the inputs of every form so the submit handlers can read them.
type formFields struct {
	name        *tview.InputField
	description *tview.InputField
	status      *tview.DropDown
	createdAt   *tview.InputField

	statusNumber *tview.InputField
	newStatus    *tview.DropDown

	showNumber *tview.InputField
}

func statusNames() []string {
	names := []string{}
	for _, s := range task.Statuses() {
		names = append(names, string(s))
	}

	return names
}

func selectedStatus(dropDown *tview.DropDown) string {
	_, name := dropDown.GetCurrentOption()

	return name
}

func newForm(title string) *tview.Form {
	form := tview.NewForm()
	form.SetBorder(true).SetTitle(fmt.Sprintf(" %s ", title))

	return form
}

func (c *Controller) initForms() {
	f := &c.fields

	f.name = tview.NewInputField().SetLabel("Title").SetFieldWidth(nameMax)
	f.description = tview.NewInputField().SetLabel("Description").SetFieldWidth(descriptionMax)
	f.status = tview.NewDropDown().SetLabel("Status").SetOptions(statusNames(), nil)
	f.createdAt = tview.NewInputField().SetLabel("Created date").SetFieldWidth(dateMax)

	c.addForm = newForm("New Task").
		AddFormItem(f.name).
		AddFormItem(f.description).
		AddFormItem(f.status).
		AddFormItem(f.createdAt).
		AddButton("Save", c.submitAddForm).
		AddButton("Cancel", c.cancelForm)
	c.addForm.SetCancelFunc(c.cancelForm)

	f.statusNumber = tview.NewInputField().SetLabel("Task number").SetFieldWidth(numberMax).
		SetAcceptanceFunc(tview.InputFieldInteger)
	f.newStatus = tview.NewDropDown().SetLabel("New status").SetOptions(statusNames(), nil)

	c.statusForm = newForm("Change Status").
		AddFormItem(f.statusNumber).
		AddFormItem(f.newStatus).
		AddButton("Save", c.submitStatusForm).
		AddButton("Cancel", c.cancelForm)
	c.statusForm.SetCancelFunc(c.cancelForm)

	f.showNumber = tview.NewInputField().SetLabel("Task number").SetFieldWidth(numberMax).
		SetAcceptanceFunc(tview.InputFieldInteger)

	c.showForm = newForm("Show Task").
		AddFormItem(f.showNumber).
		AddButton("Show", c.submitShowForm).
		AddButton("Cancel", c.cancelForm)
	c.showForm.SetCancelFunc(c.cancelForm)
}

func (c *Controller) cancelForm() {
	c.showMenu("")
}

func (c *Controller) switchToAddForm() {
	f := &c.fields

	f.name.SetText("")
	f.description.SetText("")
	f.status.SetCurrentOption(1)
	f.createdAt.SetText(c.now().Format(task.DateLayout))

	c.addForm.SetFocus(0)
	c.switchTo(pageAdd, c.addForm)
}

func (c *Controller) switchToStatusForm() {
	c.fields.statusNumber.SetText("")
	c.fields.newStatus.SetCurrentOption(-1)

	c.statusForm.SetFocus(0)
	c.switchTo(pageStatus, c.statusForm)
}

func (c *Controller) switchToShowForm() {
	c.fields.showNumber.SetText("")

	c.showForm.SetFocus(0)
	c.switchTo(pageShow, c.showForm)
}

func (c *Controller) submitAddForm() {
	f := &c.fields

	log.Debug().Msgf("saving task with title '%s'", f.name.GetText())

	t, err := c.addTask(f.name.GetText(), f.description.GetText(), selectedStatus(f.status), f.createdAt.GetText())
	if err != nil {
		c.showError(err)

		return
	}

	c.showMenu(fmt.Sprintf("added task %d: %s", c.store.Len(), tview.Escape(t.Name)))
}

func (c *Controller) submitStatusForm() {
	f := &c.fields

	t, err := c.changeStatus(f.statusNumber.GetText(), selectedStatus(f.newStatus))
	if err != nil {
		c.showError(err)

		return
	}

	c.showMenu(fmt.Sprintf("task %s is now %s", f.statusNumber.GetText(), t.Status))
}

func (c *Controller) submitShowForm() {
	text, err := c.showTask(c.fields.showNumber.GetText())
	if err != nil {
		c.showError(err)

		return
	}

	c.showMenu(text)
}
