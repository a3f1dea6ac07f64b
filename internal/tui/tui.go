package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/Crixpsitos/lazytodo/internal/logging"
	"github.com/Crixpsitos/lazytodo/internal/model"
	"github.com/Crixpsitos/lazytodo/internal/tasks"
)

const (
	viewHeader = "header"
	viewFooter = "footer"
	viewList   = "list"
	viewDetail = "detail"
	viewForm   = "form"
	viewHelp   = "help"
)

type UI struct {
	store  *tasks.Store
	gui    *gocui.Gui
	logger *log.Logger

	tasks      []model.Task
	selected   int
	sortMode   model.SortMode
	form       *formState
	formEditor *formEditor
	helpActive bool
	status     string
}

type formState struct {
	taskID string
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func Run(store *tasks.Store, logger *log.Logger) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(store, logger)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.refresh()

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func newUI(store *tasks.Store, logger *log.Logger) *UI {
	ui := &UI{
		store:    store,
		logger:   logging.OrDiscard(logger),
		sortMode: store.DefaultSort(),
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'r', u.reload},
		{'a', u.addTask},
		{'e', u.editTask},
		{'d', u.deleteTask},
		{'x', u.toggleTask},
		{'s', u.cycleSort},
		{'?', u.toggleHelp},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	list := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyArrowDown, u.moveDown},
		{'j', u.moveDown},
		{gocui.KeyArrowUp, u.moveUp},
		{'k', u.moveUp},
		{gocui.KeyEnter, u.toggleTask},
		{gocui.MouseWheelUp, u.scrollUp},
		{gocui.MouseWheelDown, u.scrollDown},
	}
	for _, binding := range list {
		if err := gui.SetKeybinding(viewList, binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	form := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyEnter, u.submitForm},
		{gocui.KeyCtrlJ, u.submitForm},
		{gocui.KeyTab, u.nextFormField},
		{gocui.KeyArrowDown, u.nextFormField},
		{gocui.KeyBacktab, u.prevFormField},
		{gocui.KeyArrowUp, u.prevFormField},
		{gocui.KeyEsc, u.cancelForm},
	}
	for _, binding := range form {
		if err := gui.SetKeybinding(viewForm, binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	for _, key := range []any{gocui.KeyEsc, 'q', '?'} {
		if err := gui.SetKeybinding(viewHelp, key, gocui.ModNone, u.closeHelp); err != nil {
			return err
		}
	}

	return gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewList, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
		return u.onListClick(gui, opts)
	}})
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom <= bodyTop {
		return nil
	}

	listWidth := computeListWidth(maxX)
	listView, err := gui.SetView(viewList, 0, bodyTop, listWidth-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		listView.TitleColor = gocui.ColorCyan
	}
	listView.Title = fmt.Sprintf("Tasks (%s)", u.sortMode)
	applyViewStyle(listView, u.form == nil && !u.helpActive)
	u.renderList(listView)

	detailView, err := gui.SetView(viewDetail, listWidth, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Details"
		detailView.Wrap = true
	}
	detailView.Frame = true
	u.renderDetail(detailView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if u.form == nil && !u.helpActive {
		_, _ = gui.SetCurrentView(viewList)
	}

	gui.Cursor = u.form != nil

	return nil
}

func computeListWidth(width int) int {
	listWidth := width / 2
	if listWidth < 30 {
		listWidth = min(30, width-1)
	}
	return max(listWidth, 1)
}

// refresh re-reads the sorted view from the store and keeps the
// selection on the same task when it still exists.
func (u *UI) refresh() {
	var selectedID string
	if task := u.selectedTask(); task != nil {
		selectedID = task.ID
	}
	u.tasks = u.store.Sorted(u.sortMode)
	u.selectTask(selectedID)
}

func (u *UI) selectTask(id string) {
	if id != "" {
		for i, task := range u.tasks {
			if task.ID == id {
				u.selected = i
				return
			}
		}
	}
	u.selected = clampIndex(u.selected, len(u.tasks))
}

func clampIndex(index, length int) int {
	if length == 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

func (u *UI) selectedTask() *model.Task {
	if u.selected >= 0 && u.selected < len(u.tasks) {
		return &u.tasks[u.selected]
	}
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	counts := u.store.Counts()
	fmt.Fprintf(view, "lazytodo | %d total | %d pending | %d done | sort: %s", counts.Total, counts.Pending, counts.Completed, u.sortMode)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)

	fmt.Fprintln(view, "a add | e edit | x toggle | d delete | s sort | j/k move | r reload | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderList(view *gocui.View) {
	view.Clear()
	if len(u.tasks) == 0 {
		fmt.Fprint(view, "No tasks yet. Press a to add one.")
		return
	}
	for i, task := range u.tasks {
		prefix := " "
		if i == u.selected {
			prefix = ">"
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task))
	}
	view.SetCursor(0, u.selected)
}

func (u *UI) renderDetail(view *gocui.View) {
	view.Clear()
	selected := u.selectedTask()
	if selected == nil {
		fmt.Fprint(view, "No task selected")
		return
	}
	fmt.Fprint(view, strings.Join(formatTaskDetail(*selected), "\n"))
}

func (u *UI) onListClick(gui *gocui.Gui, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewList)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)
	u.selected = clampIndex(row, len(u.tasks))
	return nil
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected < len(u.tasks)-1 {
		u.selected++
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected > 0 {
		u.selected--
	}
	return nil
}

// reload replaces the collection with what is currently persisted.
func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.store.Load(context.Background())
	u.status = "reloaded"
	u.refresh()
	u.logger.Debug("reloaded tasks", "count", len(u.tasks))
	return nil
}

func (u *UI) cycleSort(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.sortMode = u.sortMode.Next()
	u.status = fmt.Sprintf("sorted by %s", u.sortMode)
	u.refresh()
	return nil
}

func (u *UI) toggleTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	u.store.ToggleCompletion(context.Background(), selected.ID)
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) deleteTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	title := selected.Title
	u.store.Delete(context.Background(), selected.ID)
	u.tasks = u.store.Sorted(u.sortMode)
	u.selected = clampIndex(u.selected, len(u.tasks))
	u.status = fmt.Sprintf("deleted %q", title)
	return nil
}

func (u *UI) addTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{fields: buildFormFields(nil)}
	u.status = ""
	return nil
}

func (u *UI) editTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	u.form = &formState{taskID: selected.ID, fields: buildFormFields(selected)}
	u.status = ""
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 6
	x0 := max((maxX-width)/2, 0)
	y0 := max((maxY-height)/2, 0)

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = "New Task"
	if u.form.taskID != "" {
		view.Title = "Edit Task"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

// submitForm saves the form. Validation errors keep the form open and
// show in the footer.
func (u *UI) submitForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}

	input, err := parseFormFields(u.form.fields)
	if err != nil {
		u.status = err.Error()
		return nil
	}

	selectID := u.form.taskID
	if u.form.taskID == "" {
		task, err := u.store.Add(context.Background(), input.title, input.description, input.priority)
		if err != nil {
			u.logger.Debug("add rejected", "err", err)
			u.status = err.Error()
			return nil
		}
		selectID = task.ID
	} else {
		if err := u.store.Update(context.Background(), u.form.taskID, input.patch()); err != nil {
			u.logger.Debug("update rejected", "id", u.form.taskID, "err", err)
			u.status = err.Error()
			return nil
		}
	}

	u.status = ""
	u.closeForm(gui)
	u.tasks = u.store.Sorted(u.sortMode)
	u.selectTask(selectID)
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.status = ""
	u.closeForm(gui)
	return nil
}

func (u *UI) closeForm(gui *gocui.Gui) {
	u.form = nil
	if gui == nil {
		return
	}
	_ = gui.DeleteView(viewForm)
	_, _ = gui.SetCurrentView(viewList)
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	current := u.form.fields[u.form.index]
	cursorX := len([]rune(current.Label)) + len([]rune(current.Value)) + 4
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	ui.form.edit(key, ch, mod)
	ui.renderForm(view)
	return true
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	if gui != nil {
		_ = gui.DeleteView(viewHelp)
		_, _ = gui.SetCurrentView(viewList)
	}
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := 14
	x0 := max((maxX-width)/2, 0)
	y0 := max((maxY-height)/2, 0)

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	if u.form != nil {
		return nil
	}
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  j/k or arrows move selection",
		"  mouse click selects, wheel scrolls",
		"",
		"Actions:",
		"  a add task | e edit task | d delete task",
		"  x or enter toggle completed",
		"  s cycle sort (date, status, priority)",
		"  r reload from storage",
		"",
		"Form:",
		"  tab/arrows move field | space/left/right cycle priority",
		"  enter save | esc cancel",
		"",
		"  ? or esc close help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool) {
	view.Frame = true
	view.Highlight = focused
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	if focused {
		view.FrameColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}
