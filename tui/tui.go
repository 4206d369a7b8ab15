package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasktrack/app"
	"tasktrack/date"
	"tasktrack/model"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeForm
	modeConfirmDelete
)

type formField int

const (
	fieldText formField = iota
	fieldCategory
	fieldDate
)

// dueCheckMsg fires the recurring due-today check.
type dueCheckMsg time.Time

type Model struct {
	svc           *app.Service
	reminderEvery time.Duration

	mode   uiMode
	cursor int

	// form state; editingID empty means the form is adding a new task
	formFocus formField
	textInput textinput.Model
	dateInput textinput.Model
	catIdx    int
	editingID string

	confirmID   string
	confirmText string

	categoryFilter model.CategoryFilter
	statusFilter   model.StatusFilter

	showHelp  bool
	status    string
	statusErr bool

	width  int
	height int
}

func NewModel(svc *app.Service, reminderEvery time.Duration) *Model {
	if reminderEvery <= 0 {
		reminderEvery = time.Minute
	}

	ti := textinput.New()
	ti.Placeholder = "Write a task"
	ti.CharLimit = 200

	di := textinput.New()
	di.Placeholder = date.LocalDateString(time.Now())
	di.CharLimit = 10

	m := &Model{
		svc:           svc,
		reminderEvery: reminderEvery,
		mode:          modeNormal,
		catIdx:        -1,
		textInput:     ti,
		dateInput:     di,
		status:        "Ready",
	}

	// surface anything already due before the first tick
	m.svc.CheckDueTasks()
	return m
}

// Run starts the program over the given service.
func Run(svc *app.Service, reminderEvery time.Duration) error {
	p := tea.NewProgram(NewModel(svc, reminderEvery), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.reminderEvery, func(t time.Time) tea.Msg {
		return dueCheckMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case dueCheckMsg:
		m.svc.CheckDueTasks()
		return m, m.tickCmd()
	case tea.KeyMsg:
		if m.svc.TodayVisible() && m.mode == modeNormal {
			return m, m.updateModal(msg)
		}
		switch m.mode {
		case modeForm:
			return m, m.updateFormMode(msg)
		case modeConfirmDelete:
			m.updateConfirmMode(msg)
		default:
			if quit := m.updateNormalMode(msg); quit {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "enter", "q", "t":
		m.svc.DismissToday()
		m.setStatus("Reminder closed", false)
	}
	return nil
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "a":
		m.startAdd()
	case "e":
		m.startEdit()
	case "x", " ":
		m.toggleSelected()
	case "d":
		m.startDeleteConfirm()
	case "c":
		m.cycleCategoryFilter()
	case "f":
		m.cycleStatusFilter()
	case "t":
		m.svc.TodayTasks()
		m.setStatus("Showing everything due today", false)
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		if m.showHelp {
			m.showHelp = false
			break
		}
		if m.categoryFilter != "" || m.statusFilter != "" {
			m.categoryFilter = ""
			m.statusFilter = ""
			m.cursor = 0
			m.setStatus("Filters cleared", false)
		}
	}

	m.ensureSelection()
	return false
}

func (m *Model) updateFormMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.closeForm()
		m.setStatus("Cancelled", false)
		return nil
	case "enter":
		m.submitForm()
		return nil
	case "tab", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = -1
		}
		m.focusField(formField((int(m.formFocus) + delta + 3) % 3))
		return nil
	}

	switch m.formFocus {
	case fieldText:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return cmd
	case fieldDate:
		var cmd tea.Cmd
		m.dateInput, cmd = m.dateInput.Update(msg)
		return cmd
	case fieldCategory:
		cats := model.Categories()
		switch msg.String() {
		case "left", "h":
			if m.catIdx <= 0 {
				m.catIdx = len(cats) - 1
			} else {
				m.catIdx--
			}
		case "right", "l", " ":
			m.catIdx = (m.catIdx + 1) % len(cats)
		}
	}
	return nil
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) {
	switch strings.ToLower(msg.String()) {
	case "y":
		if m.svc.Delete(m.confirmID) {
			m.svc.CheckDueTasks()
			m.setStatus("Task deleted", false)
		}
		m.mode = modeNormal
		m.confirmID = ""
		m.confirmText = ""
		m.ensureSelection()
	case "n", "esc", "enter":
		m.mode = modeNormal
		m.confirmID = ""
		m.confirmText = ""
		m.setStatus("Delete cancelled", false)
	}
}

func (m *Model) startAdd() {
	m.mode = modeForm
	m.editingID = ""
	m.catIdx = -1
	m.textInput.SetValue("")
	m.dateInput.SetValue(date.LocalDateString(time.Now()))
	m.focusField(fieldText)
}

func (m *Model) startEdit() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", true)
		return
	}
	m.mode = modeForm
	m.editingID = task.ID
	m.catIdx = indexOfCategory(task.Category)
	m.textInput.SetValue(task.Text)
	m.dateInput.SetValue(date.LocalDateString(task.DueDate))
	m.focusField(fieldText)
}

func (m *Model) focusField(f formField) {
	m.formFocus = f
	m.textInput.Blur()
	m.dateInput.Blur()
	switch f {
	case fieldText:
		m.textInput.Focus()
	case fieldDate:
		m.dateInput.Focus()
	}
}

// submitForm applies the form. Invalid input never reaches the service:
// submission is simply refused until text and category are set.
func (m *Model) submitForm() {
	text := strings.TrimSpace(m.textInput.Value())
	if text == "" {
		m.setStatus("Task text cannot be empty", true)
		return
	}
	if m.catIdx < 0 {
		m.setStatus("Pick a category first (Tab, then ←/→)", true)
		return
	}
	category := model.Categories()[m.catIdx]

	var due time.Time
	if v := strings.TrimSpace(m.dateInput.Value()); v != "" {
		parsed, err := date.ParseLocal(v)
		if err != nil {
			m.setStatus("Due date must be YYYY-MM-DD", true)
			return
		}
		due = parsed
	}

	if m.editingID != "" {
		if _, err := m.svc.Update(m.editingID, text, category, due); err != nil {
			m.setStatus("Could not update task: "+err.Error(), true)
			return
		}
		m.setStatus("Task updated", false)
	} else {
		if _, err := m.svc.Add(text, category, due); err != nil {
			m.setStatus("Could not add task: "+err.Error(), true)
			return
		}
		m.setStatus("Task added", false)
	}

	// collection changed; re-run the reminder check right away
	m.svc.CheckDueTasks()
	m.closeForm()
}

func (m *Model) closeForm() {
	m.mode = modeNormal
	m.editingID = ""
	m.textInput.Blur()
	m.dateInput.Blur()
	m.ensureSelection()
}

func (m *Model) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", true)
		return
	}
	updated, ok := m.svc.Toggle(task.ID)
	if !ok {
		return
	}
	m.svc.CheckDueTasks()
	if updated.Completed {
		m.setStatus("Task completed", false)
	} else {
		m.setStatus("Task reopened", false)
	}
}

func (m *Model) startDeleteConfirm() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", true)
		return
	}
	m.mode = modeConfirmDelete
	m.confirmID = task.ID
	m.confirmText = task.Text
}

func (m *Model) cycleCategoryFilter() {
	cats := model.Categories()
	if m.categoryFilter == "" {
		m.categoryFilter = model.CategoryFilter(cats[0])
	} else {
		idx := -1
		for i, c := range cats {
			if string(c) == string(m.categoryFilter) {
				idx = i
				break
			}
		}
		if idx < 0 || idx == len(cats)-1 {
			m.categoryFilter = ""
		} else {
			m.categoryFilter = model.CategoryFilter(cats[idx+1])
		}
	}
	m.cursor = 0
	m.setStatus("Category filter: "+categoryFilterLabel(m.categoryFilter), false)
}

func (m *Model) cycleStatusFilter() {
	switch m.statusFilter {
	case model.StatusAll:
		m.statusFilter = model.StatusPending
	case model.StatusPending:
		m.statusFilter = model.StatusCompleted
	default:
		m.statusFilter = model.StatusAll
	}
	m.cursor = 0
	m.setStatus("Status filter: "+statusFilterLabel(m.statusFilter), false)
}

func (m *Model) moveCursor(delta int) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(tasks)-1)
}

func (m *Model) ensureSelection() {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, len(tasks)-1)
}

func (m *Model) visibleTasks() []model.Task {
	return m.svc.Filtered(m.categoryFilter, m.statusFilter)
}

func (m *Model) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	if m.cursor < 0 || m.cursor >= len(tasks) {
		m.cursor = 0
	}
	return tasks[m.cursor], true
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	viewW := m.viewportWidth()
	completed, pending := m.svc.Counts()

	title := lipgloss.NewStyle().Bold(true).Render("tasktrack")
	summary := fmt.Sprintf("%d pending • %d completed • category: %s • status: %s",
		pending, completed,
		categoryFilterLabel(m.categoryFilter), statusFilterLabel(m.statusFilter))
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  "+summary),
	)

	panelH := m.height - 5
	if panelH < 6 {
		panelH = 6
	}
	innerH := panelH - 2
	if innerH < 4 {
		innerH = 4
	}

	body := m.renderTaskList(viewW-4, innerH)

	frameColor := lipgloss.Color("240")
	if m.mode == modeNormal && !m.svc.TodayVisible() {
		frameColor = lipgloss.Color("39")
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frameColor).
		Width(viewW - 2).
		Height(panelH).
		Render(body)

	if m.svc.TodayVisible() {
		panel = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, m.renderTodayModal(viewW))
	} else if m.showHelp {
		panel = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, m.renderHelpOverlay(viewW))
	}

	statusText := m.status
	if statusText == "" {
		statusText = "Ready"
	}
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	if m.statusErr {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
	footer := m.renderFooter(statusText, statusStyle, m.contextualHelp())

	parts := []string{header, panel, footer}
	if m.mode == modeForm && !m.svc.TodayVisible() {
		parts = append(parts, m.renderForm(viewW))
	}
	if m.mode == modeConfirmDelete {
		prompt := fmt.Sprintf("Delete task %q? [y/N]", truncateRunes(m.confirmText, 40))
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(viewW).Render(prompt))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderTaskList(width, height int) string {
	tasks := m.visibleTasks()
	all := m.svc.Tasks()

	lines := make([]string, 0, len(tasks)+2)
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Tasks"))

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	switch {
	case len(all) == 0:
		lines = append(lines, dim.Render("No tasks yet. Press 'a' to add the first one."))
	case len(tasks) == 0:
		lines = append(lines, dim.Render("No tasks match the current filters ('c'/'f' cycle, Esc clears)."))
	default:
		now := time.Now()
		for i, t := range tasks {
			cursor := " "
			if i == m.cursor {
				cursor = "▸"
			}
			check := "[ ]"
			if t.Completed {
				check = "[x]"
			}

			dueToday := date.SameDay(t.DueDate, now)
			dueLabel := t.DueDate.Format("02/01/2006")
			if dueToday {
				dueLabel += " — Today!"
			}

			textStyle := lipgloss.NewStyle()
			dueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
			if t.Completed {
				textStyle = textStyle.Faint(true)
			}
			if dueToday && !t.Completed {
				dueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
			}
			if i == m.cursor {
				textStyle = textStyle.Bold(true).Foreground(lipgloss.Color("229"))
			}

			line := lipgloss.JoinHorizontal(lipgloss.Left,
				cursor+" ",
				check+" ",
				textStyle.Render(truncateRunes(t.Text, width/2)),
				dim.Render(fmt.Sprintf("  (%s)  ", t.Category)),
				dueStyle.Render(dueLabel),
			)
			lines = append(lines, line)
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderForm(width int) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	textLabel := label.Render("Task:")
	catLabel := label.Render("Category:")
	dateLabel := label.Render("Due:")
	switch m.formFocus {
	case fieldText:
		textLabel = active.Render("Task:")
	case fieldCategory:
		catLabel = active.Render("Category:")
	case fieldDate:
		dateLabel = active.Render("Due:")
	}

	catValue := "— pick with ←/→ —"
	if m.catIdx >= 0 {
		catValue = string(model.Categories()[m.catIdx])
	}

	mode := "New task"
	if m.editingID != "" {
		mode = "Editing task"
	}

	rows := []string{
		lipgloss.NewStyle().Bold(true).Render(mode) + lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("  (Tab next field • Enter save • Esc cancel)"),
		textLabel + " " + m.textInput.View(),
		catLabel + " " + catValue,
		dateLabel + " " + m.dateInput.View(),
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(rows, "\n"))
}

func (m *Model) renderTodayModal(viewW int) string {
	tasks := m.svc.Today()

	title := lipgloss.NewStyle().Bold(true).Render("📅 Due today")
	rows := []string{title, ""}
	if len(tasks) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("Nothing due today."))
	} else {
		for _, t := range tasks {
			check := "[ ]"
			style := lipgloss.NewStyle()
			if t.Completed {
				check = "[x]"
				style = style.Faint(true)
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s %s (%s)", check, t.Text, t.Category)))
		}
	}
	rows = append(rows, "", lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("Enter/Esc close"))

	popupW := viewW - 8
	if popupW > 72 {
		popupW = 72
	}
	if popupW < 32 {
		popupW = 32
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("203")).
		Padding(1, 2)
	return style.Width(popupW).Render(strings.Join(rows, "\n"))
}

func (m *Model) renderHelpOverlay(viewW int) string {
	title := lipgloss.NewStyle().Bold(true).Render("Keys")
	line := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	rows := []string{
		title,
		"",
		line.Render("  j/k navigate • a add • e edit • x toggle done • d delete"),
		line.Render("  c category filter • f status filter • Esc clears filters"),
		line.Render("  t show everything due today • q quit"),
	}

	popupW := viewW - 8
	if popupW > 72 {
		popupW = 72
	}
	if popupW < 32 {
		popupW = 32
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("244")).
		Padding(1, 2)
	return style.Width(popupW).Render(strings.Join(rows, "\n"))
}

func (m *Model) contextualHelp() string {
	if m.svc.TodayVisible() {
		return "Reminder • Enter/Esc close"
	}
	switch m.mode {
	case modeForm:
		return "Tab next field • Enter save • Esc cancel"
	case modeConfirmDelete:
		return "Confirm • y delete • n/Esc cancel"
	}
	return "a add • e edit • x done • d delete • c/f filters • t today • ? keys"
}

func (m *Model) viewportWidth() int {
	if m.width <= 0 {
		return 1
	}
	if m.width > 1 {
		return m.width - 1
	}
	return m.width
}

func (m *Model) renderFooter(statusText string, statusStyle lipgloss.Style, rightHint string) string {
	left := strings.TrimSpace(statusText)
	right := strings.TrimSpace(rightHint)
	if left == "" {
		left = "Ready"
	}

	leftW := utf8.RuneCountInString(left)
	rightW := utf8.RuneCountInString(right)
	width := m.viewportWidth()
	if width <= 0 {
		width = leftW + rightW + 2
	}

	if leftW+rightW+1 > width {
		maxLeft := width - rightW - 1
		if maxLeft < 8 {
			maxLeft = 8
		}
		left = truncateRunes(left, maxLeft)
		leftW = utf8.RuneCountInString(left)
	}

	padding := width - leftW - rightW
	if padding < 1 {
		padding = 1
	}

	rightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	line := statusStyle.Render(left) + strings.Repeat(" ", padding) + rightStyle.Render(right)
	return lipgloss.NewStyle().Width(width).Render(line)
}

func categoryFilterLabel(f model.CategoryFilter) string {
	if f == "" {
		return "all"
	}
	return string(f)
}

func statusFilterLabel(f model.StatusFilter) string {
	switch f {
	case model.StatusCompleted:
		return "completed"
	case model.StatusAll:
		return "all"
	default:
		return "pending"
	}
}

func indexOfCategory(c model.Category) int {
	for i, candidate := range model.Categories() {
		if candidate == c {
			return i
		}
	}
	return -1
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
