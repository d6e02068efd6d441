package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/model"
)

// TaskList shows the tasks of one status and moves them along the workflow.
type TaskList struct {
	api       API
	status    model.Status
	tasks     []model.Task
	cursor    int
	err       error
	loading   bool
	advancing bool
}

func NewTaskList(api API) TaskList {
	return TaskList{api: api}
}

// Open switches the list to status and fetches its tasks.
func (l TaskList) Open(status model.Status) (TaskList, tea.Cmd) {
	l.status = status
	l.tasks = nil
	l.cursor = 0
	l.err = nil
	l.loading = true
	l.advancing = false
	return l, fetchTasks(l.api, status)
}

func (l TaskList) Status() model.Status { return l.status }

func (l TaskList) Tasks() []model.Task { return l.tasks }

func (l TaskList) Err() error { return l.err }

func (l TaskList) selectedTask() (model.Task, bool) {
	if l.cursor < 0 || l.cursor >= len(l.tasks) {
		return model.Task{}, false
	}
	return l.tasks[l.cursor], true
}

func (l TaskList) Update(msg tea.Msg) (TaskList, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksMsg:
		if msg.status != l.status {
			return l, nil
		}
		l.loading = false
		if msg.err != nil {
			l.err = msg.err
			l.tasks = nil
			return l, nil
		}
		l.err = nil
		l.tasks = msg.tasks
		if l.cursor >= len(l.tasks) {
			l.cursor = max(len(l.tasks)-1, 0)
		}
		return l, nil

	case advancedMsg:
		l.advancing = false
		if msg.err != nil {
			l.err = msg.err
			return l, nil
		}
		l.loading = true
		return l, fetchTasks(l.api, l.status)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "b":
			return l, emit(backMsg{})
		case "up", "k":
			if l.cursor > 0 {
				l.cursor--
			}
		case "down", "j":
			if l.cursor < len(l.tasks)-1 {
				l.cursor++
			}
		case "r":
			l.loading = true
			l.err = nil
			return l, fetchTasks(l.api, l.status)
		case "a":
			task, ok := l.selectedTask()
			if !ok || l.advancing || l.loading {
				return l, nil
			}
			next, ok := task.Status.Next()
			if !ok {
				return l, nil
			}
			l.advancing = true
			return l, advanceTask(l.api, task.ID, next)
		}
	}
	return l, nil
}

func (l TaskList) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Foreground(StatusColor(l.status)).Render("Tasks - " + string(l.status)))
	b.WriteString("\n")

	switch {
	case l.loading:
		b.WriteString(mutedStyle.Render("Loading tasks..."))
		b.WriteString("\n")
	case l.err != nil:
		b.WriteString(errorStyle.Render("Error: " + l.err.Error()))
		b.WriteString("\n")
	case len(l.tasks) == 0:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No tasks found in %s status.", l.status)))
		b.WriteString("\n")
	default:
		for i, t := range l.tasks {
			b.WriteString(l.renderCard(t, i == l.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString(mutedStyle.Render("↑/↓ select • a advance • r refresh • esc back • q quit"))
	return b.String()
}

func (l TaskList) renderCard(t model.Task, selected bool) string {
	assignee := t.AssignedTo
	if assignee == "" {
		assignee = "Unassigned"
	}
	due := "Not set"
	if !t.DueDate.IsZero() {
		due = t.DueDate.Format("1/2/2006")
	}

	lines := []string{
		labelStyle.Render(t.Title),
		field("Description", t.Description),
		field("Assigned to", assignee),
		field("Priority", string(t.Priority)),
		field("Due Date", due),
		field("Client", t.ClientName),
		field("Project", t.ProjectName),
		field("Created by", t.CreatedBy),
	}
	if t.Notes != "" {
		lines = append(lines, field("Notes", t.Notes))
	}
	if next, ok := t.Status.Next(); ok {
		lines = append(lines, mutedStyle.Render("a: Move to "+string(next)))
	}

	style := cardStyle.BorderForeground(StatusColor(t.Status))
	if selected {
		style = style.BorderStyle(lipgloss.ThickBorder())
		lines[0] = "> " + lines[0]
	}
	return style.Render(strings.Join(lines, "\n"))
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}
