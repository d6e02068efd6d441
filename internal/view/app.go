// Package view implements the terminal dashboard: a counts dashboard that
// opens per-status task lists.
package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenTaskList
)

// App routes messages between the dashboard and the task list.
type App struct {
	screen    Screen
	dashboard Dashboard
	list      TaskList
	width     int
}

func NewApp(api API) App {
	return App{
		screen:    ScreenDashboard,
		dashboard: NewDashboard(api),
		list:      NewTaskList(api),
	}
}

func (a App) Screen() Screen { return a.screen }

func (a App) Dashboard() Dashboard { return a.dashboard }

func (a App) TaskList() TaskList { return a.list }

func (a App) Init() tea.Cmd {
	return emit(backMsg{})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}
		if a.screen == ScreenDashboard {
			a.dashboard, cmd = a.dashboard.Update(msg)
		} else {
			a.list, cmd = a.list.Update(msg)
		}
		return a, cmd

	case openListMsg:
		a.dashboard = a.dashboard.Stop()
		a.screen = ScreenTaskList
		a.list, cmd = a.list.Open(msg.status)
		return a, cmd

	case backMsg:
		a.screen = ScreenDashboard
		a.dashboard, cmd = a.dashboard.Start()
		return a, cmd

	case countsMsg, pollMsg:
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case tasksMsg, advancedMsg:
		if a.screen != ScreenTaskList {
			return a, nil
		}
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) View() string {
	header := titleStyle.Render("Task Management System")
	body := a.dashboard.View()
	if a.screen == ScreenTaskList {
		body = a.list.View()
	}
	out := lipgloss.JoinVertical(lipgloss.Left, header, body)
	if a.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(a.width).Render(out)
	}
	return out + "\n"
}

// Run starts the interactive dashboard and blocks until the user quits.
func Run(api API) error {
	_, err := tea.NewProgram(NewApp(api), tea.WithAltScreen()).Run()
	return err
}
