package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"taskflow/internal/model"
)

// API is the part of the task service the views talk to.
type API interface {
	Counts(ctx context.Context) (model.StatusCounts, error)
	TasksByStatus(ctx context.Context, status model.Status) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Task, error)
}

const (
	pollInterval   = 3 * time.Second
	requestTimeout = 10 * time.Second
)

type countsMsg struct {
	gen    int
	counts model.StatusCounts
	err    error
}

type pollMsg struct {
	gen int
}

type tasksMsg struct {
	status model.Status
	tasks  []model.Task
	err    error
}

type advancedMsg struct {
	task *model.Task
	err  error
}

// openListMsg asks the app to show the tasks of one status.
type openListMsg struct {
	status model.Status
}

type backMsg struct{}

func fetchCounts(api API, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		counts, err := api.Counts(ctx)
		return countsMsg{gen: gen, counts: counts, err: err}
	}
}

func schedulePoll(gen int) tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{gen: gen}
	})
}

func fetchTasks(api API, status model.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := api.TasksByStatus(ctx, status)
		return tasksMsg{status: status, tasks: tasks, err: err}
	}
}

func advanceTask(api API, id uuid.UUID, next model.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		task, err := api.UpdateStatus(ctx, id, next)
		return advancedMsg{task: task, err: err}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
