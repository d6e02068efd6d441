package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/model"
)

// Dashboard shows one tile per status with its task count. Counts are polled
// while the dashboard is active; stopping it drops any poll still in flight.
type Dashboard struct {
	api      API
	counts   model.StatusCounts
	err      error
	loading  bool
	active   bool
	gen      int
	selected int
}

func NewDashboard(api API) Dashboard {
	return Dashboard{api: api, counts: model.NewStatusCounts(), loading: true}
}

// Start activates polling and fetches the counts right away.
func (d Dashboard) Start() (Dashboard, tea.Cmd) {
	d.active = true
	d.gen++
	return d, fetchCounts(d.api, d.gen)
}

func (d Dashboard) Stop() Dashboard {
	d.active = false
	d.gen++
	return d
}

func (d Dashboard) Active() bool { return d.active }

func (d Dashboard) Err() error { return d.err }

func (d Dashboard) Counts() model.StatusCounts { return d.counts }

// Selected is the status whose tile has focus.
func (d Dashboard) Selected() model.Status {
	return model.Statuses[d.selected]
}

func (d Dashboard) Update(msg tea.Msg) (Dashboard, tea.Cmd) {
	switch msg := msg.(type) {
	case countsMsg:
		if !d.active || msg.gen != d.gen {
			return d, nil
		}
		d.loading = false
		if msg.err != nil {
			d.err = msg.err
		} else {
			d.err = nil
			d.counts = model.NewStatusCounts()
			for s, n := range msg.counts {
				d.counts[s] = n
			}
		}
		return d, schedulePoll(d.gen)

	case pollMsg:
		if !d.active || msg.gen != d.gen {
			return d, nil
		}
		return d, fetchCounts(d.api, d.gen)

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "shift+tab":
			d.selected = (d.selected + len(model.Statuses) - 1) % len(model.Statuses)
		case "right", "l", "tab":
			d.selected = (d.selected + 1) % len(model.Statuses)
		case "r":
			// restart the poll chain so only one stays alive
			d.gen++
			return d, fetchCounts(d.api, d.gen)
		case "enter":
			if d.err != nil {
				return d, nil
			}
			return d, emit(openListMsg{status: d.Selected()})
		}
	}
	return d, nil
}

func (d Dashboard) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Dashboard"))
	b.WriteString("\n")

	if d.loading {
		b.WriteString(mutedStyle.Render("Loading dashboard..."))
		return b.String()
	}
	if d.err != nil {
		b.WriteString(errorStyle.Render("Error: " + d.err.Error()))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("r retry • q quit"))
		return b.String()
	}

	tiles := make([]string, 0, len(model.Statuses))
	for i, s := range model.Statuses {
		color := StatusColor(s)
		style := tileStyle.BorderForeground(color)
		if i == d.selected {
			style = style.Border(lipgloss.ThickBorder())
		}
		count := lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprint(d.counts[s]))
		tiles = append(tiles, style.Render(string(s)+"\n\n"+count))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("←/→ select • enter view tasks • r refresh • q quit"))
	return b.String()
}
