package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aadipatodia/Scheduler/internal/cli/formatter"
	"github.com/aadipatodia/Scheduler/internal/service"
)

type pagerKeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	Up    key.Binding
	Down  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k pagerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Help, k.Quit}
}

func (k pagerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

func defaultPagerKeyMap() pagerKeyMap {
	return pagerKeyMap{
		Prev:  key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "prev day")),
		Next:  key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next day")),
		First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first day")),
		Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last day")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// previewPager steps through a schedule preview one day at a time.
type previewPager struct {
	preview *service.SchedulePreview
	day     int

	keys     pagerKeyMap
	help     help.Model
	viewport viewport.Model
	ready    bool
}

func newPreviewPager(p *service.SchedulePreview) *previewPager {
	return &previewPager{
		preview: p,
		day:     1,
		keys:    defaultPagerKeyMap(),
		help:    help.New(),
	}
}

func (m *previewPager) Init() tea.Cmd { return nil }

func (m *previewPager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		height := msg.Height - lipgloss.Height(m.header()) - 2
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Prev):
			m.setDay(m.day - 1)
		case key.Matches(msg, m.keys.Next):
			m.setDay(m.day + 1)
		case key.Matches(msg, m.keys.First):
			m.setDay(1)
		case key.Matches(msg, m.keys.Last):
			m.setDay(m.preview.TotalDays)
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		}
	}
	return m, nil
}

func (m *previewPager) setDay(day int) {
	if day < 1 || day > m.preview.TotalDays || day == m.day {
		return
	}
	m.day = day
	m.refresh()
}

func (m *previewPager) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(formatter.FormatScheduleDay(m.preview, m.day))
	m.viewport.GotoTop()
}

func (m *previewPager) header() string {
	return fmt.Sprintf("%s\n%s",
		formatter.Header("Schedule preview: "+m.preview.Goal.Title),
		formatter.RenderProgress(float64(m.day)/float64(max(m.preview.TotalDays, 1)), 30),
	)
}

func (m *previewPager) View() string {
	var b strings.Builder
	b.WriteString(m.header() + "\n\n")
	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(formatter.FormatScheduleDay(m.preview, m.day))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

