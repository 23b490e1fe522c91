package tui

import (
	"fmt"
	"strings"

	"liquidity-ticker/internal/ticker"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DD3FC")).MarginBottom(1)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	fadedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FCA5A5")).MarginTop(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).MarginTop(1)
)

type eventMsg ticker.Event

type feedClosedMsg struct{}

// TickerModel renders ticker events from a Broadcaster subscription.
type TickerModel struct {
	events  <-chan ticker.Event
	slots   [ticker.SlotCount]ticker.Slot
	faded   [ticker.SlotCount]bool
	notice  string
	width   int
	height  int
	spinner spinner.Model
}

func NewTickerModel(events <-chan ticker.Event) TickerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := TickerModel{events: events, spinner: sp}
	for i := range m.slots {
		m.slots[i].Index = i + 1
	}
	return m
}

func (m *TickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m TickerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func waitForEvent(events <-chan ticker.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m TickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case feedClosedMsg:
		return m, tea.Quit
	case eventMsg:
		m.apply(ticker.Event(msg))
		return m, waitForEvent(m.events)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *TickerModel) apply(ev ticker.Event) {
	switch ev.Type {
	case ticker.EventSnapshot:
		for _, s := range ev.Slots {
			m.setSlot(s)
		}
		m.notice = ev.Notice
	case ticker.EventSlot:
		if ev.Slot != nil {
			m.setSlot(*ev.Slot)
		}
	case ticker.EventTransition:
		if ev.Index >= 1 && ev.Index <= ticker.SlotCount {
			m.faded[ev.Index-1] = ev.Phase == ticker.PhaseFadeOut
		}
	case ticker.EventNotice:
		m.notice = ev.Notice
	}
}

func (m *TickerModel) setSlot(s ticker.Slot) {
	if s.Index >= 1 && s.Index <= ticker.SlotCount {
		m.slots[s.Index-1] = s
	}
}

func (m TickerModel) empty() bool {
	for _, s := range m.slots {
		if s.Text != "" {
			return false
		}
	}
	return true
}

func (m TickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Liquidity recommendations"))
	b.WriteString("\n")

	if m.empty() {
		b.WriteString(fmt.Sprintf("%s Waiting for recommendations...\n", m.spinner.View()))
	} else {
		width := m.width - 16
		if width < 20 {
			width = 60
		}
		for i, s := range m.slots {
			style := itemStyle
			if m.faded[i] {
				style = fadedStyle
			}
			b.WriteString(style.Width(width).Render(s.Text))
			b.WriteString("  ")
			b.WriteString(labelStyle.Render(s.Label))
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}
