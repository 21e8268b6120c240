package statusbar

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvanholst/lurker/internal/api"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	activeTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF4500")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#555555")).
				Foreground(lipgloss.Color("#CCCCCC")).
				Padding(0, 1)

	subredditStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#7FBFFF")).
			Bold(true).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B0000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FF4500"))
)

type tab struct {
	label string
	sort  api.SortOrder
}

var tabs = []tab{
	{"Hot", api.SortHot},
	{"New", api.SortNew},
	{"Top", api.SortTop},
	{"Rising", api.SortRising},
	{"Contro", api.SortControversial},
}

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	subreddit  string
	activeSort api.SortOrder
	statusText string
	statusErr  bool
	helpText   string
	busy       bool
	spin       spinner.Model
}

// New creates a status bar for the given subreddit and sort.
func New(subreddit string, sort api.SortOrder) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	return Model{
		subreddit:  subreddit,
		activeSort: sort,
		spin:       sp,
	}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetSubreddit sets the displayed subreddit.
func (m *Model) SetSubreddit(sub string) {
	m.subreddit = sub
}

// SetSort sets the active sort tab.
func (m *Model) SetSort(sort api.SortOrder) {
	m.activeSort = sort
}

// SetStatus sets a transient status message. It displaces the help hint
// until the next status overwrites it.
func (m *Model) SetStatus(text string, isErr bool) {
	m.statusText = text
	m.statusErr = isErr
}

// SetHelp sets the idle help hint.
func (m *Model) SetHelp(text string) {
	m.helpText = text
}

// SetBusy toggles the spinner. Returns the tick command that drives it.
func (m *Model) SetBusy(busy bool) tea.Cmd {
	starting := busy && !m.busy
	m.busy = busy
	if starting {
		return m.spin.Tick
	}
	return nil
}

// Update advances the spinner while busy.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && m.busy {
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	var tabsStr string
	for _, t := range tabs {
		if t.sort == m.activeSort {
			tabsStr += activeTabStyle.Render(t.label)
		} else {
			tabsStr += inactiveTabStyle.Render(t.label)
		}
	}

	left := subredditStyle.Render("/r/"+m.subreddit) + tabsStr

	var right string
	if m.busy {
		right += spinnerStyle.Render(m.spin.View())
	}
	switch {
	case m.statusText != "" && m.statusErr:
		right += errorTextStyle.Render(m.statusText)
	case m.statusText != "":
		right += statusTextStyle.Render(m.statusText)
	default:
		right += statusTextStyle.Render(m.helpText)
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := m.width - leftWidth - rightWidth
	if gap < 0 {
		gap = 0
	}
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
