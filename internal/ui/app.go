package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvanholst/lurker/internal/api"
	"github.com/mvanholst/lurker/internal/cache"
	"github.com/mvanholst/lurker/internal/config"
	"github.com/mvanholst/lurker/internal/feed"
	"github.com/mvanholst/lurker/internal/history"
	"github.com/mvanholst/lurker/internal/mime"
	"github.com/mvanholst/lurker/internal/ui/messages"
	"github.com/mvanholst/lurker/internal/ui/postlist"
	"github.com/mvanholst/lurker/internal/ui/statusbar"
	"github.com/mvanholst/lurker/internal/ui/subview"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewPostList ViewType = iota
	ViewSubmission
)

var sortTabs = []api.SortOrder{
	api.SortHot, api.SortNew, api.SortTop, api.SortRising, api.SortControversial,
}

// App is the root Bubble Tea model.
type App struct {
	activeView ViewType

	postList  postlist.Model
	subView   subview.Model
	statusBar statusbar.Model

	cfg      config.Config
	source   *feed.Source
	resolver *mime.Resolver
	seen     history.Set

	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(cfg config.Config, client *api.Client, db *cache.DB, seen history.Set) *App {
	source := feed.NewSource(cfg, client, db, cfg.Subreddit, api.SortOrder(cfg.Sort))
	resolver := mime.New()

	sb := statusbar.New(cfg.Subreddit, source.Sort)
	sb.SetHelp(helpLine())

	return &App{
		activeView: ViewPostList,
		postList:   postlist.New(cfg, source, resolver, seen),
		statusBar:  sb,
		cfg:        cfg,
		source:     source,
		resolver:   resolver,
		seen:       seen,
	}
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	return a.postList.Init()
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.postList.SetSize(msg.Width, contentHeight)
		a.statusBar.SetSize(msg.Width)
		if a.activeView == ViewSubmission {
			a.subView.SetSize(msg.Width, contentHeight)
		}
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			if msg.String() == "ctrl+c" || a.activeView == ViewPostList {
				return a, tea.Quit
			}
			a.activeView = ViewPostList
			return a, nil
		case key.Matches(msg, Keys.Back):
			if a.activeView == ViewSubmission {
				a.activeView = ViewPostList
				return a, nil
			}
		case key.Matches(msg, Keys.Tab1):
			return a, a.switchSort(sortTabs[0])
		case key.Matches(msg, Keys.Tab2):
			return a, a.switchSort(sortTabs[1])
		case key.Matches(msg, Keys.Tab3):
			return a, a.switchSort(sortTabs[2])
		case key.Matches(msg, Keys.Tab4):
			return a, a.switchSort(sortTabs[3])
		case key.Matches(msg, Keys.Tab5):
			return a, a.switchSort(sortTabs[4])
		case key.Matches(msg, Keys.NextTab):
			return a, a.switchSort(a.stepSort(1))
		case key.Matches(msg, Keys.PrevTab):
			return a, a.switchSort(a.stepSort(-1))
		}

	case messages.OpenPostMsg:
		a.activeView = ViewSubmission
		a.subView = subview.New(a.cfg, a.source, a.resolver, msg.Post)
		a.subView.SetSize(a.width, a.height-1)
		a.statusBar.SetStatus("", false)
		return a, tea.Batch(a.subView.Init(), a.statusBar.SetBusy(true))

	case messages.ThreadLoadedMsg:
		a.statusBar.SetBusy(false)
		if msg.Err != nil {
			a.statusBar.SetStatus("could not load comments: "+msg.Err.Error(), true)
		}

	case messages.MoreExpandedMsg:
		a.statusBar.SetBusy(false)
		if msg.Err != nil {
			a.statusBar.SetStatus("could not load more comments: "+msg.Err.Error(), true)
		}

	case messages.LinkOpenedMsg:
		a.statusBar.SetBusy(false)
		if msg.Err != nil {
			a.statusBar.SetStatus("opened in browser: "+msg.Err.Error(), true)
		} else {
			a.statusBar.SetStatus("opened "+msg.URL, false)
		}

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		if strings.HasPrefix(msg.Text, "resolving ") {
			cmds = append(cmds, a.statusBar.SetBusy(true))
		}
	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewPostList:
		a.postList, cmd = a.postList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewSubmission:
		a.subView, cmd = a.subView.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	if a.width == 0 {
		return TitleStyle.Render("lurker") + DimStyle.Render(" starting...")
	}

	var content string
	switch a.activeView {
	case ViewPostList:
		content = a.postList.View()
	case ViewSubmission:
		content = a.subView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func (a *App) switchSort(sort api.SortOrder) tea.Cmd {
	a.activeView = ViewPostList
	a.statusBar.SetSort(sort)
	var cmd tea.Cmd
	a.postList, cmd = a.postList.Update(messages.SwitchSortMsg{Sort: sort})
	return cmd
}

func (a *App) stepSort(delta int) api.SortOrder {
	for i, s := range sortTabs {
		if s == a.source.Sort {
			return sortTabs[(i+delta+len(sortTabs))%len(sortTabs)]
		}
	}
	return sortTabs[0]
}

func helpLine() string {
	bindings := []key.Binding{
		Keys.Down, Keys.Up, Keys.Enter, Keys.Collapse, Keys.OpenLink,
		Keys.Refresh, Keys.Yank, Keys.Back, Keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, "  ")
}
