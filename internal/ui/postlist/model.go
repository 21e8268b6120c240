package postlist

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvanholst/lurker/internal/api"
	"github.com/mvanholst/lurker/internal/config"
	"github.com/mvanholst/lurker/internal/content"
	"github.com/mvanholst/lurker/internal/feed"
	"github.com/mvanholst/lurker/internal/history"
	"github.com/mvanholst/lurker/internal/mime"
	"github.com/mvanholst/lurker/internal/open"
	"github.com/mvanholst/lurker/internal/render"
	"github.com/mvanholst/lurker/internal/ui/messages"
	"github.com/mvanholst/lurker/internal/ui/pager"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	seenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	urlStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	stickyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#228B22")).Bold(true)
	nsfwStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC0000")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(1, 2)
)

// loadMsg triggers the initial synchronous page pull on the update loop.
type loadMsg struct{}

// Model is the submission list view.
type Model struct {
	pager    *pager.Pager
	source   *feed.Source
	resolver *mime.Resolver
	seen     history.Set
	cfg      config.Config

	resolving bool
	primed    bool
	width     int
	height    int
}

// New creates the submission list over a feed source.
func New(cfg config.Config, source *feed.Source, resolver *mime.Resolver, seen history.Set) Model {
	m := Model{
		source:   source,
		resolver: resolver,
		seen:     seen,
		cfg:      cfg,
	}
	m.pager = pager.New(source.NewStream(), m.renderItem)
	return m
}

// Init schedules the first page load.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return loadMsg{} }
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.pager.SetSize(w, h)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMsg:
		m.pager.Stream.RequestMore(context.Background(), m.cfg.PageSize)
		m.primed = true
		return m, m.stallCmd()

	case messages.SwitchSortMsg:
		m.source.Sort = msg.Sort
		m.pager.SetStream(m.source.NewStream())
		m.pager.Home()
		m.pager.Stream.RequestMore(context.Background(), m.cfg.PageSize)
		return m, m.stallCmd()

	case messages.LinkOpenedMsg:
		m.resolving = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "j", "down":
		m.pager.MoveDown(ctx)
		return m, m.stallCmd()
	case "k", "up":
		m.pager.MoveUp()
		return m, nil
	case "ctrl+d", "pgdown":
		m.pager.PageDown(ctx)
		return m, m.stallCmd()
	case "ctrl+u", "pgup":
		m.pager.PageUp()
		return m, nil
	case "g", "home":
		m.pager.Home()
		return m, nil
	case "G", "end":
		m.pager.End()
		return m, nil

	case "enter", "l", "right":
		post, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		m.seen.Add(post.Name)
		return m, func() tea.Msg { return messages.OpenPostMsg{Post: post} }

	case "o":
		post, ok := m.selectedPost()
		if !ok || m.resolving {
			return m, nil
		}
		m.seen.Add(post.Name)
		m.resolving = true
		return m, tea.Batch(
			func() tea.Msg { return messages.StatusMsg{Text: "resolving " + post.URL} },
			resolveAndOpen(m.resolver, post.URL),
		)

	case "y":
		post, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		url := api.PermalinkURL(post.Permalink)
		if err := open.CopyToClipboard(url); err != nil {
			return m, statusCmd("copy failed: "+err.Error(), true)
		}
		return m, statusCmd("copied "+url, false)

	case "r", "f5":
		m.source.Invalidate()
		m.pager.Stream.Refresh()
		m.pager.Home()
		m.pager.Stream.RequestMore(ctx, m.cfg.PageSize)
		return m, m.stallCmd()
	}
	return m, nil
}

// View renders the submission list.
func (m Model) View() string {
	if m.pager.Stream.Len() == 0 {
		text := "No posts here."
		if !m.primed {
			text = "Loading..."
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			emptyStyle.Render(text))
	}
	return m.pager.View()
}

func (m Model) selectedPost() (*api.Post, bool) {
	it, ok := m.pager.Selected()
	if !ok {
		return nil, false
	}
	post, ok := it.Raw.(*api.Post)
	return post, ok
}

// stallCmd surfaces a feed stall as a one-shot warning.
func (m Model) stallCmd() tea.Cmd {
	if err := m.pager.Stream.Stalled(); err != nil {
		return statusCmd(err.Error(), true)
	}
	return nil
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return messages.StatusMsg{Text: text, IsError: isErr} }
}

// resolveAndOpen resolves the link's media type and hands it to an external
// viewer. Resolution failure still opens the original URL in the browser.
func resolveAndOpen(resolver *mime.Resolver, url string) tea.Cmd {
	return func() tea.Msg {
		resolved, ctype, err := resolver.Resolve(context.Background(), url)
		if err != nil {
			open.Link(url, "")
			return messages.LinkOpenedMsg{URL: url, Err: err}
		}
		if err := open.Link(resolved, ctype); err != nil {
			return messages.LinkOpenedMsg{URL: resolved, ContentType: ctype, Err: err}
		}
		return messages.LinkOpenedMsg{URL: resolved, ContentType: ctype}
	}
}

// renderItem draws one submission row: wrapped title, a metadata line, the
// link domain, and a separator row. Selection recolors but never rewraps.
func (m Model) renderItem(it content.Item, selected bool, width int) []string {
	post, ok := it.Raw.(*api.Post)
	if !ok {
		return []string{""}
	}

	gutter := "  "
	if selected {
		gutter = cursorStyle.Render("> ")
	}
	textWidth := width - 4
	if textWidth < 20 {
		textWidth = 20
	}

	var lines []string
	title := post.Title
	style := titleStyle
	if m.seen.Contains(post.Name) {
		style = seenStyle
	}
	var badges []string
	if post.Stickied {
		badges = append(badges, stickyStyle.Render("[sticky]"))
	}
	if post.Over18 {
		badges = append(badges, nsfwStyle.Render("NSFW"))
	}
	for i, tl := range strings.Split(render.WrapText(title, textWidth), "\n") {
		line := gutter + style.Render(tl)
		if i == 0 && len(badges) > 0 {
			line += " " + strings.Join(badges, " ")
		}
		lines = append(lines, line)
	}

	meta := fmt.Sprintf("%s  %s  %s  %s  %s",
		scoreStyle.Render(fmt.Sprintf("%d pts", post.Score)),
		metaStyle.Render(fmt.Sprintf("%d comments", post.NumComments)),
		metaStyle.Render(render.TimeAgo(int64(post.CreatedUTC))),
		metaStyle.Render("u/"+post.Author),
		metaStyle.Render("/r/"+post.Subreddit),
	)
	lines = append(lines, gutter+meta)

	domain := post.Domain
	if post.IsSelf {
		domain = "self." + post.Subreddit
	}
	lines = append(lines, gutter+urlStyle.Render(domain))
	lines = append(lines, "")
	return lines
}
