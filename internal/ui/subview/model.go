package subview

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
	"github.com/mvanholst/lurker/internal/mime"
	"github.com/mvanholst/lurker/internal/open"
	"github.com/mvanholst/lurker/internal/render"
	"github.com/mvanholst/lurker/internal/ui/messages"
	"github.com/mvanholst/lurker/internal/ui/pager"
)

var (
	depthColors = []lipgloss.Color{
		"#FF4500", "#7FBFFF", "#32CD32", "#FFD700", "#FF69B4", "#9370DB", "#20B2AA", "#828282",
	}

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	scoreStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500"))
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	urlStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	authorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBFFF")).Bold(true)
	opStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#7FBFFF")).Bold(true)
	deletedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Italic(true)
	moreStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBFFF")).Italic(true)
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	nsfwStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC0000")).Bold(true)
)

const maxIndent = 30

// threadState is shared between the model and its render closure; the
// model value is copied on every Update, the state is not.
type threadState struct {
	post     *api.Post
	collapse content.CollapseState
}

// Model is the comment thread view for one submission.
type Model struct {
	st       *threadState
	roots    []*api.CommentNode
	pager    *pager.Pager
	source   *feed.Source
	resolver *mime.Resolver
	cfg      config.Config

	loading   bool
	expanding bool
	resolving bool
	width     int
	height    int
}

// New creates a thread view for the given submission.
func New(cfg config.Config, source *feed.Source, resolver *mime.Resolver, post *api.Post) Model {
	m := Model{
		st:       &threadState{post: post, collapse: make(content.CollapseState)},
		source:   source,
		resolver: resolver,
		cfg:      cfg,
		loading:  true,
	}
	m.pager = pager.New(content.NewStream(content.SliceLoader(nil)), m.renderItem)
	return m
}

// Init fetches the comment tree.
func (m Model) Init() tea.Cmd {
	return loadThread(m.source, m.st.post, false)
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.pager.SetSize(w, h)
}

// Post returns the submission this view is showing.
func (m Model) Post() *api.Post {
	return m.st.post
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ThreadLoadedMsg:
		if msg.PostName != m.st.post.Name {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		if msg.Thread.Post != nil {
			m.st.post = msg.Thread.Post
		}
		m.roots = msg.Thread.Roots
		m.rebuild()
		return m, nil

	case messages.MoreExpandedMsg:
		if msg.PostName != m.st.post.Name {
			return m, nil
		}
		m.expanding = false
		if msg.Err != nil {
			return m, nil
		}
		// The stub must still sit where the expansion was requested;
		// anything else means the stream was rebuilt underneath.
		items := m.pager.Stream.Items()
		if msg.Index >= len(items) || items[msg.Index].ID != msg.StubName {
			return m, nil
		}
		m.pager.Stream.ReplaceAt(msg.Index, msg.Items)
		m.roots = content.Graft(m.roots, msg.StubName, msg.Nodes)
		m.pager.Cursor.Clamp(m.pager.Stream.Len())
		return m, nil

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
		return m, nil
	case "k", "up":
		m.pager.MoveUp()
		return m, nil
	case "ctrl+d", "pgdown":
		m.pager.PageDown(ctx)
		return m, nil
	case "ctrl+u", "pgup":
		m.pager.PageUp()
		return m, nil
	case "g", "home":
		m.pager.Home()
		return m, nil
	case "G", "end":
		m.pager.End()
		return m, nil

	case " ", "enter", "l", "right":
		it, ok := m.pager.Selected()
		if !ok || m.expanding {
			return m, nil
		}
		switch it.Kind {
		case content.KindComment:
			m.st.collapse[it.ID] = !m.st.collapse[it.ID]
			m.rebuild()
			return m, nil
		case content.KindMoreComments:
			stub := it.Raw.(*api.More)
			m.expanding = true
			idx := m.pager.Cursor.Index
			return m, expandMore(m.source, m.st.post.Name, stub, it.Depth, idx)
		}
		return m, nil

	case "o":
		if m.resolving || m.st.post.URL == "" {
			return m, nil
		}
		m.resolving = true
		url := m.st.post.URL
		return m, tea.Batch(
			func() tea.Msg { return messages.StatusMsg{Text: "resolving " + url} },
			resolveAndOpen(m.resolver, url),
		)

	case "y":
		url := api.PermalinkURL(m.st.post.Permalink)
		if it, ok := m.pager.Selected(); ok && it.Kind == content.KindComment {
			c := it.Raw.(*api.Comment)
			url = api.PermalinkURL(m.st.post.Permalink) + api.ShortID(c.Name)
		}
		if err := open.CopyToClipboard(url); err != nil {
			return m, statusCmd("copy failed: "+err.Error(), true)
		}
		return m, statusCmd("copied "+url, false)

	case "r", "f5":
		if m.expanding || m.loading {
			return m, nil
		}
		m.loading = true
		m.st.collapse = make(content.CollapseState)
		return m, loadThread(m.source, m.st.post, true)
	}
	return m, nil
}

// View renders the thread.
func (m Model) View() string {
	if m.loading && m.pager.Stream.Len() == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			metaStyle.Padding(1, 2).Render("Loading comments..."))
	}
	return m.pager.View()
}

// rebuild re-flattens the tree and swaps the stream, keeping the selection
// on the same item when it survives the rebuild.
func (m *Model) rebuild() {
	items := make([]content.Item, 0, 64)
	items = append(items, content.Item{
		Kind: content.KindSubmission,
		ID:   m.st.post.Name,
		Raw:  m.st.post,
	})
	items = append(items, content.Flatten(m.roots, m.st.collapse)...)

	selected := ""
	if it, ok := m.pager.Selected(); ok {
		selected = it.ID
	}

	stream := content.NewStream(content.SliceLoader(items))
	stream.RequestMore(context.Background(), len(items))
	m.pager.SetStream(stream)

	if selected != "" {
		for i, it := range stream.Items() {
			if it.ID == selected {
				m.pager.Cursor.Index = i
				break
			}
		}
	}
	m.pager.Cursor.Clamp(stream.Len())
}

func loadThread(source *feed.Source, post *api.Post, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			t   *api.Thread
			err error
		)
		if force {
			t, err = source.RefreshThread(ctx, post)
		} else {
			t, err = source.LoadThread(ctx, post)
		}
		if err != nil {
			return messages.ThreadLoadedMsg{PostName: post.Name, Err: err}
		}
		return messages.ThreadLoadedMsg{PostName: post.Name, Thread: t}
	}
}

func expandMore(source *feed.Source, postName string, stub *api.More, depth, index int) tea.Cmd {
	return func() tea.Msg {
		items, nodes, err := source.ExpandMore(context.Background(), postName, stub, depth)
		return messages.MoreExpandedMsg{
			PostName: postName,
			StubName: stub.Name,
			Index:    index,
			Items:    items,
			Nodes:    nodes,
			Err:      err,
		}
	}
}

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

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return messages.StatusMsg{Text: text, IsError: isErr} }
}

// renderItem draws the submission header, a comment, or a more-stub.
func (m Model) renderItem(it content.Item, selected bool, width int) []string {
	switch it.Kind {
	case content.KindSubmission:
		return m.renderSubmission(it.Raw.(*api.Post), width)
	case content.KindMoreComments:
		return m.renderMore(it.Raw.(*api.More), it.Depth, selected, width)
	default:
		return m.renderComment(it.Raw.(*api.Comment), it.Depth, selected, width)
	}
}

func (m Model) renderSubmission(post *api.Post, width int) []string {
	textWidth := width - 2
	if textWidth < 20 {
		textWidth = 20
	}

	var lines []string
	for _, tl := range strings.Split(render.WrapText(post.Title, textWidth), "\n") {
		lines = append(lines, titleStyle.Render(tl))
	}

	meta := fmt.Sprintf("%s  %s  %s  %s  %s",
		scoreStyle.Render(fmt.Sprintf("%d pts", post.Score)),
		metaStyle.Render(fmt.Sprintf("%d comments", post.NumComments)),
		metaStyle.Render(render.TimeAgo(int64(post.CreatedUTC))),
		metaStyle.Render("u/"+post.Author),
		metaStyle.Render("/r/"+post.Subreddit),
	)
	if post.Over18 {
		meta += "  " + nsfwStyle.Render("NSFW")
	}
	lines = append(lines, meta)

	if !post.IsSelf && post.URL != "" {
		lines = append(lines, urlStyle.Render(post.URL))
	}
	if body := postBody(post, textWidth); body != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split(body, "\n")...)
	}
	lines = append(lines, separatorStyle.Render(strings.Repeat("─", max(width, 1))))
	return lines
}

func (m Model) renderComment(c *api.Comment, depth int, selected bool, width int) []string {
	indent := indentFor(depth)
	gutter := indent + bar(depth, selected) + " "

	if c.Deleted() {
		line := gutter + deletedStyle.Render("[deleted]")
		if selected {
			line = selectedStyle.Render(line)
		}
		return []string{line, ""}
	}

	header := authorStyle.Render("u/" + c.Author)
	header += " " + scoreStyle.Render(fmt.Sprintf("%d pts", c.Score))
	header += " " + metaStyle.Render(render.TimeAgo(int64(c.CreatedUTC)))
	if m.st.post != nil && c.Author == m.st.post.Author {
		header += " " + opStyle.Render(" OP ")
	}
	collapsed := m.st.collapse[c.Name]
	if collapsed {
		header += " " + metaStyle.Render(fmt.Sprintf("[+%d]", subtreeSize(c)))
	}

	headerLine := gutter + header
	if selected {
		headerLine = selectedStyle.Render(headerLine)
	}
	lines := []string{headerLine}

	if !collapsed {
		bodyWidth := width - len(indent) - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		for _, bl := range strings.Split(commentBody(c, bodyWidth), "\n") {
			line := gutter + bl
			if selected {
				line = selectedStyle.Render(line)
			}
			lines = append(lines, line)
		}
	}
	lines = append(lines, "")
	return lines
}

func commentBody(c *api.Comment, width int) string {
	if c.BodyHTML != "" {
		return render.BodyToText(c.BodyHTML, width)
	}
	return render.WrapText(c.Body, width)
}

// subtreeSize counts a collapsed comment's hidden descendants.
func subtreeSize(c *api.Comment) int {
	n := 0
	for _, child := range c.Replies() {
		if child.Comment != nil {
			n += 1 + subtreeSize(child.Comment)
		} else {
			n++
		}
	}
	return n
}

func (m Model) renderMore(more *api.More, depth int, selected bool, width int) []string {
	indent := indentFor(depth)
	label := fmt.Sprintf("▸ more comments (%d)", more.Count)
	line := indent + bar(depth, selected) + " " + moreStyle.Render(label)
	if selected {
		line = selectedStyle.Render(line)
	}
	return []string{line, ""}
}

func postBody(post *api.Post, width int) string {
	if post.SelftextHTML != "" {
		return render.BodyToText(post.SelftextHTML, width)
	}
	if post.Selftext != "" {
		return render.WrapText(post.Selftext, width)
	}
	return ""
}

func indentFor(depth int) string {
	n := depth * 2
	if n > maxIndent {
		n = maxIndent
	}
	return strings.Repeat(" ", n)
}

func bar(depth int, selected bool) string {
	color := depthColors[depth%len(depthColors)]
	if selected {
		color = "#FF4500"
	}
	return lipgloss.NewStyle().Foreground(color).Render("│")
}
