// Package tui is the terminal composer: a post window with a live character count and a window listing
// this session's posts.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jrsteele09/go-retro-poster/client"
	"github.com/jrsteele09/go-retro-poster/poster"
)

const (
	defaultWidth  = 60
	historyLimit  = 10
	timestampForm = "2006-01-02 15:04"
)

// Poster is what the composer needs from the client application.
type Poster interface {
	Session() client.Session
	Composer() *client.Composer
	History() *client.History
	Submit(ctx context.Context) (client.PostRecord, error)
}

type postedMsg struct {
	record client.PostRecord
	err    error
}

// Model is the composer's bubbletea model.
type Model struct {
	ctx         context.Context
	app         Poster
	webURL      string
	input       textarea.Model
	help        help.Model
	keys        keyMap
	width       int
	posting     bool
	showHistory bool
	status      string
	statusErr   bool
}

// NewModel creates the composer. webURL is used to link failed posts to the provider's compose page.
func NewModel(ctx context.Context, app Poster, webURL string) *Model {
	input := textarea.New()
	input.Placeholder = "What's on your mind? (ctrl+s to post)"
	input.CharLimit = poster.MaxTextLength
	input.ShowLineNumbers = false
	input.SetWidth(defaultWidth)
	input.SetHeight(6)
	input.SetValue(app.Composer().Draft())
	input.Focus()

	return &Model{
		ctx:    ctx,
		app:    app,
		webURL: webURL,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
		width:  defaultWidth,
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(max(msg.Width-4, 20), 100)
		m.input.SetWidth(m.width - 4)
		return m, nil

	case postedMsg:
		m.posting = false
		m.input.Focus()
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.input.Reset()
		m.app.Composer().SetDraft("")
		m.setStatus("Posted: "+msg.record.Link(m.webURL), false)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.history):
			m.showHistory = !m.showHistory
			return m, nil
		case key.Matches(msg, m.keys.post):
			return m, m.post()
		}
		if m.posting {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if !m.posting {
		m.app.Composer().SetDraft(m.input.Value())
	}
	return m, cmd
}

// post submits the draft unless it is empty or a post is already in flight.
func (m *Model) post() tea.Cmd {
	if m.posting {
		return nil
	}
	composer := m.app.Composer()
	composer.SetDraft(m.input.Value())
	if !composer.CanPost() {
		m.setStatus("Nothing to post", true)
		return nil
	}
	m.posting = true
	m.input.Blur()
	m.setStatus("Posting...", false)

	ctx := m.ctx
	return func() tea.Msg {
		record, err := m.app.Submit(ctx)
		return postedMsg{record: record, err: err}
	}
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}

func (m *Model) View() string {
	windows := []string{m.renderPostWindow()}
	if m.showHistory {
		windows = append(windows, m.renderHistoryWindow())
	}
	return lipgloss.JoinVertical(lipgloss.Left, windows...) + "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) renderPostWindow() string {
	title := "New Post"
	if session := m.app.Session(); session.IsAuthenticated {
		title += " (@" + session.Username + ")"
	}

	count := len([]rune(m.input.Value()))
	counter := styles.counter.Render(fmt.Sprintf("%d/%d", count, poster.MaxTextLength))
	if count > poster.MaxTextLength {
		counter = styles.over.Render(fmt.Sprintf("%d/%d", count, poster.MaxTextLength))
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width-4, lipgloss.Right, counter))
	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(styles.err.Render(m.status))
		} else {
			b.WriteString(styles.ok.Render(m.status))
		}
	}
	return m.window(title, b.String())
}

func (m *Model) renderHistoryWindow() string {
	records := m.app.History().Records()
	if len(records) == 0 {
		return m.window("Posts", styles.muted.Render("Nothing posted yet"))
	}
	if len(records) > historyLimit {
		records = records[:historyLimit]
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		line := styles.counter.Render(r.Timestamp.Format(timestampForm)) + "  " + r.Content
		if r.Failed() {
			line += "\n  " + styles.err.Render(r.Error)
		}
		line += "\n  " + styles.muted.Render(r.Link(m.webURL))
		lines = append(lines, line)
	}
	return m.window("Posts", strings.Join(lines, "\n"))
}

func (m *Model) window(title, body string) string {
	bar := styles.titleBar.Width(m.width).Render(title)
	return styles.window.Render(lipgloss.JoinVertical(lipgloss.Left, bar, styles.body.Render(body)))
}
