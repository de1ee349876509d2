// Package tui is the terminal surface: a form above a scrollable view of
// the rendered response, both driven by one dispatcher.Controller.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/raysh454/reqview/internal/dispatcher"
	"github.com/raysh454/reqview/internal/display"
	"github.com/raysh454/reqview/internal/jsontree"
)

// Methods are the verbs the selector cycles through.
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

const bodyHeight = 4

type focus int

const (
	focusURL focus = iota
	focusMethod
	focusBody
	focusCount
)

var (
	quitKey     = key.NewBinding(key.WithKeys("ctrl+c"))
	submitKey   = key.NewBinding(key.WithKeys("ctrl+s"))
	nextKey     = key.NewBinding(key.WithKeys("tab"))
	prevKey     = key.NewBinding(key.WithKeys("shift+tab"))
	leftKey     = key.NewBinding(key.WithKeys("left"))
	rightKey    = key.NewBinding(key.WithKeys("right"))
	scrollKeys  = key.NewBinding(key.WithKeys("pgup", "pgdown"))
	urlEnterKey = key.NewBinding(key.WithKeys("enter"))
)

// Options tunes the terminal rendering.
type Options struct {
	MaxDepth int
	Styles   jsontree.Styles
}

// Model is the bubbletea model for the terminal surface.
type Model struct {
	ctrl *dispatcher.Controller
	opts Options

	url    textinput.Model
	body   textarea.Model
	method int
	focus  focus

	spinner  spinner.Model
	viewport viewport.Model
	width    int

	snaps       <-chan display.Snapshot
	unsubscribe func()
	snap        display.Snapshot
	inFlight    bool
	err         error
}

type snapshotMsg display.Snapshot

// New builds a model subscribed to ctrl's display. Call Close when the
// program has exited.
func New(ctrl *dispatcher.Controller, opts Options) *Model {
	url := textinput.New()
	url.Placeholder = "http://localhost:9999/json/user"
	url.Prompt = ""
	url.Focus()

	body := textarea.New()
	body.Placeholder = "request body"
	body.ShowLineNumbers = false
	body.SetHeight(bodyHeight)

	snaps, unsubscribe := ctrl.Display().Subscribe()

	return &Model{
		ctrl:        ctrl,
		opts:        opts,
		url:         url,
		body:        body,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:    viewport.New(80, 20),
		width:       80,
		snaps:       snaps,
		unsubscribe: unsubscribe,
		snap:        ctrl.Display().Snapshot(),
	}
}

// Close releases the display subscription.
func (m *Model) Close() {
	m.unsubscribe()
}

// Method is the currently selected verb.
func (m *Model) Method() string {
	return Methods[m.method]
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.waitForSnapshot(m.snaps),
		m.spinner.Tick,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case snapshotMsg:
		m.snap = display.Snapshot(msg)
		m.inFlight = m.snap.Empty()
		m.viewport.SetContent(m.responseView())
		m.viewport.GotoTop()
		return m, m.waitForSnapshot(m.snaps)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, quitKey):
		return m, tea.Quit
	case key.Matches(msg, submitKey):
		m.submit()
		return m, nil
	case key.Matches(msg, nextKey):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, prevKey):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, scrollKeys):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case focusMethod:
		switch {
		case key.Matches(msg, leftKey):
			m.method = (m.method + len(Methods) - 1) % len(Methods)
		case key.Matches(msg, rightKey):
			m.method = (m.method + 1) % len(Methods)
		}
		return m, nil
	case focusURL:
		if key.Matches(msg, urlEnterKey) {
			m.submit()
			return m, nil
		}
	}
	return m, m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusURL:
		m.url, cmd = m.url.Update(msg)
	case focusBody:
		m.body, cmd = m.body.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.url.Blur()
	m.body.Blur()
	switch f {
	case focusURL:
		return m.url.Focus()
	case focusBody:
		return m.body.Focus()
	}
	return nil
}

func (m *Model) submit() {
	_, err := m.ctrl.Submit(dispatcher.Intent{
		Method: m.Method(),
		URL:    m.url.Value(),
		Body:   m.body.Value(),
	})
	m.err = err
	if err == nil {
		m.inFlight = true
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.url.Width = width - 12
	m.body.SetWidth(width - 10)

	// title, url, method, body, status and help lines plus spacing
	used := 10 + bodyHeight
	m.viewport.Width = width
	m.viewport.Height = height - used
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
}

func (m *Model) responseView() string {
	switch {
	case m.snap.Tree != nil:
		return jsontree.Text(m.snap.Tree, jsontree.TextOptions{
			MaxDepth: m.opts.MaxDepth,
			Styles:   m.opts.Styles,
		})
	case m.snap.Placeholder != nil:
		return jsontree.PlaceholderText(m.snap.Placeholder, m.opts.Styles)
	}
	return ""
}

func (m *Model) label(f focus, text string) string {
	if m.focus == f {
		return styleLabelFocused.Render(text)
	}
	return styleLabel.Render(text)
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("reqview") + styleHelp.Render(string(m.ctrl.Policy())) + "\n\n")
	b.WriteString(m.label(focusURL, "URL") + m.url.View() + "\n")

	b.WriteString(m.label(focusMethod, "Method"))
	for i, name := range Methods {
		if i == m.method {
			b.WriteString(styleMethodSelected.Render(name))
		} else {
			b.WriteString(styleMethod.Render(name))
		}
	}
	b.WriteString("\n")

	b.WriteString(m.label(focusBody, "Body") + "\n" + m.body.View() + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(style5xx.Render("error: " + m.err.Error()))
	case m.inFlight:
		b.WriteString(m.spinner.View() + styleHelp.Render("waiting for response"))
	default:
		b.WriteString(StatusStyle(m.snap.Status).Render(m.snap.Status))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(styleHelp.Render("tab focus • ←/→ method • ctrl+s send • pgup/pgdown scroll • ctrl+c quit"))
	return b.String()
}

func (m *Model) waitForSnapshot(c <-chan display.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-c
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// Run drives the terminal surface until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *dispatcher.Controller, opts Options) error {
	m := New(ctrl, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	_, err := p.Run()
	return err
}
