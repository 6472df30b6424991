package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/treebrowse/internal/browser"
	"github.com/muurk/treebrowse/internal/listing"
	"github.com/muurk/treebrowse/internal/tree"
)

// listingMsg carries the outcome of one listing fetch back to the event loop
type listingMsg struct {
	req browser.Request
	rec *listing.Record
	err error
}

// alertBox is the blocking modal shown for failed fetches. It is shared by
// pointer so the controller can raise it from inside Update.
type alertBox struct {
	msg    string
	active bool
}

// Alert shows msg until dismissed
func (a *alertBox) Alert(msg string) {
	a.msg = msg
	a.active = true
}

func (a *alertBox) dismiss() {
	a.msg = ""
	a.active = false
}

// BrowserModel is the tree screen. Keys are turned into clicks on the
// controller's rendered items; fetches run as commands and come back as
// listingMsg.
type BrowserModel struct {
	ctrl    *browser.Controller
	fetcher browser.Fetcher
	alert   *alertBox
	cursor  int

	Width  int
	Height int

	Spinner   spinner.Model
	Field     textinput.Model
	Help      help.Model
	Keys      browserKeyMap
	AlertKeys alertKeyMap

	// CanGoBack enables the back key (set when launched from the picker)
	CanGoBack bool

	Accepted bool   // user confirmed the selection
	Result   string // selection path when Accepted
	Back     bool   // user asked to return to the picker
	Quit     bool
}

// NewBrowserModel creates the tree screen for cfg, fetching through fetcher
func NewBrowserModel(cfg browser.Config, fetcher browser.Fetcher) BrowserModel {
	alert := &alertBox{}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	field := textinput.New()
	field.Prompt = ""
	field.Placeholder = "(nothing selected)"

	return BrowserModel{
		ctrl:      browser.New(cfg, fetcher, browser.WithAlerter(alert)),
		fetcher:   fetcher,
		alert:     alert,
		Spinner:   s,
		Field:     field,
		Help:      help.New(),
		Keys:      newBrowserKeyMap(),
		AlertKeys: newAlertKeyMap(),
	}
}

// Controller returns the controller driving this screen
func (m BrowserModel) Controller() *browser.Controller {
	return m.ctrl
}

// Alert returns the message of the open alert, if any
func (m BrowserModel) Alert() (string, bool) {
	return m.alert.msg, m.alert.active
}

// Init mounts the placeholder and requests the root level
func (m BrowserModel) Init() tea.Cmd {
	req := m.ctrl.Init()
	return tea.Batch(m.fetch(req), m.Spinner.Tick)
}

func (m BrowserModel) fetch(req browser.Request) tea.Cmd {
	fetcher := m.fetcher
	if fetcher == nil {
		return nil
	}
	return func() tea.Msg {
		rec, err := fetcher.Fetch(context.Background(), req.UID)
		return listingMsg{req: req, rec: rec, err: err}
	}
}

// Update handles messages for the tree screen
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case listingMsg:
		if msg.err != nil {
			m.ctrl.Fail(msg.req, msg.err)
		} else {
			m.ctrl.Apply(msg.rec)
		}
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.alert.active {
		if key.Matches(msg, m.AlertKeys.Dismiss) {
			m.alert.dismiss()
		}
		return m, nil
	}

	rows := visibleRows(m.ctrl.Document())
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quit = true
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Back):
		if m.CanGoBack {
			m.Back = true
		}
		return m, nil

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll

	case key.Matches(msg, m.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.Keys.Open):
		if m.cursor < len(rows) {
			if req, ok := m.ctrl.Click(browser.Direct(rows[m.cursor].el)); ok {
				cmd = m.fetch(req)
			}
		}

	case key.Matches(msg, m.Keys.Close):
		cmd = m.close(rows)

	case key.Matches(msg, m.Keys.Accept):
		m.Accepted = true
		m.Result = m.ctrl.CurrentSelectionValue()
		return m, tea.Quit
	}

	m.sync()
	return m, cmd
}

// close collapses the open folder under the cursor or moves to its parent.
// In the flat layout it goes up one level.
func (m *BrowserModel) close(rows []row) tea.Cmd {
	if m.ctrl.Config().Layout == browser.LayoutFlat {
		for _, r := range rows {
			if r.el.Text == ".." {
				m.cursor = 0
				if req, ok := m.ctrl.Click(browser.Direct(r.el)); ok {
					return m.fetch(req)
				}
				return nil
			}
		}
		return nil
	}

	if m.cursor >= len(rows) {
		return nil
	}
	el := rows[m.cursor].el
	if tree.ParseKind(el.Type) == tree.KindFolder && m.ctrl.State(el.ID) == browser.StateOpen {
		m.ctrl.Toggle(el.ID)
		return nil
	}
	if p := parentRow(rows, m.cursor); p >= 0 {
		m.cursor = p
	}
	return nil
}

// sync clamps the cursor and mirrors the selected field
func (m *BrowserModel) sync() {
	n := len(visibleRows(m.ctrl.Document()))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.Field.SetValue(m.ctrl.Document().SelectedField())
}

// View renders the tree screen
func (m BrowserModel) View() string {
	width := m.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	height := m.Height
	if height <= 0 {
		height = DefaultHeight
	}

	var b strings.Builder

	crumb := m.ctrl.DisplayPath()
	if crumb == "" {
		crumb = m.ctrl.Config().URL
	}
	b.WriteString(BreadcrumbStyle.Render(crumb))
	if m.ctrl.Pending() > 0 {
		b.WriteString("  " + m.Spinner.View() + " " + RenderSubtitle("loading"))
	}
	b.WriteString("\n\n")

	rows := visibleRows(m.ctrl.Document())
	start, end := window(len(rows), m.cursor, height-chromeHeight)
	for i := start; i < end; i++ {
		b.WriteString(renderRow(rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Selected: ") + m.Field.View() + "\n")
	b.WriteString(LabelStyle.Render("Path:     ") + m.ctrl.CurrentSelectionValue())

	var footer string
	if m.alert.active {
		footer = m.Help.View(m.AlertKeys)
	} else {
		footer = m.Help.View(m.Keys)
	}
	screen := RenderApplicationContainer(b.String(), footer, width, height)

	if m.alert.active {
		box := AlertBoxStyle.Width(SafeModalWidth(60, width)).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("⚠ Alert"),
				"",
				m.alert.msg,
				"",
				RenderSubtitle("Press enter to continue"),
			),
		)
		return RenderModal(box, width, height)
	}
	return screen
}
