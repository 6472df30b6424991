package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/treebrowse/internal/discovery"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	services []*discovery.Service
	err      error
}

// ScanFunc discovers listing servers
type ScanFunc func(ctx context.Context) ([]*discovery.Service, error)

// Server is a listing endpoint offered by the picker
type Server struct {
	Name   string
	URL    string
	Detail string
}

// serverItem wraps a Server for use with bubbles/list
type serverItem struct {
	server Server
}

func (s serverItem) FilterValue() string { return s.server.Name + " " + s.server.URL }
func (s serverItem) Title() string       { return s.server.Name }
func (s serverItem) Description() string {
	if s.server.Detail == "" {
		return s.server.URL
	}
	return s.server.URL + " • " + s.server.Detail
}

// ServerFromService converts a discovered service to a picker entry
func ServerFromService(svc *discovery.Service) Server {
	detail := "discovered"
	if v := svc.GetMetadata("version"); v != "" {
		detail = "version " + v
	}
	return Server{Name: svc.Instance, URL: svc.ListingURL(), Detail: detail}
}

// PickerModel is the server selection screen
type PickerModel struct {
	Scanning   bool
	ServerList list.Model
	Selected   bool
	Err        error

	ManualMode bool
	URLInput   textinput.Model

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	ScanTimeout   time.Duration
	Help          help.Model
	Keys          pickerKeyMap
	ManualKeys    manualKeyMap

	known []Server
	scan  ScanFunc
}

// NewPickerModel creates the picker. known servers are listed before any
// scan result; scan may be nil to disable discovery.
func NewPickerModel(known []Server, scan ScanFunc, timeout time.Duration) PickerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "http://localhost:8080/listing"
	urlInput.Width = 50

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(HighlightColor).BorderForeground(HighlightColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(HighlightColor)

	serverList := list.New(serverItems(known, nil), delegate, MinTerminalWidth-4, DefaultHeight-chromeHeight)
	serverList.Title = "Listing Servers"
	serverList.SetShowStatusBar(false)
	serverList.SetShowHelp(false)
	serverList.SetFilteringEnabled(true)
	serverList.Styles.Title = TitleStyle

	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	return PickerModel{
		ServerList:  serverList,
		URLInput:    urlInput,
		Spinner:     s,
		ProgressBar: bar,
		ScanTimeout: timeout,
		Help:        help.New(),
		Keys:        newPickerKeyMap(),
		ManualKeys:  newManualKeyMap(),
		known:       known,
		scan:        scan,
	}
}

func serverItems(known []Server, services []*discovery.Service) []list.Item {
	seen := make(map[string]bool)
	items := make([]list.Item, 0, len(known)+len(services))
	for _, svc := range services {
		srv := ServerFromService(svc)
		seen[srv.URL] = true
		items = append(items, serverItem{server: srv})
	}
	for _, srv := range known {
		if seen[srv.URL] {
			continue
		}
		items = append(items, serverItem{server: srv})
	}
	return items
}

// Init starts a scan when discovery is enabled
func (m PickerModel) Init() tea.Cmd {
	if m.scan == nil {
		return nil
	}
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.scanCmd(),
		m.Spinner.Tick,
	)
}

func (m PickerModel) scanCmd() tea.Cmd {
	scan := m.scan
	return func() tea.Msg {
		services, err := scan(context.Background())
		return scanCompleteMsg{services: services, err: err}
	}
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.ServerList.SetWidth(msg.Width - 4)
		m.ServerList.SetHeight(msg.Height - chromeHeight)
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		m.ServerList.SetItems(serverItems(m.known, msg.services))
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m PickerModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Select):
		if m.ServerList.SelectedItem() != nil {
			m.Selected = true
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		if m.scan == nil || m.Scanning {
			return m, nil
		}
		m.Err = nil
		return m, tea.Batch(
			func() tea.Msg { return scanStartMsg{} },
			m.scanCmd(),
		)

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()
	}

	m.ServerList, cmd = m.ServerList.Update(msg)
	return m, cmd
}

func (m PickerModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		value := strings.TrimSpace(m.URLInput.Value())
		if value == "" {
			return m, nil
		}
		item := serverItem{server: Server{Name: "Manual", URL: value, Detail: "entered"}}
		items := append([]list.Item{item}, m.ServerList.Items()...)
		cmd = m.ServerList.SetItems(items)
		m.ServerList.Select(0)
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		m.Selected = true
		return m, cmd
	}

	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// SelectedServer returns the chosen server once Selected is set
func (m PickerModel) SelectedServer() (Server, bool) {
	if !m.Selected {
		return Server{}, false
	}
	item, ok := m.ServerList.SelectedItem().(serverItem)
	if !ok {
		return Server{}, false
	}
	return item.server, true
}

// View renders the picker
func (m PickerModel) View() string {
	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning && len(m.ServerList.Items()) == 0:
		content = m.renderScanning()
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m PickerModel) renderScanning() string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := elapsed.Seconds() / m.ScanTimeout.Seconds()
	if fraction > 1 {
		fraction = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR LISTING SERVERS"),
		SubtitleStyle.Render("Browsing mDNS for "+discovery.ServiceType+"..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
	)
	width := m.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	return lipgloss.Place(width-4, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m PickerModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
	}

	if len(m.ServerList.Items()) == 0 {
		warning := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  " + warning.Render("⚠ No listing servers found"))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Start one with 'treebrowse-server --advertise'\n")
		b.WriteString("    • mDNS does not cross subnets or most VPNs\n")
		b.WriteString("    • Press 'm' to enter a listing URL\n")
		return b.String()
	}

	if m.Scanning {
		b.WriteString("  " + m.Spinner.View() + " " + RenderSubtitle("scanning...") + "\n")
	}
	b.WriteString(m.ServerList.View())
	return b.String()
}

func (m PickerModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(RenderSubtitle("Enter the listing endpoint URL"))
	b.WriteString("\n\n  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")
	return b.String()
}
