package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/treebrowse/internal/browser"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenPicker  Screen = "picker"
	ScreenBrowser Screen = "browser"
)

// Options configures the interactive browser
type Options struct {
	// Browser configures the tree. An empty URL starts on the picker.
	Browser browser.Config

	// NewFetcher builds the fetcher for a listing URL
	NewFetcher func(url string) browser.Fetcher

	// Known servers offered by the picker
	Known []Server

	// Scan discovers servers for the picker; nil disables discovery
	Scan        ScanFunc
	ScanTimeout time.Duration

	// OnServerSelected is called when the picker hands a server to the browser
	OnServerSelected func(Server)
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	Picker  PickerModel
	Browser BrowserModel

	// Result state
	Accepted bool
	Result   string

	Width  int
	Height int

	opts       Options
	usedPicker bool
}

// NewAppModel creates the application model. It starts on the browser when
// opts.Browser.URL is set, otherwise on the picker.
func NewAppModel(opts Options) AppModel {
	m := AppModel{opts: opts}
	if opts.Browser.URL != "" {
		m.CurrentScreen = ScreenBrowser
		m.Browser = m.newBrowser(opts.Browser.URL)
		return m
	}
	m.CurrentScreen = ScreenPicker
	m.Picker = NewPickerModel(opts.Known, opts.Scan, opts.ScanTimeout)
	m.usedPicker = true
	return m
}

func (m AppModel) newBrowser(url string) BrowserModel {
	cfg := m.opts.Browser
	cfg.URL = url

	var fetcher browser.Fetcher
	if m.opts.NewFetcher != nil {
		fetcher = m.opts.NewFetcher(url)
	}
	b := NewBrowserModel(cfg, fetcher)
	b.CanGoBack = m.usedPicker
	b.Width = m.Width
	b.Height = m.Height
	b.Help.Width = m.Width
	return b
}

// Init initializes the current screen
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenPicker:
		return m.Picker.Init()
	case ScreenBrowser:
		return m.Browser.Init()
	default:
		return nil
	}
}

// Update routes messages to the active screen and handles transitions
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = size.Width
		m.Height = size.Height
		if m.usedPicker {
			updated, _ := m.Picker.Update(size)
			m.Picker = updated.(PickerModel)
		}
		if m.Browser.ctrl != nil {
			updated, _ := m.Browser.Update(size)
			m.Browser = updated.(BrowserModel)
		}
		return m, nil
	}

	switch m.CurrentScreen {
	case ScreenPicker:
		var updated tea.Model
		updated, cmd = m.Picker.Update(msg)
		m.Picker = updated.(PickerModel)
		if srv, ok := m.Picker.SelectedServer(); ok {
			return m.openServer(srv)
		}

	case ScreenBrowser:
		// Picker results and ticks still arrive after a transition.
		if _, ok := msg.(scanCompleteMsg); ok {
			updated, _ := m.Picker.Update(msg)
			m.Picker = updated.(PickerModel)
			return m, nil
		}

		var updated tea.Model
		updated, cmd = m.Browser.Update(msg)
		m.Browser = updated.(BrowserModel)
		if m.Browser.Accepted {
			m.Accepted = true
			m.Result = m.Browser.Result
		}
		if m.Browser.Back {
			m.CurrentScreen = ScreenPicker
			m.Picker.Selected = false
			m.Browser = BrowserModel{}
			return m, m.Picker.Spinner.Tick
		}
	}
	return m, cmd
}

func (m AppModel) openServer(srv Server) (tea.Model, tea.Cmd) {
	if m.opts.OnServerSelected != nil {
		m.opts.OnServerSelected(srv)
	}
	m.Picker.Selected = false
	m.CurrentScreen = ScreenBrowser
	m.Browser = m.newBrowser(srv.URL)
	return m, m.Browser.Init()
}

// View renders the active screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenPicker:
		return m.Picker.View()
	case ScreenBrowser:
		return m.Browser.View()
	default:
		return fmt.Sprintf("unknown screen %q", m.CurrentScreen)
	}
}

// Run starts the interactive browser and blocks until it exits. It returns
// the accepted selection path and whether the user accepted one.
func Run(opts Options) (string, bool, error) {
	p := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("browser UI failed: %w", err)
	}
	app, ok := final.(AppModel)
	if !ok {
		return "", false, nil
	}
	return app.Result, app.Accepted, nil
}
