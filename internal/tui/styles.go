package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/treebrowse/internal/version"
)

// Application branding constants
const (
	AppName   = "TREEBROWSE"
	GitHubURL = "github.com/muurk/treebrowse"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72 // Minimum supported terminal width
	DefaultHeight    = 24 // Used until the first WindowSizeMsg arrives

	// chromeHeight is the space taken by the container borders, header,
	// footer and the status lines under the tree
	chromeHeight = 12
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// CursorRowStyle highlights the row under the cursor
	CursorRowStyle = lipgloss.NewStyle().
			Foreground(HighlightColor).
			Bold(true)

	// SelectedMarkStyle is the marker next to the selected item
	SelectedMarkStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	// AlertBoxStyle frames the blocking alert modal
	AlertBoxStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// RenderError renders an error message
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// RenderApplicationContainer wraps a screen's content with the application
// header, a footer holding the help text and an outer border filling the
// terminal.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// SafeModalWidth returns requestedWidth capped so a modal fits the terminal
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderModal centers modalContent on a dimmed full-screen background
func RenderModal(modalContent string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
