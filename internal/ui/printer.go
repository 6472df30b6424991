package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/treebrowse/internal/listing"
	"github.com/muurk/treebrowse/internal/tree"
)

// Param is one key/value line in a header or result box. A slice of Params
// keeps the order the caller chose.
type Param struct {
	Key   string
	Value string
}

// Printer provides methods for printing UI components to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(RenderHeader(title, command, params, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(RenderErrorBox(title, err, troubleshooting, p.width))
}

// PrintListing prints one level of the hierarchy
func (p *Printer) PrintListing(rec *listing.Record, showUIDs bool) {
	p.Println(RenderListing(rec, showUIDs))
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, params []Param, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(title))
	commandLine := HeaderCommandStyle.Render(command)
	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(params) > 0 {
		dividerWidth := width - 6 // Account for border and padding
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		divider := lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Render(strings.Repeat("─", dividerWidth))

		paramLines := make([]string, 0, len(params))
		for _, param := range params {
			keyStyled := HeaderParamKeyStyle.Render(param.Key + ":")
			valueStyled := HeaderParamValueStyle.Render(param.Value)
			paramLines = append(paramLines, keyStyled+" "+valueStyled)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, divider, strings.Join(paramLines, "\n"))
	}

	return HeaderBorderStyle(width).Render(content)
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Param, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{
		"",
		SuccessTitleStyle.Render(" " + SuccessMarker + "  " + title),
		"",
	}
	for _, d := range details {
		keyStyled := ResultKeyStyle.Render(" " + d.Key + ":")
		valueStyled := ResultValueStyle.Render(d.Value)
		lines = append(lines, keyStyled+" "+valueStyled)
	}
	if len(details) > 0 {
		lines = append(lines, "")
	}

	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{
		"",
		ErrorTitleStyle.Render(" " + FailureMarker + "  FAILED  ─  " + title),
		"",
	}

	if err != nil {
		msg := err.Error()
		if short := listing.ShortMessage(err); short != msg {
			msg = short + "\n    " + msg
		}
		lines = append(lines, ErrorMessageStyle.Render(" Error: "+msg), "")
	}

	if len(troubleshooting) > 0 {
		troubleLines := []string{
			TroubleshootingTitleStyle.Render("Troubleshooting:"),
			"",
		}
		for _, tip := range troubleshooting {
			troubleLines = append(troubleLines, TroubleshootingItemStyle.Render("  • "+tip))
		}
		lines = append(lines, TroubleshootingBoxStyle(width).Render(strings.Join(troubleLines, "\n")), "")
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderListing renders a record as a breadcrumb followed by one line per
// entry, folders first as the server ordered them.
func RenderListing(rec *listing.Record, showUIDs bool) string {
	var b strings.Builder

	crumb := rec.DisplayPath
	if crumb == "" {
		crumb = "/"
	}
	b.WriteString(BreadcrumbStyle.Render(crumb))

	if len(rec.Listing) == 0 {
		b.WriteString("\n  ")
		b.WriteString(UIDStyle.Render("(empty)"))
		return b.String()
	}

	nameWidth := 0
	for _, e := range rec.Listing {
		if w := lipgloss.Width(e.File); w > nameWidth {
			nameWidth = w
		}
	}

	for _, e := range rec.Listing {
		b.WriteString("\n  ")
		b.WriteString(RenderEntry(e.File, e.Type))
		if showUIDs {
			pad := nameWidth - lipgloss.Width(e.File) + 2
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(UIDStyle.Render(e.UID))
		}
	}
	return b.String()
}

// RenderEntry renders a glyph and styled name for an entry of the given type
func RenderEntry(name, typ string) string {
	switch tree.ParseKind(typ) {
	case tree.KindFolder:
		glyph := FolderGlyph
		if typ == tree.TypeOpenFolder {
			glyph = OpenGlyph
		}
		return glyph + " " + FolderStyle.Render(name)
	case tree.KindLoading:
		return "  " + UIDStyle.Render(name)
	default:
		return FileGlyph + " " + FileStyle.Render(name)
	}
}
