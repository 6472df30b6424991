package tui

import (
	"strings"

	"github.com/muurk/treebrowse/internal/browser"
	"github.com/muurk/treebrowse/internal/tree"
	"github.com/muurk/treebrowse/internal/ui"
	"github.com/muurk/treebrowse/internal/view"
)

// row is one displayed list item with its nesting depth
type row struct {
	el    *view.Element
	depth int
}

// visibleRows flattens the displayed items under the document's anchor in
// document order. Items inside a hidden list are skipped.
func visibleRows(doc *view.Document) []row {
	var rows []row
	var walk func(ul *view.Element, depth int)
	walk = func(ul *view.Element, depth int) {
		if ul == nil || !ul.Visible() {
			return
		}
		for _, li := range ul.Children() {
			if li.Tag != view.TagLI || !li.Visible() {
				continue
			}
			rows = append(rows, row{el: li, depth: depth})
			walk(li.FirstChild(view.TagUL), depth+1)
		}
	}
	walk(doc.Anchor().FirstChild(view.TagUL), 0)
	return rows
}

// parentRow returns the index of the row holding the item that contains
// rows[i], or -1 for a top-level item.
func parentRow(rows []row, i int) int {
	ul := rows[i].el.Parent()
	if ul == nil {
		return -1
	}
	li := ul.Parent()
	for j := i - 1; j >= 0; j-- {
		if rows[j].el == li {
			return j
		}
	}
	return -1
}

// rowType is the type used to pick the row's glyph: the open-folder class
// wins over the item's creation type.
func rowType(el *view.Element) string {
	if el.HasClass(tree.TypeOpenFolder) {
		return tree.TypeOpenFolder
	}
	return el.Type
}

func renderRow(r row, atCursor bool) string {
	text := strings.Repeat("  ", r.depth) + ui.RenderEntry(r.el.Text, rowType(r.el))
	if r.el.HasClass(browser.ClassSelected) {
		text += " " + SelectedMarkStyle.Render("●")
	}
	if atCursor {
		return CursorRowStyle.Render("→ ") + text
	}
	return "  " + text
}

// window returns the [start, end) range of n rows to show in height lines so
// that cursor stays visible.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
