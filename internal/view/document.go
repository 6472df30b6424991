package view

// Document is the rendering sink: a tree of elements mounted under an
// anchor, a breadcrumb display and an optional selected-value field.
type Document struct {
	anchor *Element

	breadcrumb string

	hasSelectedField bool
	selectedField    string

	textSelection string
}

// Option configures a Document
type Option func(*Document)

// WithSelectedField enables the field mirroring the selected leaf's name
func WithSelectedField() Option {
	return func(d *Document) { d.hasSelectedField = true }
}

// NewDocument creates a document with an empty anchor div
func NewDocument(anchorID string, opts ...Option) *Document {
	d := &Document{anchor: NewElement(TagDiv, anchorID)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Anchor returns the element the tree is mounted into
func (d *Document) Anchor() *Element {
	return d.anchor
}

// ElementByID returns the first element in document order with the given
// id. Elements without an id are never matched.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.anchor.Walk(func(el *Element) bool {
		if found != nil {
			return false
		}
		if el.ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// ElementsByClass returns every element carrying class, in document order
func (d *Document) ElementsByClass(class string) []*Element {
	var out []*Element
	d.anchor.Walk(func(el *Element) bool {
		if el.HasClass(class) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Breadcrumb returns the text of the path display
func (d *Document) Breadcrumb() string {
	return d.breadcrumb
}

// SetBreadcrumb replaces the text of the path display
func (d *Document) SetBreadcrumb(text string) {
	d.breadcrumb = text
}

// HasSelectedField reports whether the selected-value field is present
func (d *Document) HasSelectedField() bool {
	return d.hasSelectedField
}

// SelectedField returns the value of the selected-value field
func (d *Document) SelectedField() string {
	return d.selectedField
}

// SetSelectedField sets the selected-value field if it is present.
// It reports whether the field exists.
func (d *Document) SetSelectedField(value string) bool {
	if !d.hasSelectedField {
		return false
	}
	d.selectedField = value
	return true
}

// TextSelection returns the active text selection, if any
func (d *Document) TextSelection() string {
	return d.textSelection
}

// SetTextSelection records an active text selection
func (d *Document) SetTextSelection(text string) {
	d.textSelection = text
}

// ClearTextSelection drops any active text selection
func (d *Document) ClearTextSelection() {
	d.textSelection = ""
}
