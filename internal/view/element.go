package view

import (
	"strings"
)

// Element tags used by the browser
const (
	TagDiv = "div"
	TagUL  = "ul"
	TagLI  = "li"
)

// Element is a node of the rendered document.
type Element struct {
	// Tag is the element name (div, ul, li)
	Tag string

	// ID is the element id; list items carry the uid of their node
	ID string

	// Type is the type string the item was created with. Unlike the class
	// list it never changes after creation.
	Type string

	// Text is the element's text content
	Text string

	classes  []string
	children []*Element
	parent   *Element
	hidden   bool
}

// NewElement creates a detached element
func NewElement(tag, id string) *Element {
	return &Element{Tag: tag, ID: id}
}

// NewItem creates a detached list item with the given id, class and text
func NewItem(id, class, text string) *Element {
	el := &Element{Tag: TagLI, ID: id, Type: class, Text: text}
	el.AddClass(class)
	return el
}

// Children returns the element's children in document order
func (e *Element) Children() []*Element {
	return e.children
}

// Parent returns the containing element, or nil when detached or the anchor
func (e *Element) Parent() *Element {
	return e.parent
}

// AppendChild attaches child as the last child of e
func (e *Element) AppendChild(child *Element) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
}

func (e *Element) removeChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Remove detaches e from its parent
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.removeChild(e)
	}
}

// RemoveAllChildren detaches every child of e
func (e *Element) RemoveAllChildren() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// RemoveChildren detaches the children with the given tag
func (e *Element) RemoveChildren(tag string) {
	kept := e.children[:0]
	for _, c := range e.children {
		if c.Tag == tag {
			c.parent = nil
			continue
		}
		kept = append(kept, c)
	}
	e.children = kept
}

// FirstChild returns the first direct child with the given tag
func (e *Element) FirstChild(tag string) *Element {
	for _, c := range e.children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Classes returns a copy of the class list
func (e *Element) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// ClassName returns the class list joined with spaces
func (e *Element) ClassName() string {
	return strings.Join(e.classes, " ")
}

// HasClass reports whether class is in the class list
func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class unless it is empty or already present
func (e *Element) AddClass(class string) {
	if class == "" || e.HasClass(class) {
		return
	}
	e.classes = append(e.classes, class)
}

// RemoveClass removes class from the class list
func (e *Element) RemoveClass(class string) {
	for i, c := range e.classes {
		if c == class {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return
		}
	}
}

// ReplaceClass removes oldClass and adds newClass
func (e *Element) ReplaceClass(oldClass, newClass string) {
	e.RemoveClass(oldClass)
	e.AddClass(newClass)
}

// Visible reports whether the element itself is shown
func (e *Element) Visible() bool {
	return !e.hidden
}

// SetVisible shows or hides the element
func (e *Element) SetVisible(visible bool) {
	e.hidden = !visible
}

// Toggle flips the element's visibility
func (e *Element) Toggle() {
	e.hidden = !e.hidden
}

// Displayed reports whether e and all of its ancestors are visible
func (e *Element) Displayed() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.hidden {
			return false
		}
	}
	return true
}

// Contains reports whether other is e or one of its descendants
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

// Walk visits e and its descendants in document order.
// Returning false from fn skips that element's subtree.
func (e *Element) Walk(fn func(el *Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}
