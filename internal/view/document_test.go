package view

import (
	"testing"
)

func buildDocument() (*Document, *Element, *Element) {
	doc := NewDocument("tree")
	ul := NewElement(TagUL, "")
	doc.Anchor().AppendChild(ul)

	folder := NewItem("101", "folder", "x")
	leaf := NewItem("102", "file", "y")
	ul.AppendChild(folder)
	ul.AppendChild(leaf)

	inner := NewElement(TagUL, "")
	folder.AppendChild(inner)
	inner.AppendChild(NewItem("201", "file", "z"))

	return doc, folder, leaf
}

func TestElementByID(t *testing.T) {
	doc, folder, leaf := buildDocument()

	if got := doc.ElementByID("101"); got != folder {
		t.Errorf("ElementByID(101) = %v, want folder", got)
	}
	if got := doc.ElementByID("102"); got != leaf {
		t.Errorf("ElementByID(102) = %v, want leaf", got)
	}
	if got := doc.ElementByID("201"); got == nil || got.Text != "z" {
		t.Errorf("ElementByID(201) = %v, want nested item", got)
	}
	if got := doc.ElementByID("tree"); got != doc.Anchor() {
		t.Error("ElementByID should find the anchor itself")
	}
	if got := doc.ElementByID(""); got != nil {
		t.Error("empty id should never match")
	}
	if got := doc.ElementByID("missing"); got != nil {
		t.Error("unknown id should not match")
	}
}

func TestElementByIDFirstInDocumentOrder(t *testing.T) {
	doc := NewDocument("tree")
	ul := NewElement(TagUL, "")
	doc.Anchor().AppendChild(ul)
	first := NewItem("7", "file", "first")
	ul.AppendChild(first)
	ul.AppendChild(NewItem("7", "file", "second"))

	if got := doc.ElementByID("7"); got != first {
		t.Errorf("ElementByID(7) = %q, want first", got.Text)
	}
}

func TestClasses(t *testing.T) {
	el := NewItem("1", "folder", "x")

	el.AddClass("folder")
	if got := el.ClassName(); got != "folder" {
		t.Errorf("ClassName() = %q, duplicate class added", got)
	}

	el.ReplaceClass("folder", "openfolder")
	if el.HasClass("folder") || !el.HasClass("openfolder") {
		t.Errorf("ReplaceClass failed, classes = %v", el.Classes())
	}
	if el.Type != "folder" {
		t.Errorf("Type changed to %q, should stay folder", el.Type)
	}

	el.AddClass("selected")
	el.RemoveClass("openfolder")
	if got := el.ClassName(); got != "selected" {
		t.Errorf("ClassName() = %q, want selected", got)
	}
}

func TestElementsByClass(t *testing.T) {
	doc, folder, leaf := buildDocument()
	folder.AddClass("selected")
	leaf.AddClass("selected")

	got := doc.ElementsByClass("selected")
	if len(got) != 2 || got[0] != folder || got[1] != leaf {
		t.Errorf("ElementsByClass(selected) = %v", got)
	}
}

func TestVisibility(t *testing.T) {
	_, folder, _ := buildDocument()
	inner := folder.FirstChild(TagUL)
	item := inner.Children()[0]

	if !item.Displayed() {
		t.Fatal("item should be displayed initially")
	}

	inner.Toggle()
	if inner.Visible() {
		t.Error("inner list should be hidden after toggle")
	}
	if item.Displayed() {
		t.Error("item inside a hidden list should not be displayed")
	}
	if !item.Visible() {
		t.Error("item's own visibility should be unchanged")
	}

	inner.Toggle()
	if !item.Displayed() {
		t.Error("item should be displayed after second toggle")
	}
}

func TestRemoveChildren(t *testing.T) {
	_, folder, _ := buildDocument()
	inner := folder.FirstChild(TagUL)

	folder.RemoveChildren(TagUL)
	if folder.FirstChild(TagUL) != nil {
		t.Error("ul children should be removed")
	}
	if inner.Parent() != nil {
		t.Error("removed child should be detached")
	}

	ul := NewElement(TagUL, "")
	ul.AppendChild(NewItem("a", "file", "a"))
	ul.AppendChild(NewItem("b", "file", "b"))
	ul.RemoveAllChildren()
	if len(ul.Children()) != 0 {
		t.Errorf("RemoveAllChildren left %d children", len(ul.Children()))
	}
}

func TestAppendChildMoves(t *testing.T) {
	a := NewElement(TagUL, "a")
	b := NewElement(TagUL, "b")
	item := NewItem("1", "file", "x")

	a.AppendChild(item)
	b.AppendChild(item)

	if len(a.Children()) != 0 {
		t.Error("item should be moved out of a")
	}
	if item.Parent() != b {
		t.Error("item parent should be b")
	}
	if !b.Contains(item) || a.Contains(item) {
		t.Error("Contains should follow the move")
	}
}

func TestSelectedField(t *testing.T) {
	doc := NewDocument("tree")
	if doc.SetSelectedField("x") {
		t.Error("SetSelectedField should report false without the field")
	}
	if doc.SelectedField() != "" {
		t.Error("absent field should stay empty")
	}

	doc = NewDocument("tree", WithSelectedField())
	if !doc.SetSelectedField("report.txt") {
		t.Error("SetSelectedField should report true with the field")
	}
	if doc.SelectedField() != "report.txt" {
		t.Errorf("SelectedField() = %q", doc.SelectedField())
	}
}

func TestTextSelection(t *testing.T) {
	doc := NewDocument("tree")
	doc.SetTextSelection("highlighted")
	doc.ClearTextSelection()
	if doc.TextSelection() != "" {
		t.Error("ClearTextSelection should drop the selection")
	}
}
