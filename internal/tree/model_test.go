package tree

import (
	"testing"
)

func sampleEntries() []Entry {
	return []Entry{
		{File: "x", Type: "folder", UID: "101"},
		{File: "y", Type: "file", UID: "102"},
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel()

	if m.Root() == nil {
		t.Fatal("Root() should not be nil")
	}
	if !m.Root().IsRoot() {
		t.Error("root should have no parent")
	}
	if m.Root().UID != "" || m.Root().Label != "" {
		t.Errorf("root should carry no data, got uid=%q label=%q", m.Root().UID, m.Root().Label)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestInsertChildren(t *testing.T) {
	m := NewModel()
	added := m.InsertChildren(m.Root(), sampleEntries())

	if len(added) != 2 {
		t.Fatalf("added %d nodes, want 2", len(added))
	}

	children := m.Root().Children()
	if len(children) != 2 {
		t.Fatalf("root has %d children, want 2", len(children))
	}

	if children[0].UID != "101" || children[0].Kind != KindFolder {
		t.Errorf("first child = %v, want folder 101", children[0])
	}
	if children[1].UID != "102" || children[1].Kind != KindLeaf {
		t.Errorf("second child = %v, want leaf 102", children[1])
	}

	for _, c := range children {
		if c.Parent() != m.Root() {
			t.Errorf("child %s parent should be root", c.UID)
		}
	}
}

func TestInsertChildrenIdempotent(t *testing.T) {
	m := NewModel()
	m.InsertChildren(m.Root(), sampleEntries())
	added := m.InsertChildren(m.Root(), sampleEntries())

	if len(added) != 0 {
		t.Errorf("second insert added %d nodes, want 0", len(added))
	}
	if got := len(m.Root().Children()); got != 2 {
		t.Errorf("root has %d children after re-insert, want 2", got)
	}

	// Same uid under a different parent is a distinct child.
	folder, _ := m.Locate("101")
	added = m.InsertChildren(folder, []Entry{{File: "y", Type: "file", UID: "102"}})
	if len(added) != 1 {
		t.Errorf("insert under other parent added %d nodes, want 1", len(added))
	}
}

func TestInsertChildrenDuplicateWithinBatch(t *testing.T) {
	m := NewModel()
	added := m.InsertChildren(m.Root(), []Entry{
		{File: "a", Type: "file", UID: "1"},
		{File: "a again", Type: "file", UID: "1"},
	})

	if len(added) != 1 {
		t.Fatalf("added %d nodes, want 1", len(added))
	}
	if added[0].Label != "a" {
		t.Errorf("kept %q, want the first entry", added[0].Label)
	}
}

func TestInsertChildrenNilParent(t *testing.T) {
	m := NewModel()
	m.InsertChildren(nil, sampleEntries())

	if got := len(m.Root().Children()); got != 2 {
		t.Errorf("nil parent should insert under root, root has %d children", got)
	}
}

func TestLocate(t *testing.T) {
	m := NewModel()
	m.InsertChildren(m.Root(), sampleEntries())
	folder, _ := m.Locate("101")
	m.InsertChildren(folder, []Entry{
		{File: "deep", Type: "folder", UID: "201"},
		{File: "deeper.txt", Type: "txt", UID: "202"},
	})

	// Every reachable node is found by its own uid.
	count := 0
	m.Walk(func(n *Node) bool {
		count++
		got, ok := m.Locate(n.UID)
		if !ok {
			t.Errorf("Locate(%q) not found", n.UID)
		} else if got != n {
			t.Errorf("Locate(%q) returned a different node", n.UID)
		}
		return true
	})
	if count != 4 {
		t.Errorf("walked %d nodes, want 4", count)
	}

	for _, uid := range []string{"", "999", "10"} {
		if _, ok := m.Locate(uid); ok {
			t.Errorf("Locate(%q) should be not-found", uid)
		}
	}
}

func TestLocateFirstMatch(t *testing.T) {
	m := NewModel()
	m.InsertChildren(m.Root(), []Entry{{File: "a", Type: "folder", UID: "1"}})
	a, _ := m.Locate("1")
	m.InsertChildren(a, []Entry{{File: "shadow", Type: "file", UID: "1"}})

	got, ok := m.Locate("1")
	if !ok {
		t.Fatal("Locate(1) not found")
	}
	if got != a {
		t.Errorf("Locate(1) = %v, want the first inserted node", got)
	}
}

func TestLocateFirstInsertedNotTreeOrder(t *testing.T) {
	m := NewModel()
	m.InsertChildren(m.Root(), []Entry{
		{File: "a", Type: "folder", UID: "A"},
		{File: "b", Type: "folder", UID: "B"},
	})
	a, _ := m.Locate("A")
	b, _ := m.Locate("B")

	// b's child is inserted before a's, although a comes first in the tree.
	m.InsertChildren(b, []Entry{{File: "xb", Type: "file", UID: "X"}})
	m.InsertChildren(a, []Entry{{File: "xa", Type: "file", UID: "X"}})

	got, ok := m.Locate("X")
	if !ok {
		t.Fatal("Locate(X) not found")
	}
	if got.Path("/") != "b/xb" {
		t.Errorf("Locate(X) = %s, want b/xb (first inserted)", got.Path("/"))
	}
}

func TestReset(t *testing.T) {
	m := NewModel()
	m.InsertChildren(m.Root(), sampleEntries())
	old := m.Root()

	m.Reset()

	if m.Root() == old {
		t.Error("Reset should create a new root")
	}
	if m.Root().HasChildren() {
		t.Error("new root should have no children")
	}
	if _, ok := m.Locate("101"); ok {
		t.Error("index should be cleared by Reset")
	}
}

func TestPath(t *testing.T) {
	m := NewModel()
	m.InsertChildren(m.Root(), []Entry{{File: "a", Type: "folder", UID: "A"}})
	a, _ := m.Locate("A")
	m.InsertChildren(a, []Entry{{File: "b", Type: "file", UID: "B"}})
	b, _ := m.Locate("B")

	tests := []struct {
		name string
		node *Node
		sep  string
		want string
	}{
		{"root", m.Root(), "/", ""},
		{"one level", a, "/", "a"},
		{"two levels", b, "/", "a/b"},
		{"custom separator", b, "\\", "a\\b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Path(tt.sep); got != tt.want {
				t.Errorf("Path(%q) = %q, want %q", tt.sep, got, tt.want)
			}
		})
	}

	if b.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", b.Depth())
	}
}

func TestWalkPrune(t *testing.T) {
	m := NewModel()
	m.InsertChildren(m.Root(), sampleEntries())
	folder, _ := m.Locate("101")
	m.InsertChildren(folder, []Entry{{File: "inner", Type: "file", UID: "301"}})

	var visited []string
	m.Walk(func(n *Node) bool {
		visited = append(visited, n.UID)
		return n.Kind != KindFolder
	})

	if len(visited) != 2 {
		t.Errorf("visited %v, want only the two top-level nodes", visited)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		typ  string
		want Kind
	}{
		{"folder", KindFolder},
		{"openfolder", KindFolder},
		{"loading", KindLoading},
		{"root", KindRoot},
		{"file", KindLeaf},
		{"txt", KindLeaf},
		{"", KindLeaf},
	}

	for _, tt := range tests {
		if got := ParseKind(tt.typ); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
