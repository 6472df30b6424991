package tree

import (
	"github.com/muurk/treebrowse/internal/logging"
)

// Model is the cached node tree plus its uid index.
type Model struct {
	root  *Node
	index map[string]*Node
}

// NewModel creates a model holding only an empty synthetic root
func NewModel() *Model {
	m := &Model{}
	m.Reset()
	return m
}

// Reset discards the whole tree and recreates an empty root.
// It is meant for top-level initialisation, not navigation.
func (m *Model) Reset() {
	m.root = &Node{Kind: KindFolder}
	m.index = make(map[string]*Node)
}

// Root returns the synthetic root node
func (m *Model) Root() *Node {
	return m.root
}

// Len returns the number of indexed (non-root) nodes
func (m *Model) Len() int {
	return len(m.index)
}

// Locate returns the node inserted under uid. The root has no uid and is
// never returned; an absent uid means the node has not been fetched yet.
func (m *Model) Locate(uid string) (*Node, bool) {
	if uid == "" {
		return nil, false
	}
	n, ok := m.index[uid]
	return n, ok
}

// InsertChildren appends one node per entry to parent and returns the nodes
// actually added. An entry whose uid already exists among parent's children
// is skipped, which makes re-applying the same listing a no-op.
func (m *Model) InsertChildren(parent *Node, entries []Entry) []*Node {
	if parent == nil {
		parent = m.root
	}

	added := make([]*Node, 0, len(entries))
	for _, e := range entries {
		if _, exists := parent.Child(e.UID); exists {
			logging.LogDuplicateNode(parent.UID, e.UID)
			continue
		}

		child := newNode(e)
		child.parent = parent
		parent.children = append(parent.children, child)

		// First insertion wins. Uids are unique tree-wide on the wire, so
		// this only decides which node a malformed listing resolves to.
		if _, seen := m.index[e.UID]; !seen && e.UID != "" {
			m.index[e.UID] = child
		}
		added = append(added, child)
	}
	return added
}

// Walk visits every node below the root in depth-first pre-order.
// Returning false from fn prunes that node's subtree.
func (m *Model) Walk(fn func(n *Node) bool) {
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, c := range n.children {
			if fn(c) {
				visit(c)
			}
		}
	}
	visit(m.root)
}
