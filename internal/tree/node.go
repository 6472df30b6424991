package tree

import (
	"fmt"
	"strings"
)

// Kind is the tagged variant a node's type string is parsed into.
type Kind int

const (
	// KindLeaf is any entry that is not a folder (files, documents, ...)
	KindLeaf Kind = iota
	// KindFolder is an entry that can be expanded
	KindFolder
	// KindLoading is the transient placeholder shown while a fetch is outstanding
	KindLoading
	// KindRoot is the synthetic "." entry standing for the root
	KindRoot
)

// Type strings with special meaning on the wire and in rendered classes.
const (
	TypeFolder     = "folder"
	TypeOpenFolder = "openfolder"
	TypeLoading    = "loading"
	TypeRoot       = "root"
)

// ParseKind maps a server type string to its Kind. Unknown types are leaves.
func ParseKind(typ string) Kind {
	switch typ {
	case TypeFolder, TypeOpenFolder:
		return KindFolder
	case TypeLoading:
		return KindLoading
	case TypeRoot:
		return KindRoot
	default:
		return KindLeaf
	}
}

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindFolder:
		return "folder"
	case KindLoading:
		return "loading"
	case KindRoot:
		return "root"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is one element of a listing response.
type Entry struct {
	File string `json:"file"`
	Type string `json:"type"`
	UID  string `json:"uid"`
}

// Node is one cached entry of the remote hierarchy.
type Node struct {
	// UID is the server-assigned identifier (empty for the root)
	UID string

	// Label is the display name
	Label string

	// Type is the raw type string from the server
	Type string

	// Kind is Type parsed into a closed variant
	Kind Kind

	children []*Node
	parent   *Node
}

func newNode(e Entry) *Node {
	return &Node{
		UID:   e.UID,
		Label: e.File,
		Type:  e.Type,
		Kind:  ParseKind(e.Type),
	}
}

// Children returns the node's children in insertion order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// HasChildren reports whether any children have been cached for this node
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Parent returns the parent node, or nil for the root
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether n is the synthetic root
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Child returns the direct child with the given uid.
func (n *Node) Child(uid string) (*Node, bool) {
	for _, c := range n.children {
		if c.UID == uid {
			return c, true
		}
	}
	return nil, false
}

// Depth returns the number of parent links between n and the root
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Path joins the labels from the root down to n with sep.
// Nodes without a label (the root) contribute nothing.
func (n *Node) Path(sep string) string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Label != "" {
			parts = append(parts, cur.Label)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, sep)
}

// String returns a short description for logs
func (n *Node) String() string {
	if n.IsRoot() {
		return "<root>"
	}
	return fmt.Sprintf("%s (%s, uid=%s)", n.Label, n.Type, n.UID)
}
