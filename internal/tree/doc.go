// Package tree holds the in-memory model of a remote hierarchical listing.
//
// The model is an append-only cache: nodes are created only when a listing
// response arrives and are never removed during normal operation. Each node
// owns its ordered children and keeps a non-owning link to its parent, so a
// node's full path can be rebuilt by walking upwards.
//
// # Lookup
//
// Every inserted node is recorded in a uid index maintained alongside the
// tree. Locate answers from the index in constant time with the same result
// a depth-first search would give: the first node inserted under a uid, or
// not-found when the uid has never been fetched.
//
//	m := tree.NewModel()
//	m.InsertChildren(m.Root(), []tree.Entry{
//	    {File: "docs", Type: "folder", UID: "101"},
//	    {File: "README", Type: "file", UID: "102"},
//	})
//
//	node, ok := m.Locate("101")
//	if ok {
//	    fmt.Println(node.Path("/")) // docs
//	}
//
// # Kinds
//
// The server's type string is kept verbatim on the node (it doubles as the
// rendered CSS class) and is also parsed into a Kind so callers can switch
// on a closed set of variants instead of comparing strings.
//
// # Thread Safety
//
// A Model is not safe for concurrent use. Callers mutate it from a single
// event loop.
package tree
