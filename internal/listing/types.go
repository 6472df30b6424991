package listing

import (
	"github.com/muurk/treebrowse/internal/tree"
)

// Entry is one child in a listing record: {file, type, uid}.
type Entry = tree.Entry

// Response is the body returned by the listing endpoint.
// Only the first element of Results is used.
type Response struct {
	Results []Record `json:"results"`
}

// Record is one level of the hierarchy: the children of the node identified
// by UID, plus a breadcrumb string for display.
type Record struct {
	UID         string  `json:"uid"`
	Listing     []Entry `json:"listing"`
	DisplayPath string  `json:"displayPath"`
}

// IsRoot reports whether the record lists the root level
func (r *Record) IsRoot() bool {
	return r.UID == ""
}
