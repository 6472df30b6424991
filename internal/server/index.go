package server

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/muurk/treebrowse/internal/listing"
	"github.com/muurk/treebrowse/internal/tree"
)

var (
	// ErrUnknownUID is returned for a uid the index has not handed out
	ErrUnknownUID = errors.New("unknown uid")

	// ErrNotFolder is returned when listing something that is not a directory
	ErrNotFolder = errors.New("not a folder")
)

// uidNamespace scopes the name-based UUIDs derived from relative paths
var uidNamespace = uuid.MustParse("6f1c2a3e-9b7d-4e58-a1f0-3c2d4b5e6f70")

// TypeFile is the type reported for anything that is not a directory
const TypeFile = "file"

// Index serves listings of an fs.FS and remembers which path each uid it
// hands out stands for. Uids are stable across restarts for the same tree.
type Index struct {
	fsys       fs.FS
	showHidden bool

	mu    sync.RWMutex
	paths map[string]string
}

// NewIndex creates an index over fsys
func NewIndex(fsys fs.FS, showHidden bool) *Index {
	return &Index{
		fsys:       fsys,
		showHidden: showHidden,
		paths:      make(map[string]string),
	}
}

// UID returns the uid for a slash-separated path relative to the root.
// The root itself has the empty uid.
func UID(rel string) string {
	if rel == "." || rel == "" {
		return ""
	}
	return uuid.NewSHA1(uidNamespace, []byte(rel)).String()
}

// Resolve returns the relative path for uid
func (ix *Index) Resolve(uid string) (string, bool) {
	if uid == "" {
		return ".", true
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	rel, ok := ix.paths[uid]
	return rel, ok
}

// Len returns the number of uids handed out
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.paths)
}

// List returns the record for the folder identified by uid. Folders sort
// before files, then by name.
func (ix *Index) List(uid string) (*listing.Record, error) {
	rel, ok := ix.Resolve(uid)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUID, uid)
	}

	info, err := fs.Stat(ix.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFolder, rel)
	}

	dirEntries, err := fs.ReadDir(ix.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	sort.SliceStable(dirEntries, func(i, j int) bool {
		if dirEntries[i].IsDir() != dirEntries[j].IsDir() {
			return dirEntries[i].IsDir()
		}
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	entries := make([]listing.Entry, 0, len(dirEntries))
	ix.mu.Lock()
	for _, de := range dirEntries {
		name := de.Name()
		if !ix.showHidden && strings.HasPrefix(name, ".") {
			continue
		}

		childRel := path.Join(rel, name)
		childUID := UID(childRel)
		ix.paths[childUID] = childRel

		typ := TypeFile
		if de.IsDir() {
			typ = tree.TypeFolder
		}
		entries = append(entries, listing.Entry{File: name, Type: typ, UID: childUID})
	}
	ix.mu.Unlock()

	return &listing.Record{
		UID:         uid,
		Listing:     entries,
		DisplayPath: DisplayPath(rel),
	}, nil
}

// DisplayPath returns the breadcrumb shown for a relative path
func DisplayPath(rel string) string {
	if rel == "." || rel == "" {
		return "/"
	}
	return "/" + rel
}
