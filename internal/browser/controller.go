package browser

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/treebrowse/internal/listing"
	"github.com/muurk/treebrowse/internal/logging"
	"github.com/muurk/treebrowse/internal/tree"
	"github.com/muurk/treebrowse/internal/view"
)

const (
	// DefaultAnchor is the id of the element the tree is mounted into
	DefaultAnchor = "tree"

	// DefaultSeparator joins labels in CurrentSelectionValue
	DefaultSeparator = "/"

	// ClassSelected marks the selected item
	ClassSelected = "selected"

	// PlaceholderText is shown while a listing is outstanding
	PlaceholderText = "Loading..."
)

// FolderState is the load state of one rendered folder.
type FolderState int

const (
	// StateUnloaded folders fetch their children on first click
	StateUnloaded FolderState = iota
	// StateLoading folders have a fetch outstanding; clicks are ignored
	StateLoading
	// StateOpen folders are loaded with their children shown
	StateOpen
	// StateClosed folders are loaded with their children hidden
	StateClosed
)

// String returns a human-readable name for the state
func (s FolderState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("FolderState(%d)", int(s))
	}
}

// Loaded reports whether the folder's children have arrived
func (s FolderState) Loaded() bool {
	return s == StateOpen || s == StateClosed
}

// Layout selects how listings are rendered.
type Layout int

const (
	// LayoutNested renders each folder's children inside the folder's item
	LayoutNested Layout = iota
	// LayoutFlat renders one folder at a time with "." and ".." entries
	LayoutFlat
)

func (l Layout) String() string {
	if l == LayoutFlat {
		return "flat"
	}
	return "nested"
}

// ParseLayout maps a config string to a Layout
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "nested":
		return LayoutNested, nil
	case "flat":
		return LayoutFlat, nil
	default:
		return LayoutNested, fmt.Errorf("unknown layout %q (want nested or flat)", s)
	}
}

// Fetcher retrieves one level of the hierarchy. *listing.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, uid string) (*listing.Record, error)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to Alerter
type AlertFunc func(msg string)

// Alert calls f(msg)
func (f AlertFunc) Alert(msg string) { f(msg) }

// Request asks for the children of UID (empty for the root).
type Request struct {
	UID string
}

// Event is a click delivered to Target while being handled by Current.
// Events bubbling up from a descendant have Target != Current.
type Event struct {
	Target  *view.Element
	Current *view.Element
}

// Direct returns an event for a click handled by the element it hit
func Direct(el *view.Element) Event {
	return Event{Target: el, Current: el}
}

// Config holds the recognised browser options
type Config struct {
	// Anchor is the id of the element the tree is mounted into
	Anchor string

	// URL is the listing endpoint, kept for display
	URL string

	// Model is an optional pre-built tree
	Model *tree.Model

	// Separator joins labels in CurrentSelectionValue
	Separator string

	// Layout selects nested or flat rendering
	Layout Layout

	// SelectedField enables the field mirroring the selected leaf
	SelectedField bool
}

// Controller drives lazy loading, rendering and selection for one tree.
// It is not safe for concurrent use: every method must be called from the
// same event loop, with fetches delivered back through Apply or Fail.
type Controller struct {
	cfg     Config
	model   *tree.Model
	doc     *view.Document
	fetcher Fetcher
	alerter Alerter

	states       map[string]FolderState
	displayPaths map[string]string
	displayPath  string
	current      string
	rootItem     *view.Element
	pending      int

	selected      string
	hasSelection  bool
	selectedValue string
}

// Option configures a Controller
type Option func(*Controller)

// WithAlerter sets where failure alerts are shown
func WithAlerter(a Alerter) Option {
	return func(c *Controller) { c.alerter = a }
}

// New creates a controller. fetcher may be nil when responses are delivered
// by the caller through Apply and Fail.
func New(cfg Config, fetcher Fetcher, opts ...Option) *Controller {
	if cfg.Anchor == "" {
		cfg.Anchor = DefaultAnchor
	}
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	model := cfg.Model
	if model == nil {
		model = tree.NewModel()
	}

	var docOpts []view.Option
	if cfg.SelectedField {
		docOpts = append(docOpts, view.WithSelectedField())
	}

	c := &Controller{
		cfg:          cfg,
		model:        model,
		doc:          view.NewDocument(cfg.Anchor, docOpts...),
		fetcher:      fetcher,
		states:       make(map[string]FolderState),
		displayPaths: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init mounts the loading placeholder under the anchor and returns the
// request for the root level.
func (c *Controller) Init() Request {
	anchor := c.doc.Anchor()
	ul := anchor.FirstChild(view.TagUL)
	if ul == nil {
		ul = view.NewElement(view.TagUL, "")
		anchor.AppendChild(ul)
	}
	ul.RemoveAllChildren()
	ul.AppendChild(newPlaceholder())

	return c.begin("")
}

func (c *Controller) begin(uid string) Request {
	c.states[uid] = StateLoading
	c.pending++
	return Request{UID: uid}
}

func (c *Controller) settle() {
	if c.pending > 0 {
		c.pending--
	}
}

// Click handles a click event. When the click starts a fetch the request is
// returned with true; the caller runs it and reports back through Apply or
// Fail.
func (c *Controller) Click(ev Event) (Request, bool) {
	if ev.Target == nil || ev.Target != ev.Current {
		return Request{}, false
	}
	el := ev.Target

	switch tree.ParseKind(el.Type) {
	case tree.KindFolder:
		if c.cfg.Layout == LayoutFlat {
			return c.Navigate(el.ID)
		}
		return c.expand(el)
	case tree.KindLeaf, tree.KindRoot:
		c.selectElement(el)
	case tree.KindLoading:
		// inert
	}
	return Request{}, false
}

// Activate clicks the rendered item for uid (the "." entry for the root).
func (c *Controller) Activate(uid string) (Request, bool) {
	el := c.itemFor(uid)
	if el == nil {
		return Request{}, false
	}
	return c.Click(Direct(el))
}

func (c *Controller) expand(el *view.Element) (Request, bool) {
	uid := el.ID

	switch c.states[uid] {
	case StateUnloaded:
		ul := view.NewElement(view.TagUL, "")
		ul.AppendChild(newPlaceholder())
		el.AppendChild(ul)
		el.ReplaceClass(tree.TypeFolder, tree.TypeOpenFolder)
		return c.begin(uid), true
	case StateLoading:
		return Request{}, false
	default:
		c.Toggle(uid)
		return Request{}, false
	}
}

// Toggle flips a loaded folder between open and closed. It never fetches
// and reports whether anything changed.
func (c *Controller) Toggle(uid string) bool {
	if !c.states[uid].Loaded() {
		return false
	}
	el := c.doc.ElementByID(uid)
	if el == nil {
		return false
	}
	ul := el.FirstChild(view.TagUL)
	if ul == nil {
		return false
	}

	ul.Toggle()
	if ul.Visible() {
		el.ReplaceClass(tree.TypeFolder, tree.TypeOpenFolder)
		c.states[uid] = StateOpen
	} else {
		el.ReplaceClass(tree.TypeOpenFolder, tree.TypeFolder)
		c.states[uid] = StateClosed
	}
	return true
}

// Navigate shows one folder in the flat layout. A folder listed before is
// redrawn from the model; otherwise a fetch request is returned.
func (c *Controller) Navigate(uid string) (Request, bool) {
	state := c.states[uid]
	if state == StateLoading {
		return Request{}, false
	}

	if state.Loaded() {
		if node, ok := c.resolve(uid); ok {
			c.renderFlat(node)
			c.setDisplayPath(c.displayPaths[uid])
			return Request{}, false
		}
	}

	anchor := c.doc.Anchor()
	anchor.RemoveChildren(view.TagUL)
	ul := view.NewElement(view.TagUL, "")
	ul.AppendChild(newPlaceholder())
	anchor.AppendChild(ul)
	c.rootItem = nil

	return c.begin(uid), true
}

// resolve returns the node for uid, with the empty uid naming the root
func (c *Controller) resolve(uid string) (*tree.Node, bool) {
	if uid == "" {
		return c.model.Root(), true
	}
	return c.model.Locate(uid)
}

// Apply merges a listing record into the model and re-renders it.
func (c *Controller) Apply(rec *listing.Record) {
	c.settle()

	node, found := c.model.Locate(rec.UID)
	if !found {
		node = c.model.Root()
	}
	added := c.model.InsertChildren(node, rec.Listing)
	c.displayPaths[node.UID] = rec.DisplayPath

	logging.Debug("Applied listing",
		zap.String("uid", rec.UID),
		zap.Bool("resolved", found),
		zap.Int("entries", len(rec.Listing)),
		zap.Int("added", len(added)),
	)

	switch c.cfg.Layout {
	case LayoutFlat:
		c.renderFlat(node)
	default:
		c.renderNested(rec.UID, node)
	}
	c.setDisplayPath(rec.DisplayPath)

	if !c.states[node.UID].Loaded() {
		c.states[node.UID] = StateOpen
	}
	if !found && rec.UID != "" && c.states[rec.UID] == StateLoading {
		c.states[rec.UID] = StateOpen
	}
}

// Fail reports a failed fetch with a blocking alert. No state changes: the
// folder keeps its placeholder.
func (c *Controller) Fail(req Request, err error) {
	c.settle()

	logging.Warn("Listing fetch failed",
		zap.String("uid", req.UID),
		zap.Error(err),
	)

	if c.alerter != nil {
		c.alerter.Alert(AlertMessage(err))
	}
}

// AlertMessage formats a fetch error for the user. Malformed responses
// include the parser's detail.
func AlertMessage(err error) string {
	var lerr *listing.Error
	if listing.IsExceptionError(err) && errors.As(err, &lerr) {
		return "Invalid listing response: " + lerr.Detail()
	}
	return "Failed to load listing: " + listing.ShortMessage(err)
}

// Load runs req through the fetcher and applies or fails the result.
func (c *Controller) Load(ctx context.Context, req Request) error {
	if c.fetcher == nil {
		return errors.New("browser has no fetcher")
	}
	rec, err := c.fetcher.Fetch(ctx, req.UID)
	if err != nil {
		c.Fail(req, err)
		return err
	}
	c.Apply(rec)
	return nil
}

// Expand loads the folder uid (empty for the root) and its sub-folders
// down to depth levels, the way clicking each one in turn would. Folders
// already loaded are not fetched again. A depth below 1 has no limit.
func (c *Controller) Expand(ctx context.Context, uid string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !c.states[uid].Loaded() {
		var req Request
		var ok bool
		switch {
		case uid == "" && c.states[uid] == StateUnloaded:
			req, ok = c.Init(), true
		case c.cfg.Layout == LayoutFlat:
			req, ok = c.Navigate(uid)
		default:
			req, ok = c.Activate(uid)
		}
		if ok {
			if err := c.Load(ctx, req); err != nil {
				return err
			}
		}
	}

	if depth == 1 {
		return nil
	}
	node, ok := c.resolve(uid)
	if !ok {
		return fmt.Errorf("folder %q is not in the tree", uid)
	}
	for _, child := range node.Children() {
		if child.Kind != tree.KindFolder {
			continue
		}
		if err := c.Expand(ctx, child.UID, depth-1); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) renderNested(uid string, node *tree.Node) {
	container := c.doc.ElementByID(uid)
	if container == nil {
		container = c.doc.Anchor()
	}

	ul := container.FirstChild(view.TagUL)
	if ul == nil {
		ul = view.NewElement(view.TagUL, "")
		container.AppendChild(ul)
	}
	ul.RemoveAllChildren()

	if node.IsRoot() {
		c.rootItem = c.newItem("", tree.TypeRoot, ".")
		ul.AppendChild(c.rootItem)
	}
	for _, child := range node.Children() {
		ul.AppendChild(c.renderNode(child))
	}
}

// renderNode builds the item for n, including the subtree of a folder that
// was already loaded so re-rendering a parent keeps it intact.
func (c *Controller) renderNode(n *tree.Node) *view.Element {
	li := c.newItem(n.UID, n.Type, n.Label)
	if n.Kind != tree.KindFolder {
		return li
	}

	switch state := c.states[n.UID]; state {
	case StateLoading:
		li.ReplaceClass(tree.TypeFolder, tree.TypeOpenFolder)
		ul := view.NewElement(view.TagUL, "")
		ul.AppendChild(newPlaceholder())
		li.AppendChild(ul)
	case StateOpen, StateClosed:
		ul := view.NewElement(view.TagUL, "")
		for _, child := range n.Children() {
			ul.AppendChild(c.renderNode(child))
		}
		li.AppendChild(ul)
		if state == StateOpen {
			li.ReplaceClass(tree.TypeFolder, tree.TypeOpenFolder)
		} else {
			ul.SetVisible(false)
		}
	}
	return li
}

func (c *Controller) renderFlat(node *tree.Node) {
	anchor := c.doc.Anchor()
	anchor.RemoveChildren(view.TagUL)
	c.doc.ClearTextSelection()

	ul := view.NewElement(view.TagUL, "")
	anchor.AppendChild(ul)
	c.rootItem = nil
	c.current = node.UID

	ul.AppendChild(view.NewItem(node.UID, tree.TypeFolder, "."))
	if parent := node.Parent(); parent != nil {
		ul.AppendChild(view.NewItem(parent.UID, tree.TypeFolder, ".."))
	}
	for _, child := range node.Children() {
		ul.AppendChild(c.newItem(child.UID, child.Type, child.Label))
	}
}

func (c *Controller) newItem(uid, typ, label string) *view.Element {
	li := view.NewItem(uid, typ, label)
	if c.hasSelection && c.selected == uid {
		li.AddClass(ClassSelected)
	}
	return li
}

func newPlaceholder() *view.Element {
	return view.NewItem("", tree.TypeLoading, PlaceholderText)
}

func (c *Controller) setDisplayPath(path string) {
	c.displayPath = path
	c.doc.SetBreadcrumb(path)
}

// itemFor returns the rendered item for uid
func (c *Controller) itemFor(uid string) *view.Element {
	if uid == "" {
		return c.rootItem
	}
	return c.doc.ElementByID(uid)
}

// Select marks the item for uid as the single selection. It reports false
// when no such item is rendered.
func (c *Controller) Select(uid string) bool {
	el := c.itemFor(uid)
	if el == nil {
		return false
	}
	c.selectElement(el)
	return true
}

func (c *Controller) selectElement(el *view.Element) {
	for _, marked := range c.doc.ElementsByClass(ClassSelected) {
		marked.RemoveClass(ClassSelected)
	}
	c.doc.ClearTextSelection()

	c.selected = el.ID
	c.hasSelection = true
	el.AddClass(ClassSelected)

	// Folders are not selectable values.
	if tree.ParseKind(el.Type) == tree.KindFolder {
		return
	}

	c.selectedValue = el.Text
	c.doc.SetSelectedField(el.Text)
}

// CurrentSelectionValue returns the selected node's labels from the root
// down, joined with the separator, or "" when nothing (or the root) is
// selected.
func (c *Controller) CurrentSelectionValue() string {
	if !c.hasSelection || c.selected == "" {
		return ""
	}
	node, ok := c.model.Locate(c.selected)
	if !ok {
		return ""
	}
	return node.Path(c.cfg.Separator)
}

// SelectedUID returns the selected uid and whether anything is selected
func (c *Controller) SelectedUID() (string, bool) {
	return c.selected, c.hasSelection
}

// SelectedValue returns the display text of the last selected leaf
func (c *Controller) SelectedValue() string {
	return c.selectedValue
}

// State returns the load state of the folder uid (empty for the root)
func (c *Controller) State(uid string) FolderState {
	return c.states[uid]
}

// Model returns the cached tree
func (c *Controller) Model() *tree.Model {
	return c.model
}

// Document returns the rendered document
func (c *Controller) Document() *view.Document {
	return c.doc
}

// DisplayPath returns the breadcrumb of the last applied listing
func (c *Controller) DisplayPath() string {
	return c.displayPath
}

// CurrentFolder returns the uid of the folder shown in the flat layout
func (c *Controller) CurrentFolder() string {
	return c.current
}

// Pending returns the number of requests issued and not yet settled
func (c *Controller) Pending() int {
	return c.pending
}

// Config returns the controller's configuration
func (c *Controller) Config() Config {
	return c.cfg
}
