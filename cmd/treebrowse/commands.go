package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/treebrowse/internal/browser"
	"github.com/muurk/treebrowse/internal/config"
	"github.com/muurk/treebrowse/internal/discovery"
	"github.com/muurk/treebrowse/internal/listing"
	"github.com/muurk/treebrowse/internal/logging"
	"github.com/muurk/treebrowse/internal/tree"
	"github.com/muurk/treebrowse/internal/tui"
	"github.com/muurk/treebrowse/internal/ui"
)

// Global flags
var (
	cfgPath    string
	listingURL string
	logLevel   string
	logFile    string

	anchor      string
	layout      string
	separator   string
	noField     bool
	timeoutSecs int
	retries     int
)

// Command flags
var (
	discover     bool
	outputFormat string
	showUIDs     bool
	treeDepth    int
	pathDepth    int
	scanTimeout  int
	remember     bool
)

// cfg is the loaded configuration with flag overrides applied
var cfg *config.Config

func init() {
	rootCmd.PersistentPreRunE = setup

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "Config file (default is the user config directory)")
	pf.StringVar(&listingURL, "url", "", "Listing endpoint URL")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	pf.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stdout")
	pf.StringVar(&anchor, "anchor", "", "Id of the element the tree mounts into")
	pf.StringVar(&layout, "layout", "", "Tree layout (nested, flat)")
	pf.StringVar(&separator, "separator", "", "Separator joining labels in a selection path")
	pf.BoolVar(&noField, "no-field", false, "Do not mirror the selected item into the selected field")
	pf.IntVar(&timeoutSecs, "timeout", 0, "Per-request timeout in seconds")
	pf.IntVar(&retries, "retries", 0, "Retries for transport failures")

	rootCmd.Flags().BoolVar(&discover, "discover", false, "Start on the server picker and browse mDNS")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(scanCmd)
}

// setup loads the configuration, applies flag overrides and starts logging.
// The interactive commands log to a file so log lines do not tear the UI.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg = loaded
	if err := applyFlags(cmd); err != nil {
		return err
	}

	if cmd != rootCmd && cmd != browseCmd {
		return logging.Initialize(logLevel)
	}

	path := logFile
	if path == "" {
		path = cfg.Browser.LogFile
	}
	if path == "" && (logLevel != "" || os.Getenv(logging.LogLevelEnvVar) != "") {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		path = filepath.Join(dir, "treebrowse.log")
	}
	return logging.InitializeFile(logLevel, path)
}

func applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	b := cfg.Browser

	if flags.Changed("url") {
		b.URL = listingURL
	}
	if flags.Changed("anchor") {
		b.Anchor = anchor
	}
	if flags.Changed("layout") {
		b.Layout = layout
	}
	if flags.Changed("separator") {
		b.Separator = separator
	}
	if flags.Changed("no-field") {
		b.SelectedField = !noField
	}
	if flags.Changed("timeout") {
		b.TimeoutSeconds = timeoutSecs
	}
	if flags.Changed("retries") {
		b.Retries = retries
	}
	return cfg.Validate()
}

// browserConfig converts the browser section into controller options
func browserConfig() (browser.Config, error) {
	b := cfg.Browser
	l, err := browser.ParseLayout(b.Layout)
	if err != nil {
		return browser.Config{}, err
	}
	return browser.Config{
		Anchor:        b.Anchor,
		URL:           b.URL,
		Model:         cfg.BuildModel(),
		Separator:     b.Separator,
		Layout:        l,
		SelectedField: b.SelectedField,
	}, nil
}

func newClient(url string) *listing.Client {
	return listing.NewClient(url,
		listing.WithTimeout(cfg.Browser.Timeout()),
		listing.WithRetries(cfg.Browser.Retries),
	)
}

// browseCmd launches the interactive browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the interactive tree browser",
	Long: `Launch the full-screen tree browser.

Folders load on first open; reopening a loaded folder never fetches again.
Press enter on an item to select it and y to accept the selection, which
prints its path and exits. Without a listing URL, or with --discover, the
browser starts on a picker listing remembered and discovered servers.`,
	Example: `  # Browse the configured endpoint
  treebrowse

  # Browse a specific endpoint with one folder per screen
  treebrowse browse --url http://nas:8080/listing --layout flat

  # Pick a server found over mDNS
  treebrowse --discover`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&discover, "discover", false, "Start on the server picker and browse mDNS")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	bc, err := browserConfig()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Browser:     bc,
		NewFetcher:  func(url string) browser.Fetcher { return newClient(url) },
		Known:       knownServers(),
		ScanTimeout: cfg.Browser.DiscoveryTimeout(),
		OnServerSelected: func(srv tui.Server) {
			rememberServer(srv.Name, srv.URL)
		},
	}

	useDiscovery := discover || (cfg.Browser.AutoDiscover && !cmd.Flags().Changed("url"))
	if useDiscovery || bc.URL == "" {
		opts.Browser.URL = ""
		scanner := discovery.NewScanner()
		scanner.Timeout = cfg.Browser.DiscoveryTimeout()
		opts.Scan = scanner.Scan
	}

	logging.Info("Starting browser",
		zap.String("url", opts.Browser.URL),
		zap.Bool("discover", opts.Scan != nil),
	)

	path, accepted, err := tui.Run(opts)
	if err != nil {
		return err
	}
	if accepted && path != "" {
		fmt.Println(path)
	}
	return nil
}

// knownServers lists the remembered servers by name
func knownServers() []tui.Server {
	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	servers := make([]tui.Server, 0, len(names))
	for _, name := range names {
		s := cfg.Servers[name]
		if s.URL == "" {
			continue
		}
		label := name
		if s.Nickname != "" {
			label = s.Nickname
		}
		detail := "remembered"
		if !s.LastSeen.IsZero() {
			detail = "last seen " + s.LastSeen.Format("2006-01-02")
		}
		servers = append(servers, tui.Server{Name: label, URL: s.URL, Detail: detail})
	}
	return servers
}

func rememberServer(name, url string) {
	if name == "" || name == "Manual" {
		return
	}
	cfg.RememberServer(name, url)
	if err := cfg.Save(cfgPath); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

// lsCmd prints one listing
var lsCmd = &cobra.Command{
	Use:   "ls [uid]",
	Short: "Print the listing of one folder",
	Long: `Fetch and print the children of one folder.

Without a uid the root level is listed. Folder uids are shown with --uids
so they can be passed to a further ls.`,
	Example: `  # List the root
  treebrowse ls --url http://nas:8080/listing --uids

  # List one folder as JSON
  treebrowse ls 42 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
	lsCmd.Flags().BoolVar(&showUIDs, "uids", false, "Show entry uids")
}

func runLs(cmd *cobra.Command, args []string) error {
	uid := ""
	if len(args) == 1 {
		uid = args[0]
	}
	url := cfg.Browser.URL
	p := ui.NewPrinter(os.Stdout)

	if outputFormat != "json" {
		p.PrintHeader("Listing", "treebrowse ls",
			ui.Param{Key: "URL", Value: url},
			ui.Param{Key: "UID", Value: displayUID(uid)},
		)
	}

	rec, err := newClient(url).Fetch(cmd.Context(), uid)
	if err != nil {
		p.PrintError("Fetch failed", err, listing.TroubleshootingHint(err))
		return err
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(listing.Response{Results: []listing.Record{*rec}}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		p.Println(string(data))
	default:
		p.PrintListing(rec, showUIDs)
	}
	return nil
}

func displayUID(uid string) string {
	if uid == "" {
		return "(root)"
	}
	return uid
}

// treeCmd preloads and prints a subtree
var treeCmd = &cobra.Command{
	Use:   "tree [uid]",
	Short: "Load and print a subtree",
	Long: `Load a folder and its sub-folders down to --depth levels and print them
as an indented tree. Without a uid the tree starts at the root.`,
	Example: `  # Two levels from the root
  treebrowse tree --depth 2

  # Everything below one folder, with uids
  treebrowse tree 42 --depth 0 --uids`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 3, "Levels to load (0 for no limit)")
	treeCmd.Flags().BoolVar(&showUIDs, "uids", false, "Show entry uids")
}

func runTree(cmd *cobra.Command, args []string) error {
	uid := ""
	if len(args) == 1 {
		uid = args[0]
	}

	ctrl, err := headlessController()
	if err != nil {
		return err
	}

	p := ui.NewPrinter(os.Stdout)
	start := time.Now()

	top := ctrl.Model().Root()
	if uid != "" {
		node, err := find(cmd.Context(), ctrl, uid, 0)
		if err != nil {
			p.PrintError("Load failed", err, listing.TroubleshootingHint(err))
			return err
		}
		top = node
	}
	if err := ctrl.Expand(cmd.Context(), uid, treeDepth); err != nil {
		p.PrintError("Load failed", err, listing.TroubleshootingHint(err))
		return err
	}
	logging.Debug("Tree loaded",
		zap.Int("nodes", ctrl.Model().Len()),
		zap.Duration("duration", time.Since(start)),
	)

	p.Println(ui.BreadcrumbStyle.Render("/" + top.Path("/")))
	p.Print(renderSubtree(top, treeDepth))
	return nil
}

// renderSubtree prints the children of top, indented by depth below it
func renderSubtree(top *tree.Node, maxDepth int) string {
	var b strings.Builder
	base := top.Depth()
	var visit func(n *tree.Node)
	visit = func(n *tree.Node) {
		for _, c := range n.Children() {
			level := c.Depth() - base
			b.WriteString(strings.Repeat("  ", level))
			b.WriteString(ui.RenderEntry(c.Label, c.Type))
			if showUIDs {
				b.WriteString("  " + ui.UIDStyle.Render(c.UID))
			}
			b.WriteString("\n")
			if maxDepth < 1 || level < maxDepth {
				visit(c)
			}
		}
	}
	visit(top)
	return b.String()
}

// pathCmd resolves uids to selection paths
var pathCmd = &cobra.Command{
	Use:   "path <uid>...",
	Short: "Print the path of one or more uids",
	Long: `Search the tree breadth-first, down to --depth levels, for each uid. Each
one found is selected and its path printed: the labels from the root down
joined with the separator.`,
	Example: `  treebrowse path 102
  treebrowse path 102 201 --separator ' > '`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPath,
}

func init() {
	pathCmd.Flags().IntVar(&pathDepth, "depth", 8, "Levels to search (0 for no limit)")
}

func runPath(cmd *cobra.Command, args []string) error {
	ctrl, err := headlessController()
	if err != nil {
		return err
	}

	var missing []string
	for _, uid := range args {
		node, err := find(cmd.Context(), ctrl, uid, pathDepth)
		if err != nil {
			if errors.Is(err, errNotFound) {
				missing = append(missing, uid)
				continue
			}
			ui.NewPrinter(os.Stderr).PrintError("Load failed", err, listing.TroubleshootingHint(err))
			return err
		}
		path := node.Path(ctrl.Config().Separator)
		// Seeded nodes are in the model before anything renders them.
		if ctrl.Select(uid) {
			path = ctrl.CurrentSelectionValue()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errNotFound, strings.Join(missing, ", "))
	}
	return nil
}

var errNotFound = errors.New("uid not found")

// find lists folders breadth-first from the root until uid is in the model
// or maxDepth levels have been listed (no limit below 1).
func find(ctx context.Context, ctrl *browser.Controller, uid string, maxDepth int) (*tree.Node, error) {
	if n, ok := ctrl.Model().Locate(uid); ok {
		return n, nil
	}

	frontier := []*tree.Node{ctrl.Model().Root()}
	for level := 1; len(frontier) > 0 && (maxDepth < 1 || level <= maxDepth); level++ {
		var next []*tree.Node
		for _, folder := range frontier {
			if err := ctrl.Expand(ctx, folder.UID, 1); err != nil {
				return nil, err
			}
			if n, ok := ctrl.Model().Locate(uid); ok {
				return n, nil
			}
			for _, c := range folder.Children() {
				if c.Kind == tree.KindFolder {
					next = append(next, c)
				}
			}
		}
		frontier = next
	}
	return nil, errNotFound
}

// headlessController builds a nested-layout controller fetching from the
// configured endpoint
func headlessController() (*browser.Controller, error) {
	bc, err := browserConfig()
	if err != nil {
		return nil, err
	}
	bc.Layout = browser.LayoutNested
	return browser.New(bc, newClient(bc.URL)), nil
}

// scanCmd discovers listing servers
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for listing servers on the network",
	Long: `Scan for listing servers using mDNS/DNS-SD discovery.

Servers started with 'treebrowse-server --advertise' register the
` + discovery.ServiceType + ` service. With --remember the results are saved
to the config file and offered by the browser's server picker.`,
	Example: `  treebrowse scan
  treebrowse scan --scan-timeout 10 --remember`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Scan timeout in seconds (default from config)")
	scanCmd.Flags().BoolVar(&remember, "remember", false, "Save discovered servers to the config file")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := cfg.Browser.DiscoveryTimeout()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	p := ui.NewPrinter(os.Stdout)
	p.PrintHeader("Scan", "treebrowse scan",
		ui.Param{Key: "Service", Value: discovery.ServiceType},
		ui.Param{Key: "Timeout", Value: timeout.String()},
	)

	scanner := discovery.NewScanner()
	scanner.Timeout = timeout
	services, err := scanner.Scan(cmd.Context())
	if err != nil {
		p.PrintError("Scan failed", err, nil)
		return err
	}

	if len(services) == 0 {
		p.PrintError("No listing servers found", nil, []string{
			"Start a server with 'treebrowse-server --advertise'",
			"mDNS does not cross subnets or most VPNs",
			"Try a longer --scan-timeout",
		})
		return nil
	}

	params := make([]ui.Param, 0, len(services))
	for _, svc := range services {
		params = append(params, ui.Param{Key: svc.Instance, Value: svc.ListingURL()})
		if remember {
			cfg.RememberServer(svc.Instance, svc.ListingURL())
		}
	}
	p.PrintSuccess(fmt.Sprintf("Found %d server(s)", len(services)), params...)

	if remember {
		if err := cfg.Save(cfgPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}
	return nil
}
