// Treebrowse-server serves a directory as a lazily browsable listing.
//
// Each GET of the listing endpoint returns the children of one folder,
// identified by a stable uid, in the JSON shape the treebrowse browser
// consumes. The server can advertise itself over mDNS so browsers find it
// without a URL.
//
// Usage:
//
//	treebrowse-server [flags]
//
// See 'treebrowse-server --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/treebrowse/internal/config"
	"github.com/muurk/treebrowse/internal/logging"
	"github.com/muurk/treebrowse/internal/server"
	"github.com/muurk/treebrowse/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Server flags
var (
	cfgPath    string
	root       string
	addr       string
	showHidden bool
	advertise  bool
	name       string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "treebrowse-server",
	Short: "Directory listing server for treebrowse",
	Long: `Serve a directory tree over HTTP, one folder level per request.

Routes:
  GET /listing?uid=<uid>  children of one folder (empty uid for the root)
  GET /healthz            liveness probe
  GET /metrics            Prometheus metrics

A folder's uid becomes known once its parent has been listed. Unknown uids
answer 404 and file uids answer 400.`,
	Example: `  # Serve the current directory on :8080
  treebrowse-server

  # Serve a share, including dotfiles, and advertise it over mDNS
  treebrowse-server --root /srv/share --show-hidden --advertise --name nas

  # Debug logging on a custom port
  treebrowse-server --addr :9090 --log-level debug`,
	Version:      version.Version,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runServer,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	f := rootCmd.Flags()
	f.StringVar(&cfgPath, "config", "", "Config file (default is the user config directory)")
	f.StringVar(&root, "root", "", "Directory to serve")
	f.StringVar(&addr, "addr", "", "Listen address")
	f.BoolVar(&showHidden, "show-hidden", false, "Include dotfiles in listings")
	f.BoolVar(&advertise, "advertise", false, "Advertise the server over mDNS")
	f.StringVar(&name, "name", "", "mDNS instance name")
	f.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	sc := cfg.Server

	flags := cmd.Flags()
	if flags.Changed("root") {
		sc.Root = root
	}
	if flags.Changed("addr") {
		sc.Addr = addr
	}
	if flags.Changed("show-hidden") {
		sc.ShowHidden = showHidden
	}
	if flags.Changed("advertise") {
		sc.Advertise = advertise
	}
	if flags.Changed("name") {
		sc.Name = name
	}

	srv, err := server.New(server.Config{
		Root:       sc.Root,
		Addr:       sc.Addr,
		ShowHidden: sc.ShowHidden,
		Advertise:  sc.Advertise,
		Name:       sc.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logging.Debug("Server configuration",
		zap.String("root", sc.Root),
		zap.String("addr", sc.Addr),
		zap.Bool("advertise", sc.Advertise),
	)
	return srv.Run(cmd.Context())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("treebrowse-server %s\n", version.Full())
	},
}
