// Treebrowse browses a remote folder hierarchy served by a listing endpoint.
//
// It provides an interactive tree browser that loads folders on demand,
// mDNS discovery of listing servers, and one-shot commands for printing a
// listing, a preloaded tree or the path of a uid.
//
// Usage:
//
//	treebrowse [command] [flags]
//
// Running without arguments launches the interactive browser. When a
// selection is accepted its path is printed to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/treebrowse/internal/logging"
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

var rootCmd = &cobra.Command{
	Use:   "treebrowse",
	Short: "Lazy-loading folder tree browser",
	Long: `Browse a folder hierarchy served over HTTP, one level at a time.

Each folder's children are fetched from the listing endpoint the first
time it is opened. Accepting a selection prints its path, so the browser
can be used from scripts:

  file=$(treebrowse --url http://nas:8080/listing)

If no command is specified, the interactive browser launches.`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runBrowse,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("treebrowse %s\n", version.Full())
	},
}
