// Package ui provides terminal output components for the treebrowse CLI.
//
// These components use Lipgloss to render one-shot command output: a header
// box naming the command and its parameters, a listing, and success or
// failure boxes. The interactive browser lives in the tui package.
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Listing", "treebrowse ls",
//	    ui.Param{Key: "URL", Value: url},
//	)
//	rec, err := client.Fetch(ctx, uid)
//	if err != nil {
//	    p.PrintError("Fetch failed", err, listing.TroubleshootingHint(err))
//	    return err
//	}
//	p.PrintListing(rec, false)
//
// # Logging Integration
//
// Logging is controlled via the TREEBROWSE_LOG_LEVEL environment variable.
// When unset, zap logging is silent so the rendered output stays clean.
package ui
