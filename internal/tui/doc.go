// Package tui implements the interactive, full-screen tree browser.
//
// Built on Bubble Tea, it has two screens:
//   - Picker: lists remembered listing servers and those found over mDNS,
//     or takes a URL typed by hand
//   - Browser: shows the lazily loaded tree and lets the user open folders
//     and select an item
//
// The Browser screen does not keep its own tree state. Each key press is
// turned into a click on an item of the browser.Controller's rendered
// document, and the rows on screen are the displayed items of that
// document. Listing fetches run as tea.Cmd values and come back as messages
// handled by Controller.Apply or Controller.Fail, so the controller is only
// ever touched from the Bubble Tea event loop.
//
// # Framework Components
//
//   - bubbles/list: server picker with filtering
//   - bubbles/spinner: scan and fetch indicators
//   - bubbles/progress: scan progress
//   - bubbles/textinput: manual URL entry and the selected field
//   - bubbles/help: context-aware key help
//   - lipgloss: styling, layout and the alert modal
//
// # Usage Example
//
//	path, ok, err := tui.Run(tui.Options{
//	    Browser: browser.Config{URL: url},
//	    NewFetcher: func(url string) browser.Fetcher {
//	        return listing.NewClient(url)
//	    },
//	})
package tui
