// Package browser is the navigation controller of the tree browser.
//
// A Controller owns a tree.Model (the cached hierarchy) and a view.Document
// (what is shown). It turns clicks into listing requests, merges responses
// into the model and re-renders the affected list.
//
// # Folder states
//
// Every folder moves through a small state machine:
//
//	Unloaded --click--> Loading --Apply--> Open <--click--> Closed
//	                      |
//	                      +--Fail--> Loading (placeholder kept, alert shown)
//
// Clicks on a Loading folder are ignored, so a folder never has more than
// one request in flight.
//
// # Fetching
//
// Click and Init return a Request instead of fetching themselves. A caller
// with a blocking loop can hand the request to Load; an event-driven front
// end (the terminal UI) runs the fetch in the background and delivers the
// outcome through Apply or Fail on its own loop.
//
// # Layouts
//
// LayoutNested renders each folder's children inside the folder's item.
// LayoutFlat shows one folder at a time, with "." and ".." items for
// navigation; folders that were listed before are redrawn from the model
// without a new request.
package browser
