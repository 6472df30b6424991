// Package server implements the listing endpoint for a directory tree.
//
// GET /listing?uid=<uid> returns one level of the tree in the format the
// browser consumes:
//
//	{"results":[{"uid":"","displayPath":"/","listing":[
//	    {"file":"docs","type":"folder","uid":"…"},
//	    {"file":"readme.txt","type":"file","uid":"…"}]}]}
//
// The empty uid names the served root. Every other uid is a name-based UUID
// of the entry's path relative to the root, so uids stay stable across
// restarts. A uid is only accepted after its parent folder has been listed.
//
// # Routes
//
//   - GET /listing  the listing endpoint
//   - GET /healthz  liveness and version
//   - GET /metrics  Prometheus metrics
//
// # Usage Example
//
//	srv, err := server.New(server.Config{Root: "/srv/share", Addr: ":8080"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// With Advertise set the server registers itself over mDNS (see the
// discovery package) for as long as it runs.
package server
