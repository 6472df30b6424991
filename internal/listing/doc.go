// Package listing implements the client side of the listing endpoint.
//
// A listing endpoint returns one level of a remote hierarchy per request:
//
//	GET /listing?uid=42
//
//	{"results": [{
//	    "uid": "42",
//	    "listing": [
//	        {"file": "x", "type": "folder", "uid": "101"},
//	        {"file": "y", "type": "file",   "uid": "102"}
//	    ],
//	    "displayPath": "/projects/x"
//	}]}
//
// An empty uid asks for the root level. Only the first element of results
// is used.
//
// # Errors
//
// Every failure is returned as *Error with an ErrorType. Two families matter
// to callers:
//   - IsTransportError: the request could not complete (dial failure,
//     timeout, DNS, non-2xx status).
//   - IsExceptionError: a response arrived but is not a usable listing
//     (malformed JSON, empty results, entries without a uid).
//
// ShortMessage and TroubleshootingHint turn either into user-facing text.
//
// # Retries
//
// Requests go through hashicorp/go-retryablehttp. The default is zero
// retries so a failure surfaces exactly once; WithRetries enables backoff
// retries of transport failures for unattended use.
package listing
