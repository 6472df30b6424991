package listing

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the listing server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates an HTTP-level error (non-2xx status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a body that is not valid listing JSON
	ErrTypeParse
	// ErrTypeProtocol indicates valid JSON that breaks the listing contract
	ErrTypeProtocol
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error represents a failed listing fetch
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	URL        string    // Listing URL (for context)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the error is retryable
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Detail returns the innermost message, used in exception alerts
func (e *Error) Detail() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// ClassifyNetworkError analyzes an error and returns a more specific error type
func ClassifyNetworkError(err error, listingURL string) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &Error{
			Type:      ErrTypeTimeout,
			Message:   "Request timed out",
			URL:       listingURL,
			Err:       err,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:      ErrTypeDNS,
			Message:   fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			URL:       listingURL,
			Err:       err,
			Retryable: false,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &Error{
			Type:      ErrTypeConnectionRefused,
			Message:   "Listing server refused connection",
			URL:       listingURL,
			Err:       err,
			Retryable: true,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return ClassifyNetworkError(urlErr.Err, listingURL)
	}

	return &Error{
		Type:      ErrTypeNetwork,
		Message:   "Network error occurred",
		URL:       listingURL,
		Err:       err,
		Retryable: true,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message, listingURL string, err error) *Error {
	classified := ClassifyNetworkError(err, listingURL)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &Error{
		Type:      ErrTypeNetwork,
		Message:   message,
		URL:       listingURL,
		Retryable: true,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, listingURL, message string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		URL:        listingURL,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewProtocolError creates an error for a response that violates the listing contract
func NewProtocolError(message string) *Error {
	return &Error{
		Type:    ErrTypeProtocol,
		Message: message,
	}
}

func asListingError(err error) (*Error, bool) {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr, true
	}
	return nil, false
}

// IsTransportError reports whether the request could not complete: the
// network failed or the server answered with a non-success status.
func IsTransportError(err error) bool {
	lerr, ok := asListingError(err)
	if !ok {
		return false
	}
	switch lerr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS, ErrTypeHTTP:
		return true
	}
	return false
}

// IsExceptionError reports whether a response arrived but could not be
// interpreted (malformed body or protocol violation).
func IsExceptionError(err error) bool {
	lerr, ok := asListingError(err)
	if !ok {
		return false
	}
	return lerr.Type == ErrTypeParse || lerr.Type == ErrTypeProtocol
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	lerr, ok := asListingError(err)
	return ok && lerr.Type == ErrTypeHTTP
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if lerr, ok := asListingError(err); ok {
		return lerr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	lerr, ok := asListingError(err)
	if !ok {
		return err.Error()
	}

	switch lerr.Type {
	case ErrTypeTimeout:
		return "Listing server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Listing server refused connection - is it running?"
	case ErrTypeDNS:
		return "Cannot resolve listing server hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Listing server error (HTTP %d)", lerr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse listing response"
	default:
		return lerr.Message
	}
}

// TroubleshootingHint returns user-facing advice for an error
func TroubleshootingHint(err error) []string {
	lerr, ok := asListingError(err)
	if !ok {
		return nil
	}

	switch lerr.Type {
	case ErrTypeTimeout:
		return []string{
			"Check that the listing server is running",
			"Try increasing the timeout (--timeout)",
		}
	case ErrTypeConnectionRefused:
		return []string{
			"Start the server with 'treebrowse-server'",
			"Verify the port in " + lerr.URL,
		}
	case ErrTypeDNS:
		return []string{
			"Use an IP address instead of a hostname",
			"Try 'treebrowse scan' to discover servers on the network",
		}
	case ErrTypeHTTP:
		if lerr.StatusCode == 404 {
			return []string{
				"The uid is unknown to the server; list its parent folder first",
				"Check the listing path in " + lerr.URL,
			}
		}
		return []string{"Check the listing server logs"}
	case ErrTypeParse, ErrTypeProtocol:
		return []string{
			"The endpoint does not speak the listing protocol",
			"Expected {\"results\":[{\"uid\",\"listing\",\"displayPath\"}]}",
		}
	default:
		return []string{"Check your network connection"}
	}
}
