package listing

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

func TestClassifyNetworkError_Timeout(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "http://localhost:8080/listing",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: &timeoutError{},
		},
	}

	lerr := ClassifyNetworkError(err, "http://localhost:8080/listing")

	if lerr == nil {
		t.Fatal("Expected Error, got nil")
	}
	if lerr.Type != ErrTypeTimeout {
		t.Errorf("Expected error type %v, got %v", ErrTypeTimeout, lerr.Type)
	}
	if !lerr.Retryable {
		t.Error("Expected timeout error to be retryable")
	}
}

func TestClassifyNetworkError_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "http://localhost:8080/listing",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: syscall.ECONNREFUSED,
		},
	}

	lerr := ClassifyNetworkError(err, "http://localhost:8080/listing")

	if lerr.Type != ErrTypeConnectionRefused {
		t.Errorf("Expected error type %v, got %v", ErrTypeConnectionRefused, lerr.Type)
	}
	if lerr.URL != "http://localhost:8080/listing" {
		t.Errorf("URL = %s, want listing URL", lerr.URL)
	}
}

func TestClassifyNetworkError_DNS(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "http://files.invalid/listing",
		Err: &net.DNSError{
			Err:  "no such host",
			Name: "files.invalid",
		},
	}

	lerr := ClassifyNetworkError(err, "http://files.invalid/listing")

	if lerr.Type != ErrTypeDNS {
		t.Errorf("Expected error type %v, got %v", ErrTypeDNS, lerr.Type)
	}
	if !strings.Contains(lerr.Message, "files.invalid") {
		t.Errorf("Message %q should name the host", lerr.Message)
	}
	if lerr.Retryable {
		t.Error("DNS errors should not be retryable")
	}
}

func TestClassifyNetworkError_Generic(t *testing.T) {
	lerr := ClassifyNetworkError(errors.New("connection reset by peer"), "")

	if lerr.Type != ErrTypeNetwork {
		t.Errorf("Expected error type %v, got %v", ErrTypeNetwork, lerr.Type)
	}
	if ClassifyNetworkError(nil, "") != nil {
		t.Error("nil error should classify as nil")
	}
}

func TestErrorFamilies(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransport bool
		wantException bool
		wantRetryable bool
	}{
		{"network", &Error{Type: ErrTypeNetwork, Retryable: true}, true, false, true},
		{"timeout", &Error{Type: ErrTypeTimeout, Retryable: true}, true, false, true},
		{"dns", &Error{Type: ErrTypeDNS}, true, false, false},
		{"http 404", NewHTTPError(404, "", "not found"), true, false, false},
		{"http 503", NewHTTPError(503, "", "unavailable"), true, false, true},
		{"parse", NewParseError("bad json", errors.New("eof")), false, true, false},
		{"protocol", NewProtocolError("no results"), false, true, false},
		{"wrapped protocol", fmt.Errorf("loading 42: %w", NewProtocolError("no results")), false, true, false},
		{"plain error", errors.New("other"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransportError(tt.err); got != tt.wantTransport {
				t.Errorf("IsTransportError() = %v, want %v", got, tt.wantTransport)
			}
			if got := IsExceptionError(tt.err); got != tt.wantException {
				t.Errorf("IsExceptionError() = %v, want %v", got, tt.wantException)
			}
			if got := IsRetryable(tt.err); got != tt.wantRetryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.wantRetryable)
			}
		})
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&Error{Type: ErrTypeTimeout}, "timeout"},
		{&Error{Type: ErrTypeConnectionRefused}, "refused"},
		{NewHTTPError(502, "", "bad gateway"), "HTTP 502"},
		{NewParseError("x", nil), "parse"},
		{NewProtocolError("response contains no results"), "no results"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		got := ShortMessage(tt.err)
		if !strings.Contains(got, tt.want) {
			t.Errorf("ShortMessage(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}

func TestTroubleshootingHint(t *testing.T) {
	if hint := TroubleshootingHint(errors.New("plain")); hint != nil {
		t.Errorf("plain errors should have no hint, got %v", hint)
	}

	hint := TroubleshootingHint(&Error{Type: ErrTypeConnectionRefused, URL: "http://h:9/listing"})
	if len(hint) == 0 {
		t.Fatal("expected hint lines")
	}
	if !strings.Contains(strings.Join(hint, "\n"), "http://h:9/listing") {
		t.Errorf("hint should mention the URL, got %v", hint)
	}

	hint = TroubleshootingHint(NewHTTPError(404, "", "not found"))
	if !strings.Contains(strings.Join(hint, "\n"), "parent folder") {
		t.Errorf("404 hint should mention listing the parent, got %v", hint)
	}
}

func TestErrorString(t *testing.T) {
	err := NewNetworkError("GET request failed", "", errors.New("reset"))
	if !strings.Contains(err.Error(), "GET request failed") || !strings.Contains(err.Error(), "reset") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Error("Unwrap should expose the cause")
	}

	if got := NewProtocolError("no results").Detail(); got != "no results" {
		t.Errorf("Detail() = %q, want no results", got)
	}
}

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		t    ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeHTTP, "HTTP Error"},
		{ErrTypeProtocol, "Protocol Error"},
		{ErrorType(99), "ErrorType(99)"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// timeoutError is a mock error that implements timeout behavior
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
