package listing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const sampleResponse = `{"results":[{"uid":"42","listing":[{"file":"x","type":"folder","uid":"101"},{"file":"y","type":"file","uid":"102"}],"displayPath":"/projects/x"}]}`

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/listing")

	if client.URL != "http://localhost:8080/listing" {
		t.Errorf("URL = %s, want http://localhost:8080/listing", client.URL)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}
	if !strings.HasPrefix(client.UserAgent, "treebrowse/") {
		t.Errorf("UserAgent = %q, want treebrowse/ prefix", client.UserAgent)
	}
}

func TestRequestURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		uid  string
		want string
	}{
		{"root", "http://h/listing", "", "http://h/listing?uid="},
		{"plain uid", "http://h/listing", "42", "http://h/listing?uid=42"},
		{"escaped uid", "http://h/listing", "a b&c", "http://h/listing?uid=a+b%26c"},
		{"keeps existing query", "http://h/listing?repo=main", "7", "http://h/listing?repo=main&uid=7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.base)
			got, err := c.RequestURL(tt.uid)
			if err != nil {
				t.Fatalf("RequestURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RequestURL(%q) = %s, want %s", tt.uid, got, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	var gotUID string
	var hadUID bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		gotUID = r.URL.Query().Get("uid")
		_, hadUID = r.URL.Query()["uid"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/listing")
	rec, err := client.Fetch(context.Background(), "42")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotUID != "42" || !hadUID {
		t.Errorf("server saw uid=%q (present=%v), want 42", gotUID, hadUID)
	}
	if rec.UID != "42" {
		t.Errorf("UID = %s, want 42", rec.UID)
	}
	if rec.DisplayPath != "/projects/x" {
		t.Errorf("DisplayPath = %s, want /projects/x", rec.DisplayPath)
	}
	if len(rec.Listing) != 2 {
		t.Fatalf("got %d entries, want 2", len(rec.Listing))
	}
	if rec.Listing[0].File != "x" || rec.Listing[0].Type != "folder" || rec.Listing[0].UID != "101" {
		t.Errorf("first entry = %+v", rec.Listing[0])
	}
}

func TestFetchRootSendsEmptyUID(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"results":[{"uid":"","listing":[],"displayPath":"/"}]}`))
	}))
	defer server.Close()

	rec, err := NewClient(server.URL).Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if rawQuery != "uid=" {
		t.Errorf("query = %q, want uid=", rawQuery)
	}
	if !rec.IsRoot() {
		t.Error("record should be the root level")
	}
}

func TestFetchUsesFirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"uid":"1","listing":[],"displayPath":"first"},{"uid":"2","listing":[],"displayPath":"second"}]}`))
	}))
	defer server.Close()

	rec, err := NewClient(server.URL).Fetch(context.Background(), "1")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if rec.DisplayPath != "first" {
		t.Errorf("DisplayPath = %s, want first", rec.DisplayPath)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantType      ErrorType
		wantTransport bool
	}{
		{"not found", http.StatusNotFound, `{"error":"unknown uid"}`, ErrTypeHTTP, true},
		{"server error", http.StatusInternalServerError, "boom", ErrTypeHTTP, true},
		{"malformed json", http.StatusOK, `{"results":[`, ErrTypeParse, false},
		{"not json", http.StatusOK, `<html></html>`, ErrTypeParse, false},
		{"empty results", http.StatusOK, `{"results":[]}`, ErrTypeProtocol, false},
		{"missing results", http.StatusOK, `{}`, ErrTypeProtocol, false},
		{"entry without uid", http.StatusOK, `{"results":[{"uid":"","listing":[{"file":"a","type":"file"}]}]}`, ErrTypeProtocol, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Fetch(context.Background(), "1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var lerr *Error
			if !errors.As(err, &lerr) {
				t.Fatalf("error %T is not *Error", err)
			}
			if lerr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", lerr.Type, tt.wantType)
			}
			if IsTransportError(err) != tt.wantTransport {
				t.Errorf("IsTransportError = %v, want %v", IsTransportError(err), tt.wantTransport)
			}
			if IsExceptionError(err) == tt.wantTransport {
				t.Errorf("IsExceptionError = %v, want %v", IsExceptionError(err), !tt.wantTransport)
			}
			if tt.wantType == ErrTypeHTTP && lerr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", lerr.StatusCode, tt.status)
			}
		})
	}
}

func TestFetchNoRetryByDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Fetch(context.Background(), "1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}

func TestFetchWithRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithRetries(3),
		WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)
	rec, err := client.Fetch(context.Background(), "42")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if rec.UID != "42" {
		t.Errorf("UID = %s, want 42", rec.UID)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewClient(addr).Fetch(context.Background(), "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsTransportError(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, WithTimeout(50*time.Millisecond)).Fetch(context.Background(), "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Type != ErrTypeTimeout {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestFetchKeepsSuppliedClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	hc := &http.Client{Timeout: 5 * time.Second}
	client := NewClient(server.URL, WithTimeout(50*time.Millisecond), WithHTTPClient(hc))

	if hc.Timeout != 5*time.Second {
		t.Errorf("supplied client Timeout = %v, want 5s", hc.Timeout)
	}
	if _, err := client.Fetch(context.Background(), ""); err != nil {
		t.Errorf("Fetch() error = %v, want the supplied client's timeout to apply", err)
	}
}

func TestDecode(t *testing.T) {
	rec, err := Decode([]byte(sampleResponse))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if rec.UID != "42" || len(rec.Listing) != 2 {
		t.Errorf("Decode() = %+v", rec)
	}
}
