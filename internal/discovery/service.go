package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Service represents a listing server discovered on the network
type Service struct {
	// Instance is the mDNS instance name (e.g., "nas")
	Instance string

	// Hostname is the mDNS hostname (e.g., "nas.local.")
	Hostname string

	// IP is the advertised address, IPv4 preferred
	IP string

	// Port is the HTTP port of the listing server
	Port int

	// Path is the listing endpoint path, from the "path" TXT record
	Path string

	// Metadata contains the mDNS TXT record data
	// Common fields: "path=/listing", "version=1.0.0"
	Metadata map[string]string

	// DiscoveredAt is when the service was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the service
func (s *Service) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, strings.TrimSuffix(s.Hostname, "."), s.ListingURL())
}

// BaseURL returns the HTTP base URL for the service
func (s *Service) BaseURL() string {
	return "http://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// ListingURL returns the URL of the listing endpoint
func (s *Service) ListingURL() string {
	path := s.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.BaseURL() + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
