package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/treebrowse/internal/logging"
	"github.com/muurk/treebrowse/internal/version"
)

const (
	// ServiceType is the mDNS service type listing servers register
	ServiceType = "_treebrowse._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for service discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 8080

	// DefaultPath is used when an entry carries no "path" TXT record
	DefaultPath = "/listing"
)

// Scanner handles mDNS service discovery
type Scanner struct {
	// Timeout is the maximum time to wait for services
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers every listing server answering within the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu       sync.Mutex
		services []*Service
		seen     = make(map[string]bool)
		done     = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			svc := s.parseServiceEntry(entry)
			if svc == nil {
				continue
			}
			mu.Lock()
			if !seen[svc.Instance] {
				seen[svc.Instance] = true
				services = append(services, svc)
				logging.Debug("Discovered listing server",
					zap.String("instance", svc.Instance),
					zap.String("url", svc.ListingURL()),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	// The resolver closes entries once the context ends.
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Service, len(services))
	copy(out, services)
	return out, nil
}

// WaitForService waits for the server with the given instance name
func (s *Scanner) WaitForService(ctx context.Context, instance string) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Service, 1)

	go func() {
		for entry := range entries {
			svc := s.parseServiceEntry(entry)
			if svc != nil && svc.Instance == instance {
				found <- svc
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case svc := <-found:
		return svc, nil
	case <-ctx.Done():
		select {
		case svc := <-found:
			return svc, nil
		default:
		}
		return nil, fmt.Errorf("listing server %q not found within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Service.
// Returns nil if the entry has no usable name or address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Service {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := parseTXT(entry.Text)
	path := metadata["path"]
	if path == "" {
		path = DefaultPath
	}

	return &Service{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" TXT records; a bare key maps to ""
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}
	return metadata
}

// Advertisement is a running mDNS registration
type Advertisement struct {
	server *zeroconf.Server
}

// Shutdown withdraws the registration
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}

// Advertise registers a listing server under instance until Shutdown is
// called.
func Advertise(instance string, port int, path string) (*Advertisement, error) {
	if path == "" {
		path = DefaultPath
	}
	txt := []string{
		"path=" + path,
		"version=" + version.Version,
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising listing server",
		zap.String("instance", instance),
		zap.Int("port", port),
		zap.String("path", path),
	)
	return &Advertisement{server: server}, nil
}

// ScanForServices is a convenience function to scan with a custom timeout
func ScanForServices(timeout time.Duration) ([]*Service, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(context.Background())
}
