package config

import (
	"fmt"
	"time"

	"github.com/muurk/treebrowse/internal/tree"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Config represents the entire user configuration file.
type Config struct {
	Version int                     `yaml:"version"`
	Browser *BrowserConfig          `yaml:"browser,omitempty"`
	Server  *ServerConfig           `yaml:"server,omitempty"`
	Servers map[string]*KnownServer `yaml:"servers,omitempty"` // Keyed by mDNS instance name
	Model   []*SeedNode             `yaml:"model,omitempty"`   // Pre-built tree handed to the browser
}

// BrowserConfig holds the recognised browser options.
type BrowserConfig struct {
	URL             string `yaml:"url"`                    // Listing endpoint
	Anchor          string `yaml:"anchor,omitempty"`       // Id of the element the tree mounts into
	Separator       string `yaml:"separator,omitempty"`    // Joins labels in the selection path
	Layout          string `yaml:"layout,omitempty"`       // "nested" or "flat"
	SelectedField   bool   `yaml:"selected_field"`         // Mirror the selected leaf into a field
	TimeoutSeconds  int    `yaml:"timeout_seconds"`        // Per-request HTTP timeout
	Retries         int    `yaml:"retries"`                // Automatic retries of transport failures
	LogFile         string `yaml:"log_file,omitempty"`     // Debug log destination for the TUI
	AutoDiscover    bool   `yaml:"auto_discover"`          // Browse mDNS when no URL is set
	DiscoverTimeout int    `yaml:"discover_timeout"`       // mDNS discovery timeout in seconds
}

// ServerConfig holds the listing server options.
type ServerConfig struct {
	Root       string `yaml:"root"`                // Directory served
	Addr       string `yaml:"addr"`                // Listen address
	ShowHidden bool   `yaml:"show_hidden"`         // Include dotfiles
	Advertise  bool   `yaml:"advertise"`           // Register over mDNS
	Name       string `yaml:"name,omitempty"`      // mDNS instance name
}

// KnownServer is a listing server seen during discovery.
type KnownServer struct {
	Nickname string    `yaml:"nickname,omitempty"`
	URL      string    `yaml:"url"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// SeedNode is one node of a pre-built tree.
type SeedNode struct {
	File     string      `yaml:"file"`
	Type     string      `yaml:"type"`
	UID      string      `yaml:"uid"`
	Children []*SeedNode `yaml:"children,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Browser: defaultBrowser(),
		Server:  defaultServer(),
		Servers: make(map[string]*KnownServer),
	}
}

func defaultBrowser() *BrowserConfig {
	return &BrowserConfig{
		URL:             "http://localhost:8080/listing",
		Anchor:          "tree",
		Separator:       "/",
		Layout:          "nested",
		SelectedField:   true,
		TimeoutSeconds:  10,
		AutoDiscover:    false,
		DiscoverTimeout: 5,
	}
}

func defaultServer() *ServerConfig {
	return &ServerConfig{
		Root: ".",
		Addr: ":8080",
		Name: "treebrowse",
	}
}

// Timeout returns the per-request HTTP timeout
func (b *BrowserConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// DiscoveryTimeout returns how long mDNS browsing runs
func (b *BrowserConfig) DiscoveryTimeout() time.Duration {
	return time.Duration(b.DiscoverTimeout) * time.Second
}

// Validate checks the values that cannot be repaired with defaults.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}

	if b := c.Browser; b != nil {
		switch b.Layout {
		case "", "nested", "flat":
		default:
			return fmt.Errorf("browser.layout must be nested or flat, got %q", b.Layout)
		}
		if b.TimeoutSeconds < 0 {
			return fmt.Errorf("browser.timeout_seconds must not be negative")
		}
		if b.Retries < 0 {
			return fmt.Errorf("browser.retries must not be negative")
		}
	}

	seen := make(map[string]bool)
	var check func(nodes []*SeedNode) error
	check = func(nodes []*SeedNode) error {
		for _, n := range nodes {
			if n.UID == "" {
				return fmt.Errorf("model node %q has no uid", n.File)
			}
			if seen[n.UID] {
				return fmt.Errorf("model uid %q is used twice", n.UID)
			}
			seen[n.UID] = true
			if err := check(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return check(c.Model)
}

// BuildModel converts the seed nodes into a tree model. It returns nil when
// no model is configured.
func (c *Config) BuildModel() *tree.Model {
	if len(c.Model) == 0 {
		return nil
	}
	m := tree.NewModel()
	var add func(parent *tree.Node, seeds []*SeedNode)
	add = func(parent *tree.Node, seeds []*SeedNode) {
		for _, s := range seeds {
			added := m.InsertChildren(parent, []tree.Entry{{File: s.File, Type: s.Type, UID: s.UID}})
			if len(added) == 1 && len(s.Children) > 0 {
				add(added[0], s.Children)
			}
		}
	}
	add(m.Root(), c.Model)
	return m
}

// EnsureServer returns the entry for a discovered server, creating it if needed.
func (c *Config) EnsureServer(instance string) *KnownServer {
	if c.Servers == nil {
		c.Servers = make(map[string]*KnownServer)
	}
	if s, ok := c.Servers[instance]; ok {
		return s
	}
	s := &KnownServer{}
	c.Servers[instance] = s
	return s
}

// RememberServer records the listing URL of a discovered server.
func (c *Config) RememberServer(instance, url string) {
	s := c.EnsureServer(instance)
	s.URL = url
	s.LastSeen = time.Now()
}
