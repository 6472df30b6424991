package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if !strings.Contains(configDir, "treebrowse") {
		t.Errorf("GetConfigDir() = %v, should contain 'treebrowse'", configDir)
	}
	if runtime.GOOS == "linux" && configDir != filepath.Join("/tmp/xdg", "treebrowse") {
		t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME/treebrowse", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Browser.Anchor != "tree" {
		t.Errorf("Browser.Anchor = %q, want tree", cfg.Browser.Anchor)
	}
	if cfg.Browser.Separator != "/" {
		t.Errorf("Browser.Separator = %q, want /", cfg.Browser.Separator)
	}
	if cfg.Browser.Timeout() != 10*time.Second {
		t.Errorf("Browser.Timeout() = %v, want 10s", cfg.Browser.Timeout())
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Browser.URL != Default().Browser.URL {
		t.Errorf("missing file should give defaults, got URL %q", cfg.Browser.URL)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "partial browser section keeps defaults",
			yaml: "browser:\n  url: http://nas:8080/listing\n  separator: \"\\\\\"\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Browser.URL != "http://nas:8080/listing" {
					t.Errorf("URL = %q", cfg.Browser.URL)
				}
				if cfg.Browser.Separator != "\\" {
					t.Errorf("Separator = %q, want backslash", cfg.Browser.Separator)
				}
				if cfg.Browser.Anchor != "tree" {
					t.Errorf("Anchor = %q, want default", cfg.Browser.Anchor)
				}
				if cfg.Server == nil || cfg.Server.Addr != ":8080" {
					t.Error("Server section should be defaulted")
				}
			},
		},
		{
			name:    "bad layout",
			yaml:    "browser:\n  layout: sideways\n",
			wantErr: "layout",
		},
		{
			name:    "future version",
			yaml:    "version: 2\n",
			wantErr: "unsupported config version",
		},
		{
			name:    "model uid missing",
			yaml:    "model:\n  - file: a\n    type: folder\n",
			wantErr: "has no uid",
		},
		{
			name:    "model uid reused",
			yaml:    "model:\n  - {file: a, type: folder, uid: \"1\", children: [{file: b, type: file, uid: \"1\"}]}\n",
			wantErr: "used twice",
		},
		{
			name:    "not yaml",
			yaml:    "browser: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestBuildModel(t *testing.T) {
	cfg, err := Parse([]byte(`
model:
  - file: docs
    type: folder
    uid: "42"
    children:
      - {file: x, type: folder, uid: "101"}
      - {file: y, type: file, uid: "102"}
  - file: readme.txt
    type: file
    uid: "7"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	model := cfg.BuildModel()
	if model == nil {
		t.Fatal("BuildModel() returned nil")
	}
	if model.Len() != 4 {
		t.Errorf("model has %d nodes, want 4", model.Len())
	}

	leaf, ok := model.Locate("102")
	if !ok {
		t.Fatal("uid 102 should be indexed")
	}
	if got := leaf.Path("/"); got != "docs/y" {
		t.Errorf("Path() = %q, want docs/y", got)
	}

	if Default().BuildModel() != nil {
		t.Error("BuildModel() without a model should return nil")
	}
}

func TestRememberServer(t *testing.T) {
	cfg := Default()

	before := time.Now()
	cfg.RememberServer("nas", "http://192.168.1.10:8080/listing")

	s := cfg.Servers["nas"]
	if s == nil {
		t.Fatal("server should be recorded")
	}
	if s.URL != "http://192.168.1.10:8080/listing" {
		t.Errorf("URL = %q", s.URL)
	}
	if s.LastSeen.Before(before) {
		t.Error("LastSeen should be updated")
	}
	if cfg.EnsureServer("nas") != s {
		t.Error("EnsureServer should return the existing entry")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Browser.URL = "http://example.test/listing"
	cfg.Browser.Layout = "flat"
	cfg.RememberServer("nas", "http://nas:8080/listing")

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Browser.URL != cfg.Browser.URL || loaded.Browser.Layout != "flat" {
		t.Errorf("loaded browser = %+v", loaded.Browser)
	}
	if loaded.Servers["nas"] == nil || loaded.Servers["nas"].URL != "http://nas:8080/listing" {
		t.Error("known servers should round trip")
	}
}
