// Package config provides user configuration management for treebrowse.
//
// The configuration is a YAML file holding the browser options (listing
// URL, anchor, separator, layout), the listing server options, servers
// remembered from mDNS discovery and an optional pre-built tree.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/treebrowse/config.yaml or $HOME/.config/treebrowse/config.yaml
//   - macOS: $HOME/.config/treebrowse/config.yaml
//   - Windows: %LOCALAPPDATA%\treebrowse\config.yaml
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Browser.URL)
//
// # Example File
//
//	version: 1
//	browser:
//	  url: http://nas.local:8080/listing
//	  separator: /
//	  layout: nested
//	model:
//	  - file: docs
//	    type: folder
//	    uid: "42"
package config
