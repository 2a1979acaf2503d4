// Package config handles configuration loading for pqlab-server.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Files with a .toml extension are decoded as TOML. The package
// fills in defaults and validates the result.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from PQLAB_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/pqlab/server.yaml
//  3. ~/.config/pqlab/server.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${PQLAB_DATA}/users.db"
//
// Syntax: ${VAR_NAME}. Unset variables expand to an empty string.
// PQLAB_DB_PATH, when set, replaces database.path.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "localhost:8080"
//	  read_header_timeout: "10s"
//	  shutdown_timeout: "5s"
//
//	database:
//	  path: "/var/lib/pqlab/users.db"
//
//	auth:
//	  require_bearer_scheme: true   # false accepts any scheme word
//	  max_token_length: 16384       # negative disables the cap
//
//	logging:
//	  level: "info"    # debug, info, warn, error
//	  format: "text"   # text, json, color
//
// The same keys work in TOML:
//
//	[server]
//	http_addr = "localhost:8080"
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax. Supported units: ns,
// us, ms, s, m, h.
package config
