// Package config loads runtime configuration for the Shalo CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config, or $SHALO_CONFIG.
//  3. Environment variables SHALO_API_URL, SHALO_DB_PATH, SHALO_LOG_LEVEL.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   base URL of the resource API
//	-d string   path to the local SQLite database
//	-t int      per-request timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations are either strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://shalo-api.vta-group.tech/api/v1",
//	  "database_path": "shalo.db",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "page_size": 6,
//	  "trending_page_size": 5
//	}
package config
