// Package config loads porch's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/porch/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	api_bind = "127.0.0.1:5000"
//	push_path = "/ws"
//	cache_dir = "~/.local/share/porch/cache"
//	log_path = "~/.local/share/porch/porch.log"
//	log_level = "info"
//	briefing_cron = "0 6 * * *"   # forced Jarvis briefing; "off" disables
//	rollover_cron = "0 0 * * *"   # refresh everything at midnight
//	reconnect_delay = 5           # seconds
//
//	[intervals]                   # seconds
//	weather = 300
//	calendar = 300
//	notes = 300
//	jarvis = 900
//	photos = 1800
//	nest = 60
//	nest_status = 300
//	spotify = 3
//	spotify_status = 300
//
// Every field is optional. Non-positive intervals fall back to the
// default. Cron expressions use the standard five fields and are
// validated at load time.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// a missing file, TOML syntax errors and invalid cron expressions. A
// missing file is not an error.
package config
