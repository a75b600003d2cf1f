// Package config loads runtime configuration for the imgbox CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config (or $IMGBOX_CONFIG).
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the imgbox server
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Timeouts use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "server_addr": "http://127.0.0.1:8080",
//	  "timeout": "10s"
//	}
package config
