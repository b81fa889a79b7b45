// Package config loads runtime configuration for the medmod CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the medmod HTTP API
//	-g string     address:port of the gRPC ops endpoint
//	-iss string   issuer stamped into signed identity tokens
//	-ttl int      lifetime of issued identity tokens (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "5m"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "grpc_addr": "127.0.0.1:50051",
//	  "signed_issuer": "medmod",
//	  "token_ttl": "5m",
//	  "request_timeout": "10s"
//	}
package config
