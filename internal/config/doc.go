// Package config handles configuration loading for the huddle server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from HUDDLE_CONFIG environment variable
//  2. ./config.yaml (current directory)
//  3. ~/.config/huddle/server.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${HUDDLE_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  token_ttl: "24h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8000"
//
// Tailscale (optional, replaces the plain TCP listener):
//
//	tailscale:
//	  enabled: true
//	  hostname: "huddle"
//	  auth_key: "${TS_AUTHKEY}"
//	  state_dir: "./tsnet-state"
//	  ephemeral: false
//
// Database:
//
//	database:
//	  path: "./huddle.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${HUDDLE_JWT_SECRET}"
//	  token_ttl: "24h"
//
// AI assistant (endpoints disabled when api_key is empty):
//
//	ai:
//	  base_url: "https://api.groq.com/openai/v1"
//	  api_key: "${GROQ_API_KEY}"
//	  model: "llama-3.1-8b-instant"
//
// Websocket chat:
//
//	chat:
//	  send_buffer: 128
//	  allowed_origins: ["*"]
//
// CORS and logging:
//
//	cors:
//	  allowed_origins: ["*"]
//	logging:
//	  level: "info"
//	  format: "text"
package config
