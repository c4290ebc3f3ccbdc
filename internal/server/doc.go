// Package server assembles the huddle backend from configuration: SQLite
// store, JWT auth, websocket chat, the vector index, the optional AI
// assistant and the REST API, served over a plain TCP listener or a
// Tailscale tsnet node. Run blocks until the context is canceled and then
// shuts everything down gracefully.
package server
