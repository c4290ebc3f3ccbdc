// Package api exposes the REST surface: account signup and login, per-user
// task CRUD, the AI assistant and document chat endpoints, and health checks.
// Handlers are thin adapters from JSON to the store and services; request
// identity comes from the auth middleware's context.
package api
