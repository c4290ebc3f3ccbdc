// Package auth provides authentication for the huddle API.
//
// Accounts authenticate with username/password at login and receive an HS256
// JWT whose "sub" claim carries the username. Every protected REST endpoint
// goes through Middleware, which verifies the bearer token and attaches the
// username to the request context (UserFromContext).
//
// Passwords are stored as bcrypt hashes; see HashPassword/CheckPassword.
//
// The websocket chat endpoint is deliberately outside this package's
// middleware: participant identities there come from the connection path.
// See the chat package docs for the trust implications.
package auth
