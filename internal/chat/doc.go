// Package chat implements the real-time two-party conversation subsystem.
//
// A conversation is identified by the unordered pair of participant names:
// Key("alice", "bob") and Key("bob", "alice") address the same conversation,
// so both sides of a pair share one history and one set of live connections.
//
// The moving parts:
//
//   - Registry tracks live connections per conversation key and fans frames
//     out to all of them, the sender included.
//   - Conn wraps a websocket with a single-writer loop and keepalive pings.
//   - Session drives one connection: replay stored history, relay inbound
//     messages (persist, then broadcast), and announce departure on
//     disconnect.
//   - Handler upgrades GET /ws/chat/{sender}/{receiver} and runs the session.
//
// Participant identities come straight from the connection path and are not
// authenticated; anyone who can reach the endpoint can claim any name. The
// REST API's JWT middleware does not cover this endpoint.
package chat
