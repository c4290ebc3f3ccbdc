// ABOUTME: Canonical conversation key derivation for two-party chats
// ABOUTME: Order-independent, pure, and collision-free across distinct pairs

package chat

import "net/url"

// Key derives the canonical conversation key for a pair of participants.
// The two identifiers are sorted lexicographically so Key(a, b) == Key(b, a),
// then escaped and joined, so distinct unordered pairs can never collide even
// when an identifier contains the separator.
func Key(a, b string) string {
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	return url.QueryEscape(lo) + ":" + url.QueryEscape(hi)
}
