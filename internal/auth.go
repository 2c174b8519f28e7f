package internal

import "crypto/subtle"

// Guard validates the optional shared-secret app token. When no token is
// configured every candidate is accepted, matching the original deployment
// mode where the endpoints are open.
type Guard struct {
	token string
}

// NewGuard creates a guard for the configured token. An empty token
// disables the check.
func NewGuard(token string) *Guard {
	return &Guard{token: token}
}

// Enabled reports whether a token is configured.
func (g *Guard) Enabled() bool {
	return g.token != ""
}

// Authorize reports whether candidate grants access to protected
// operations. The comparison is constant-time to avoid timing leaks.
func (g *Guard) Authorize(candidate string) bool {
	if g.token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(g.token)) == 1
}
