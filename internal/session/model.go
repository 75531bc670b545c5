package session

import "time"

// Session is the server-side record of a live login, keyed by the issued
// token. Its expiry is authoritative for resolution and may be shorter than
// the token's own validity window.
type Session struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
