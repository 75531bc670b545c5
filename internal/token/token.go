// Package token signs and verifies the compact bearer credential binding a
// user id to an absolute expiry. A token proves authenticity only; session
// liveness is checked separately against the session store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is returned for any token that does not verify: malformed input,
// bad signature, or an expiry in the past. Callers get one uniform failure so
// the rejection reason cannot be distinguished downstream.
var ErrInvalid = errors.New("invalid token")

// DefaultTTL is the credential validity window used when no override is given.
const DefaultTTL = 7 * 24 * time.Hour

// Claims embeds the registered JWT claims plus the subject user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Codec issues and verifies HS256-signed credentials with a process-wide key.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec for the given signing secret. A non-positive ttl
// falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed credential for userID expiring at now+TTL.
func (c *Codec) Issue(userID string) (string, error) {
	return c.IssueWithTTL(userID, c.ttl)
}

// IssueWithTTL produces a signed credential with an explicit validity window.
func (c *Codec) IssueWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})
	return tok.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded user id. Every
// verification failure collapses into ErrInvalid.
func (c *Codec) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid || claims.UserID == "" {
		return "", ErrInvalid
	}

	return claims.UserID, nil
}
