// Package token issues and verifies the signed session tokens carried in the
// session cookie.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that does not carry a valid
// signature, regardless of the underlying parse failure.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the identity payload embedded in a session token.
type Claims struct {
	Username string `json:"username"`
	UserID   int64  `json:"id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a process-wide HMAC secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// New creates a Codec. A ttl of zero issues tokens without an expiry claim,
// matching session-until-logout semantics.
func New(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime. Zero means no expiry.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a token embedding the given identity.
func (c *Codec) Issue(username string, userID int64) (string, error) {
	claims := Claims{
		Username: username,
		UserID:   userID,
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(c.ttl))
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and returns the embedded claims. It fails
// closed: malformed input, a wrong signing method, a bad signature, or an
// expired token all map to ErrInvalidToken.
func (c *Codec) Verify(value string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
