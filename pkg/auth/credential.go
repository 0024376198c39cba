package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential carries the storefront API bearer token. It is passed explicitly
// into every client that needs it; nothing reads ambient token storage.
type Credential struct {
	token string
}

// NewCredential wraps a raw bearer token. An empty token yields a zero
// credential, which authorizes nothing.
func NewCredential(token string) Credential {
	return Credential{token: strings.TrimSpace(token)}
}

// IsZero reports whether the credential holds no token.
func (c Credential) IsZero() bool {
	return c.token == ""
}

// Authorize sets the bearer header on the outgoing request.
func (c Credential) Authorize(req *http.Request) {
	if c.IsZero() || req == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
}

// ExpiresAt extracts the expiry claim when the token is a JWT. The signature
// is not verified; the backend remains the authority. The second return is
// false for opaque tokens or JWTs without an exp claim.
func (c Credential) ExpiresAt() (time.Time, bool) {
	if c.IsZero() {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(c.token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether a JWT credential is already past its expiry.
// Opaque tokens are never considered expired here.
func (c Credential) Expired(now time.Time) bool {
	exp, ok := c.ExpiresAt()
	if !ok {
		return false
	}
	return now.After(exp)
}
