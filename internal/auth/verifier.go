package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL is how long an issued credential remains valid: once it lapses,
// the user has to go through the full Discord login flow again
const sessionTTL = 24 * time.Hour

// sessionClaims is the JWT payload for the stateless credential variant; the
// user's Discord id is carried in the registered 'sub' claim
type sessionClaims struct {
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
	HasRole  bool    `json:"hasRole"`
	jwt.RegisteredClaims
}

// Verifier decodes signed session tokens back into the Identity they were
// issued for
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a raw session token, returning the Identity it
// encodes. An empty, malformed, expired, or tampered-with token resolves to
// nil, with no distinction between those cases: callers only ever have a
// single "no identity" case to handle.
func (v *Verifier) Verify(raw string) *Identity {
	if raw == "" {
		return nil
	}
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return nil
	}
	return &Identity{
		Id:       claims.Subject,
		Username: claims.Username,
		Avatar:   claims.Avatar,
		HasRole:  claims.HasRole,
	}
}
