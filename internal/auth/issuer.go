package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the HTTP cookie that carries the session
// credential between requests
const CookieName = "zero_auth"

// Issuer mints signed session tokens for freshly-authenticated users
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a session token embedding the given identity, valid for 24
// hours from now
func (i *Issuer) Issue(identity *Identity) (string, error) {
	now := i.now().UTC()
	claims := sessionClaims{
		Username: identity.Username,
		Avatar:   identity.Avatar,
		HasRole:  identity.HasRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// attachCookie issues the session cookie to the client: HTTP-only and
// same-site-restricted, expiring in lockstep with the credential it carries
func attachCookie(res http.ResponseWriter, value string) {
	http.SetCookie(res, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie overwrites the session cookie with an immediately-expired
// replacement; clearing a cookie that was never set is a no-op
func clearCookie(res http.ResponseWriter) {
	http.SetCookie(res, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
