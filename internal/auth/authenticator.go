package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zero-network/triggerhub/internal/session"
)

// Authenticator owns the transport side-channel for session credentials: it
// attaches a credential to the response at login, reconstructs the Identity
// carried by an incoming request, and revokes the credential at logout.
type Authenticator interface {
	Login(res http.ResponseWriter, req *http.Request, identity *Identity) error
	Identify(req *http.Request) *Identity
	Logout(res http.ResponseWriter, req *http.Request)
}

// NewTokenAuthenticator returns the stateless credential variant: the full
// identity is embedded in a signed token held client-side, and the server
// keeps no session record of its own
func NewTokenAuthenticator(secret string) Authenticator {
	return &tokenAuthenticator{
		issuer:   NewIssuer(secret),
		verifier: NewVerifier(secret),
	}
}

type tokenAuthenticator struct {
	issuer   *Issuer
	verifier *Verifier
}

func (a *tokenAuthenticator) Login(res http.ResponseWriter, req *http.Request, identity *Identity) error {
	token, err := a.issuer.Issue(identity)
	if err != nil {
		return err
	}
	attachCookie(res, token)
	return nil
}

func (a *tokenAuthenticator) Identify(req *http.Request) *Identity {
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return a.verifier.Verify(cookie.Value)
}

func (a *tokenAuthenticator) Logout(res http.ResponseWriter, req *http.Request) {
	clearCookie(res)
}

var _ Authenticator = (*tokenAuthenticator)(nil)

// NewSessionAuthenticator returns the server-side session variant: the cookie
// carries an opaque session id, and the identity lives in the store until it
// expires or the user logs out
func NewSessionAuthenticator(store session.Store) Authenticator {
	return &sessionAuthenticator{
		store: store,
		now:   time.Now,
	}
}

type sessionAuthenticator struct {
	store session.Store
	now   func() time.Time
}

func (a *sessionAuthenticator) Login(res http.ResponseWriter, req *http.Request, identity *Identity) error {
	id, err := session.GenerateID()
	if err != nil {
		return err
	}
	record := session.Record{
		ID: id,
		User: session.User{
			Id:       identity.Id,
			Username: identity.Username,
			Avatar:   identity.Avatar,
			HasRole:  identity.HasRole,
		},
		ExpiresAt: a.now().UTC().Add(sessionTTL),
	}
	if err := a.store.Create(req.Context(), record); err != nil {
		return fmt.Errorf("failed to create session record: %w", err)
	}
	attachCookie(res, id)
	return nil
}

func (a *sessionAuthenticator) Identify(req *http.Request) *Identity {
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return nil
	}
	record, err := a.store.Get(req.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return &Identity{
		Id:       record.User.Id,
		Username: record.User.Username,
		Avatar:   record.User.Avatar,
		HasRole:  record.User.HasRole,
	}
}

func (a *sessionAuthenticator) Logout(res http.ResponseWriter, req *http.Request) {
	if cookie, err := req.Cookie(CookieName); err == nil {
		// Deleting a record that's already gone is fine: logout still succeeds
		_ = a.store.Delete(req.Context(), cookie.Value)
	}
	clearCookie(res)
}

var _ Authenticator = (*sessionAuthenticator)(nil)
