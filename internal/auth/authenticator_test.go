package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zero-network/triggerhub/internal/session"
)

// requestWithCookies builds a follow-up request carrying whatever session
// cookie the previous response set
func requestWithCookies(res *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range res.Result().Cookies() {
		if cookie.MaxAge >= 0 {
			req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		}
	}
	return req
}

func Test_SessionAuthenticator(t *testing.T) {
	store := session.NewMemoryStore()
	authenticator := NewSessionAuthenticator(store)
	identity := &Identity{Id: mockUserId, Username: mockUsername, HasRole: true}

	// Login attaches an opaque session id, not the identity itself
	loginRes := httptest.NewRecorder()
	loginReq := httptest.NewRequest(http.MethodGet, "/callback", nil)
	assert.NoError(t, authenticator.Login(loginRes, loginReq, identity))

	cookie := sessionCookie(loginRes)
	assert.NotNil(t, cookie)
	assert.NotContains(t, cookie.Value, mockUserId)

	// A request carrying the cookie resolves to the stored identity
	assert.Equal(t, identity, authenticator.Identify(requestWithCookies(loginRes)))

	// A request with a made-up session id resolves to no identity
	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: CookieName, Value: "no-such-session"})
	assert.Nil(t, authenticator.Identify(forged))

	// Logout deletes the stored record: the old id is dead even if the
	// client keeps presenting it
	logoutRes := httptest.NewRecorder()
	authenticator.Logout(logoutRes, requestWithCookies(loginRes))
	assert.Nil(t, authenticator.Identify(requestWithCookies(loginRes)))

	// Logging out again is still fine
	authenticator.Logout(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func Test_TokenAuthenticator_statelessAcrossInstances(t *testing.T) {
	first := NewTokenAuthenticator("shared-secret")
	second := NewTokenAuthenticator("shared-secret")
	identity := &Identity{Id: mockUserId, Username: mockUsername, HasRole: false}

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	assert.NoError(t, first.Login(res, req, identity))

	// No server-side state: any instance holding the secret can verify
	assert.Equal(t, identity, second.Identify(requestWithCookies(res)))
}
