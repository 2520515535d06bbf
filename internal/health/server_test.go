package health

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zero-network/triggerhub/internal/auth"
)

func Test_Server(t *testing.T) {
	authenticator := auth.NewTokenAuthenticator("test-secret")
	s := NewServer(authenticator)

	t.Run("anonymous request reports ok with a null user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		res := httptest.NewRecorder()
		s.ServeHTTP(res, req)

		b, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, `{"status":"ok","user":null}`, strings.TrimSpace(string(b)))
	})

	t.Run("authenticated request includes the caller's claims", func(t *testing.T) {
		token, err := auth.NewIssuer("test-secret").Issue(&auth.Identity{Id: "42", Username: "gu", HasRole: true})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		res := httptest.NewRecorder()
		s.ServeHTTP(res, req)

		b, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, `{"status":"ok","user":{"id":"42","username":"gu","avatar":null,"hasRole":true}}`, strings.TrimSpace(string(b)))
	})
}
