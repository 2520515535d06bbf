package webhook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/zero-network/triggerhub/internal/auth"
)

const testSecret = "test-secret"

func newTestRouter(n Notifier) *mux.Router {
	r := mux.NewRouter()
	NewServer(n, zerolog.Nop()).RegisterRoutes(auth.NewTokenAuthenticator(testSecret), r)
	return r
}

func identityRequest(t *testing.T, identity *auth.Identity, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/trigger", strings.NewReader(body))
	if identity != nil {
		token, err := auth.NewIssuer(testSecret).Issue(identity)
		assert.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	return req
}

func Test_Server_handleTrigger(t *testing.T) {
	member := &auth.Identity{Id: "42", Username: "gu", HasRole: true}

	t.Run("posts the trigger log with identity taken from the session", func(t *testing.T) {
		notifier := &mockNotifier{}
		r := newTestRouter(notifier)

		req := identityRequest(t, member, `{"cityName":"Los Santos RP","code":"x","event1":"e1","event2":"e2"}`)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
		b, _ := io.ReadAll(res.Body)
		assert.Equal(t, `{"success":true}`, strings.TrimSpace(string(b)))

		assert.Len(t, notifier.posted, 1)
		assert.Equal(t, "gu", notifier.posted[0].Username)
		assert.Equal(t, "42", notifier.posted[0].UserId)
		assert.Equal(t, "Los Santos RP", notifier.posted[0].CityName)
	})

	t.Run("failed webhook delivery is a 500", func(t *testing.T) {
		notifier := &mockNotifier{err: fmt.Errorf("mock error")}
		r := newTestRouter(notifier)

		req := identityRequest(t, member, `{"code":"x"}`)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusInternalServerError, res.Code)
		b, _ := io.ReadAll(res.Body)
		assert.Equal(t, `{"error":"failed to record log"}`, strings.TrimSpace(string(b)))
	})

	t.Run("anonymous caller gets a 401 and nothing is posted", func(t *testing.T) {
		notifier := &mockNotifier{}
		r := newTestRouter(notifier)

		req := identityRequest(t, nil, `{"code":"x"}`)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Len(t, notifier.posted, 0)
	})

	t.Run("caller without the role gets a 403 and nothing is posted", func(t *testing.T) {
		notifier := &mockNotifier{}
		r := newTestRouter(notifier)

		req := identityRequest(t, &auth.Identity{Id: "12345", Username: "alice", HasRole: false}, `{"code":"x"}`)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Len(t, notifier.posted, 0)
	})
}

type mockNotifier struct {
	err    error
	posted []TriggerLog
}

func (m *mockNotifier) PostTriggerLog(ctx context.Context, entry TriggerLog) error {
	if m.err != nil {
		return m.err
	}
	m.posted = append(m.posted, entry)
	return nil
}

var _ Notifier = (*mockNotifier)(nil)
