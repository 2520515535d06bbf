package trigger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/zero-network/triggerhub/internal/auth"
)

const testSecret = "test-secret"

func newTestRouter() *mux.Router {
	r := mux.NewRouter()
	NewServer().RegisterRoutes(auth.NewTokenAuthenticator(testSecret), r)
	return r
}

func memberRequest(t *testing.T, body string) *http.Request {
	token, err := auth.NewIssuer(testSecret).Issue(&auth.Identity{Id: "42", Username: "gu", HasRole: true})
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	return req
}

func Test_Server_handleGenerate(t *testing.T) {
	r := newTestRouter()

	t.Run("valid params yield the generated snippet", func(t *testing.T) {
		req := memberRequest(t, `{"event1":"esx:giveItem","event2":"[\"bread\"]","isAutomated":true,"repetitions":3,"delay":250}`)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Contains(t, body["code"], `TriggerServerEvent("esx:giveItem"`)
		assert.Contains(t, body["code"], "for iniciar = 1, 3 do")
		assert.Contains(t, body["code"], "Citizen.Wait(250)")
	})

	t.Run("missing event fields is a 400", func(t *testing.T) {
		req := memberRequest(t, `{"event1":"esx:giveItem"}`)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("anonymous caller gets a 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{}`))
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
