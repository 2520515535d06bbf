package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/zero-network/triggerhub/internal/auth"
)

type Server struct {
	notifier Notifier
	logger   zerolog.Logger
}

func NewServer(notifier Notifier, logger zerolog.Logger) *Server {
	return &Server{
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Server) RegisterRoutes(a auth.Authenticator, r *mux.Router) {
	r.Use(func(next http.Handler) http.Handler {
		return auth.RequireRole(a, next)
	})
	r.Path("/trigger").Methods("POST").HandlerFunc(s.handleTrigger)
}

// triggerRequest is the body posted by the frontend after it generates a
// trigger; the identity fields come from the session, never from the client
type triggerRequest struct {
	CityName string `json:"cityName"`
	Code     string `json:"code"`
	Event1   string `json:"event1"`
	Event2   string `json:"event2"`
}

func (s *Server) handleTrigger(res http.ResponseWriter, req *http.Request) {
	identity := auth.GetIdentity(req)

	var payload triggerRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		res.Header().Set("Content-Type", "application/json")
		res.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(res).Encode(map[string]string{"error": fmt.Sprintf("invalid request payload: %v", err)})
		return
	}

	err := s.notifier.PostTriggerLog(req.Context(), TriggerLog{
		Username: identity.Username,
		UserId:   identity.Id,
		CityName: payload.CityName,
		Code:     payload.Code,
		Event1:   payload.Event1,
		Event2:   payload.Event2,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to post trigger log webhook")
		res.Header().Set("Content-Type", "application/json")
		res.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(res).Encode(map[string]string{"error": "failed to record log"})
		return
	}

	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]bool{"success": true}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}
