package health

import (
	"encoding/json"
	"net/http"

	"github.com/zero-network/triggerhub/internal/auth"
)

// Status is the health endpoint's response: a liveness marker plus the
// caller's identity claims, or null when the request carries no credential
type Status struct {
	Status string         `json:"status"`
	User   *auth.Identity `json:"user"`
}

type Server struct {
	authenticator auth.Authenticator
}

func NewServer(authenticator auth.Authenticator) *Server {
	return &Server{authenticator: authenticator}
}

func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	status := Status{
		Status: "ok",
		User:   s.authenticator.Identify(req),
	}
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(status); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}
