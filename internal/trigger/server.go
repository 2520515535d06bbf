package trigger

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zero-network/triggerhub/internal/auth"
)

type Server struct{}

func NewServer() *Server {
	return &Server{}
}

func (s *Server) RegisterRoutes(a auth.Authenticator, r *mux.Router) {
	// Generating triggers is member-only, same gate as the chat features
	r.Use(func(next http.Handler) http.Handler {
		return auth.RequireRole(a, next)
	})
	r.Path("/generate").Methods("POST").HandlerFunc(s.handleGenerate)
}

func (s *Server) handleGenerate(res http.ResponseWriter, req *http.Request) {
	var params Params
	if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
		respondError(res, http.StatusBadRequest, fmt.Sprintf("invalid request payload: %v", err))
		return
	}
	if params.Event1 == "" || params.Event2 == "" {
		respondError(res, http.StatusBadRequest, "'event1' and 'event2' are required")
		return
	}
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]string{"code": Generate(params)}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(res http.ResponseWriter, status int, message string) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	json.NewEncoder(res).Encode(map[string]string{"error": message})
}
