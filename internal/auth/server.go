package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// DefaultAuthorizeUrl is the Discord OAuth consent page that /discord
// redirects the user to
const DefaultAuthorizeUrl = "https://discord.com/api/oauth2/authorize"

// Scopes requested during login: 'identify' for the profile, and
// 'guilds.members.read' so we can check the user's roles in our guild
const oauthScopes = "identify guilds.members.read"

type Server struct {
	authorizeUrl  string
	clientId      string
	redirectUri   string
	coordinator   *Coordinator
	authenticator Authenticator
	logger        zerolog.Logger
}

func NewServer(authorizeUrl string, clientId string, redirectUri string, coordinator *Coordinator, authenticator Authenticator, logger zerolog.Logger) *Server {
	return &Server{
		authorizeUrl:  authorizeUrl,
		clientId:      clientId,
		redirectUri:   redirectUri,
		coordinator:   coordinator,
		authenticator: authenticator,
		logger:        logger,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	// Login flow: /discord bounces the user out to Discord's consent page,
	// and /callback completes the handshake and attaches the session cookie
	r.Path("/discord").Methods("GET").HandlerFunc(s.handleDiscord)
	r.Path("/callback").Methods("GET").HandlerFunc(s.handleCallback)

	// Session endpoints: /me reports the caller's identity claims (or null),
	// and /logout revokes the credential
	r.Path("/me").Methods("GET").HandlerFunc(s.handleMe)
	r.Path("/logout").Methods("GET").HandlerFunc(s.handleLogout)
}

func (s *Server) handleDiscord(res http.ResponseWriter, req *http.Request) {
	q := url.Values{}
	q.Set("client_id", s.clientId)
	q.Set("redirect_uri", s.redirectUri)
	q.Set("response_type", "code")
	q.Set("scope", oauthScopes)
	http.Redirect(res, req, fmt.Sprintf("%s?%s", s.authorizeUrl, q.Encode()), http.StatusFound)
}

func (s *Server) handleCallback(res http.ResponseWriter, req *http.Request) {
	code := req.URL.Query().Get("code")
	if code == "" {
		http.Redirect(res, req, "/?error=no_code", http.StatusFound)
		return
	}

	identity, err := s.coordinator.Exchange(req.Context(), code)
	if err != nil {
		s.logger.Error().Err(err).Msg("discord oauth exchange failed")
		http.Redirect(res, req, fmt.Sprintf("/?error=%s", exchangeErrorCode(err)), http.StatusFound)
		return
	}

	if err := s.authenticator.Login(res, req, identity); err != nil {
		s.logger.Error().Err(err).Msg("failed to establish session")
		http.Redirect(res, req, "/?error=auth_failed", http.StatusFound)
		return
	}
	http.Redirect(res, req, "/", http.StatusFound)
}

// exchangeErrorCode maps an exchange failure onto the error code surfaced in
// the post-login redirect; the underlying error itself never reaches the
// client
func exchangeErrorCode(err error) string {
	if errors.Is(err, ErrTokenExchangeFailed) {
		return "token_failed"
	}
	if errors.Is(err, ErrUserFetchFailed) {
		return "user_fetch_failed"
	}
	return "auth_failed"
}

func (s *Server) handleMe(res http.ResponseWriter, req *http.Request) {
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(s.authenticator.Identify(req)); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLogout(res http.ResponseWriter, req *http.Request) {
	s.authenticator.Logout(res, req)
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]bool{"success": true}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}
