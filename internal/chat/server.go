package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/zero-network/triggerhub/internal/auth"
)

type Server struct {
	completions CompletionsClient
	store       Store
	logger      zerolog.Logger
}

func NewServer(completions CompletionsClient, store Store, logger zerolog.Logger) *Server {
	return &Server{
		completions: completions,
		store:       store,
		logger:      logger,
	}
}

func (s *Server) RegisterRoutes(a auth.Authenticator, r *mux.Router) {
	// All chat functionality is member-only: an anonymous caller gets a 401,
	// an authenticated caller without the gating role gets a 403
	r.Use(func(next http.Handler) http.Handler {
		return auth.RequireRole(a, next)
	})

	// POST /chat proxies a conversation to the LLM API
	r.Path("/chat").Methods("POST").HandlerFunc(s.handleCompletion)

	// /chats manages the caller's persisted conversations
	r.Path("/chats").Methods("GET").HandlerFunc(s.handleListChats)
	r.Path("/chats").Methods("POST").HandlerFunc(s.handleSaveChat)
	r.Path("/chats/{id}").Methods("DELETE").HandlerFunc(s.handleDeleteChat)
}

func (s *Server) handleCompletion(res http.ResponseWriter, req *http.Request) {
	contentType := req.Header.Get("content-type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		respondError(res, http.StatusBadRequest, "content-type not supported")
		return
	}

	var payload Request
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		respondError(res, http.StatusBadRequest, fmt.Sprintf("invalid request payload: %v", err))
		return
	}
	if len(payload.Messages) == 0 {
		respondError(res, http.StatusBadRequest, "messages not provided")
		return
	}

	completion, err := s.completions.CreateChatCompletion(req.Context(), buildCompletionRequest(payload.Messages))
	if err != nil {
		// If the upstream API rejected the request, pass its status and
		// message through; anything else is a 500 on our end
		apiError := &openai.APIError{}
		if errors.As(err, &apiError) && apiError.HTTPStatusCode != 0 {
			s.logger.Error().Err(err).Int("status", apiError.HTTPStatusCode).Msg("completion request rejected upstream")
			respondError(res, apiError.HTTPStatusCode, apiError.Message)
			return
		}
		s.logger.Error().Err(err).Msg("completion request failed")
		respondError(res, http.StatusInternalServerError, "internal server error while processing chat")
		return
	}

	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(completion); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleListChats(res http.ResponseWriter, req *http.Request) {
	identity := auth.GetIdentity(req)
	records, err := s.store.ListByUser(req.Context(), identity.Id)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list chats")
		respondError(res, http.StatusInternalServerError, "failed to load chats")
		return
	}
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(records); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleSaveChat(res http.ResponseWriter, req *http.Request) {
	identity := auth.GetIdentity(req)

	var record Record
	if err := json.NewDecoder(req.Body).Decode(&record); err != nil {
		respondError(res, http.StatusBadRequest, fmt.Sprintf("invalid request payload: %v", err))
		return
	}

	// Ownership always comes from the verified identity, never from the body
	record.UserId = identity.Id
	if record.Id == "" {
		record.Id = uuid.NewString()
	}

	if err := s.store.Upsert(req.Context(), record); err != nil {
		s.logger.Error().Err(err).Msg("failed to save chat")
		respondError(res, http.StatusInternalServerError, "failed to save chat")
		return
	}
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]interface{}{"success": true, "chat": record}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDeleteChat(res http.ResponseWriter, req *http.Request) {
	identity := auth.GetIdentity(req)
	id, ok := mux.Vars(req)["id"]
	if !ok || id == "" {
		respondError(res, http.StatusBadRequest, "chat id is required")
		return
	}

	// Deleting a chat that doesn't exist (or isn't yours) still succeeds
	if err := s.store.Delete(req.Context(), id, identity.Id); err != nil {
		s.logger.Error().Err(err).Msg("failed to delete chat")
		respondError(res, http.StatusInternalServerError, "failed to delete chat")
		return
	}
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(map[string]bool{"success": true}); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(res http.ResponseWriter, status int, message string) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	json.NewEncoder(res).Encode(map[string]string{"error": message})
}
