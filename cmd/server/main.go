package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zero-network/triggerhub/internal/auth"
	"github.com/zero-network/triggerhub/internal/chat"
	"github.com/zero-network/triggerhub/internal/health"
	"github.com/zero-network/triggerhub/internal/session"
	"github.com/zero-network/triggerhub/internal/trigger"
	"github.com/zero-network/triggerhub/internal/webhook"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"3000"`

	DiscordClientId       string `env:"DISCORD_CLIENT_ID" required:"true"`
	DiscordClientSecret   string `env:"DISCORD_CLIENT_SECRET" required:"true"`
	DiscordRedirectUri    string `env:"REDIRECT_URI" required:"true"`
	DiscordGuildId        string `env:"DISCORD_GUILD_ID" required:"true"`
	DiscordRoleId         string `env:"DISCORD_ROLE_ID" required:"true"`
	DiscordApiUrl         string `env:"DISCORD_API_URL" default:"https://discord.com/api"`
	DiscordAuthorizeUrl   string `env:"DISCORD_AUTHORIZE_URL" default:"https://discord.com/api/oauth2/authorize"`
	DiscordTriggerWebhook string `env:"DISCORD_TRIGGER_WEBHOOK" required:"true"`

	GroqApiKey string `env:"GROQ_API_KEY" required:"true"`
	GroqApiUrl string `env:"GROQ_API_URL" default:"https://api.groq.com/openai/v1"`

	SessionSecret string `env:"SESSION_SECRET" required:"true"`
	SessionMode   string `env:"SESSION_MODE" default:"token"`
	DataDir       string `env:"DATA_DIR" default:"data"`
	StaticDir     string `env:"STATIC_DIR" default:"dist"`

	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
}

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("error loading .env file: %v", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, close := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM)
	defer close()

	// The authenticator owns the session cookie: either the stateless signed
	// token, or an opaque id pointing into a file-backed session store
	var authenticator auth.Authenticator
	switch strings.ToLower(config.SessionMode) {
	case "token":
		authenticator = auth.NewTokenAuthenticator(config.SessionSecret)
	case "file":
		store, err := session.NewFileStore(filepath.Join(config.DataDir, "sessions"))
		if err != nil {
			log.Fatalf("error initializing session store: %v", err)
		}
		authenticator = auth.NewSessionAuthenticator(store)
	default:
		log.Fatalf("invalid SESSION_MODE %q: must be 'token' or 'file'", config.SessionMode)
	}

	discordClient := auth.NewDiscordClient(config.DiscordApiUrl, config.DiscordClientId, config.DiscordClientSecret, config.DiscordRedirectUri)
	coordinator := auth.NewCoordinator(discordClient, config.DiscordGuildId, config.DiscordRoleId, logger)
	authServer := auth.NewServer(config.DiscordAuthorizeUrl, config.DiscordClientId, config.DiscordRedirectUri, coordinator, authenticator, logger)

	chatStore, err := chat.NewFileStore(filepath.Join(config.DataDir, "chats.json"))
	if err != nil {
		log.Fatalf("error initializing chat store: %v", err)
	}
	completionsClient := chat.NewCompletionsClient(config.GroqApiKey, config.GroqApiUrl)
	chatServer := chat.NewServer(completionsClient, chatStore, logger)

	webhookServer := webhook.NewServer(webhook.NewNotifier(config.DiscordTriggerWebhook), logger)
	triggerServer := trigger.NewServer()

	r := mux.NewRouter()
	authServer.RegisterRoutes(r.PathPrefix("/api/auth").Subrouter())
	chatServer.RegisterRoutes(authenticator, r.PathPrefix("/api").Subrouter())
	webhookServer.RegisterRoutes(authenticator, r.PathPrefix("/api/webhooks").Subrouter())
	triggerServer.RegisterRoutes(authenticator, r.PathPrefix("/api/triggers").Subrouter())
	r.Path("/api/health").Methods("GET").Handler(health.NewServer(authenticator))

	// Anything that isn't an API route serves the compiled frontend, falling
	// back to index.html so client-side routing works
	r.PathPrefix("/").Handler(spaHandler{
		staticDir: config.StaticDir,
		indexPath: filepath.Join(config.StaticDir, "index.html"),
	})

	var handler http.Handler = r
	if config.AllowedOrigin != "" {
		handler = cors.New(cors.Options{
			AllowedOrigins:   []string{config.AllowedOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowCredentials: true,
		}).Handler(r)
	}

	addr := fmt.Sprintf("%s:%d", config.BindAddr, config.ListenPort)
	server := &http.Server{Addr: addr, Handler: handler}

	fmt.Printf("Listening on %s...\n", addr)
	var wg errgroup.Group
	wg.Go(server.ListenAndServe)

	select {
	case <-ctx.Done():
		fmt.Printf("Received signal; closing server...\n")
		server.Shutdown(context.Background())
	}

	err = wg.Wait()
	if err == http.ErrServerClosed {
		fmt.Printf("Server closed.\n")
	} else {
		log.Fatalf("error running server: %v", err)
	}
}

// spaHandler serves files from the static dir, rewriting any path that
// doesn't exist on disk to index.html
type spaHandler struct {
	staticDir string
	indexPath string
}

func (h spaHandler) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	path := filepath.Join(h.staticDir, filepath.Clean("/"+req.URL.Path))
	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir() && path != filepath.Clean(h.staticDir)) {
		http.ServeFile(res, req, h.indexPath)
		return
	}
	if err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	http.FileServer(http.Dir(h.staticDir)).ServeHTTP(res, req)
}
