package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"github.com/zero-network/triggerhub/internal/auth"
)

// login is a development helper: it runs the full Discord OAuth handshake
// against a temporary localhost callback and prints the resulting identity,
// so you can check guild/role configuration without deploying the server.
// The Discord app must have http://localhost:<LOGIN_PORT>/callback registered
// as a redirect URI.

type Config struct {
	DiscordClientId     string `env:"DISCORD_CLIENT_ID" required:"true"`
	DiscordClientSecret string `env:"DISCORD_CLIENT_SECRET" required:"true"`
	DiscordGuildId      string `env:"DISCORD_GUILD_ID" required:"true"`
	DiscordRoleId       string `env:"DISCORD_ROLE_ID" required:"true"`

	SessionSecret string `env:"SESSION_SECRET"`
	LoginPort     uint16 `env:"LOGIN_PORT" default:"8123"`
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

	redirectUri := fmt.Sprintf("http://localhost:%d/callback", config.LoginPort)
	csrfToken := generateCsrfToken()

	// Don't wait on the user forever; if they never respond to the consent
	// prompt, give up after a few minutes
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	codeChannel := make(chan string, 1)
	server := &http.Server{
		Addr: fmt.Sprintf("localhost:%d", config.LoginPort),
		Handler: http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/callback" {
				http.Error(res, "path not supported", http.StatusNotFound)
				return
			}
			if req.URL.Query().Get("state") != csrfToken {
				http.Error(res, "CSRF token verification failed", http.StatusBadRequest)
				return
			}
			code := req.URL.Query().Get("code")
			if code == "" {
				http.Error(res, "'code' value not found in URL query params", http.StatusBadRequest)
				return
			}
			fmt.Fprintf(res, "Authentication OK. You may now close this window.\n")
			codeChannel <- code
		}),
	}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("error running callback server: %v", err)
		}
	}()

	q := url.Values{}
	q.Set("client_id", config.DiscordClientId)
	q.Set("redirect_uri", redirectUri)
	q.Set("response_type", "code")
	q.Set("scope", "identify guilds.members.read")
	q.Set("state", csrfToken)
	authorizeUrl := fmt.Sprintf("%s?%s", auth.DefaultAuthorizeUrl, q.Encode())

	fmt.Printf("Opening web browser: %s\n", authorizeUrl)
	browser.OpenURL(authorizeUrl)

	var code string
	select {
	case code = <-codeChannel:
	case <-ctx.Done():
		log.Fatalf("timed out waiting for user authorization")
	}
	server.Shutdown(context.Background())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	client := auth.NewDiscordClient(auth.DefaultDiscordApiUrl, config.DiscordClientId, config.DiscordClientSecret, redirectUri)
	coordinator := auth.NewCoordinator(client, config.DiscordGuildId, config.DiscordRoleId, logger)
	identity, err := coordinator.Exchange(context.Background(), code)
	if err != nil {
		log.Fatalf("oauth exchange failed: %v", err)
	}

	encoded, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode identity: %v", err)
	}
	fmt.Printf("Resolved identity:\n%s\n", encoded)

	if config.SessionSecret != "" {
		token, err := auth.NewIssuer(config.SessionSecret).Issue(identity)
		if err != nil {
			log.Fatalf("failed to issue session token: %v", err)
		}
		fmt.Printf("\nSession token (valid 24h):\n%s\n", token)
	}
}

// generateCsrfToken returns a cryptographically random hex string
func generateCsrfToken() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatalf("failed to generate CSRF token: %v", err)
	}
	return hex.EncodeToString(bytes)
}
