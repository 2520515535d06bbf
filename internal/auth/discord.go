package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultDiscordApiUrl is the base URL for the Discord REST API; tests
// substitute a local server
const DefaultDiscordApiUrl = "https://discord.com/api"

var ErrDiscordReturnedUnauthorized = errors.New("got 401 response from Discord API")

// DiscordClient covers the three Discord API calls the login flow depends on:
// redeeming an authorization code, fetching the authorizing user's profile,
// and looking up their member record in a guild
type DiscordClient interface {
	ExchangeCode(ctx context.Context, code string) (accessToken string, err error)
	GetCurrentUser(ctx context.Context, accessToken string) (*DiscordUser, error)
	GetGuildMemberRoles(ctx context.Context, accessToken string, guildId string) ([]string, error)
}

func NewDiscordClient(apiUrl string, clientId string, clientSecret string, redirectUri string) DiscordClient {
	return &discordClient{
		apiUrl:       apiUrl,
		clientId:     clientId,
		clientSecret: clientSecret,
		redirectUri:  redirectUri,
	}
}

type discordClient struct {
	apiUrl       string
	clientId     string
	clientSecret string
	redirectUri  string
}

func (c *discordClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.clientId)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectUri)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiUrl+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusUnauthorized {
			return "", ErrDiscordReturnedUnauthorized
		}
		return "", fmt.Errorf("got %d response from token endpoint", res.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response did not include an access token")
	}
	return payload.AccessToken, nil
}

func (c *discordClient) GetCurrentUser(ctx context.Context, accessToken string) (*DiscordUser, error) {
	var user DiscordUser
	if err := c.getWithBearer(ctx, c.apiUrl+"/users/@me", accessToken, &user); err != nil {
		return nil, err
	}
	if user.Id == "" {
		return nil, fmt.Errorf("user profile response did not include an id")
	}
	return &user, nil
}

func (c *discordClient) GetGuildMemberRoles(ctx context.Context, accessToken string, guildId string) ([]string, error) {
	var member struct {
		Roles []string `json:"roles"`
	}
	memberUrl := fmt.Sprintf("%s/users/@me/guilds/%s/member", c.apiUrl, guildId)
	if err := c.getWithBearer(ctx, memberUrl, accessToken, &member); err != nil {
		return nil, err
	}
	return member.Roles, nil
}

// getWithBearer makes an authenticated GET request against the Discord API
// and decodes the JSON response into dst
func (c *discordClient) getWithBearer(ctx context.Context, requestUrl string, accessToken string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", requestUrl, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusUnauthorized {
			return ErrDiscordReturnedUnauthorized
		}
		return fmt.Errorf("got %d response from %s", res.StatusCode, requestUrl)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", requestUrl, err)
	}
	return nil
}

var _ DiscordClient = (*discordClient)(nil)
