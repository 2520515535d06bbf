package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Terminal failure modes for the OAuth exchange: handlers map these onto the
// error codes surfaced in the post-login redirect
var ErrTokenExchangeFailed = errors.New("token exchange failed")
var ErrUserFetchFailed = errors.New("user fetch failed")

// Membership is the outcome of the best-effort guild-membership lookup. The
// distinction between "confirmed non-member" and "lookup unavailable" is kept
// at this layer even though both collapse to hasRole=false in the issued
// credential.
type Membership int

const (
	MembershipUnavailable Membership = iota
	MembershipNonMember
	MembershipMember
)

// Coordinator drives the three-step Discord handshake that turns a one-time
// authorization code into a finalized Identity
type Coordinator struct {
	client  DiscordClient
	guildId string
	roleId  string
	logger  zerolog.Logger
}

func NewCoordinator(client DiscordClient, guildId string, roleId string, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		client:  client,
		guildId: guildId,
		roleId:  roleId,
		logger:  logger,
	}
}

// Exchange resolves an authorization code to an Identity, strictly in
// sequence: code to access token, token to profile, then the role lookup.
// The first two steps abort the whole flow on failure and no identity is
// issued; a failed role lookup just leaves hasRole false. Each upstream call
// is attempted exactly once.
func (c *Coordinator) Exchange(ctx context.Context, code string) (*Identity, error) {
	accessToken, err := c.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchangeFailed, err)
	}

	user, err := c.client.GetCurrentUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserFetchFailed, err)
	}

	membership := c.CheckMembership(ctx, accessToken)
	return &Identity{
		Id:       user.Id,
		Username: user.Username,
		Avatar:   user.Avatar,
		HasRole:  membership == MembershipMember,
	}, nil
}

// CheckMembership queries the user's standing in the configured guild. It
// never fails: a lookup that can't be completed (network error, user is not a
// guild member, malformed response) resolves to MembershipUnavailable.
func (c *Coordinator) CheckMembership(ctx context.Context, accessToken string) Membership {
	roles, err := c.client.GetGuildMemberRoles(ctx, accessToken, c.guildId)
	if err != nil {
		c.logger.Warn().Err(err).Msg("guild membership lookup failed; continuing without role")
		return MembershipUnavailable
	}
	for _, role := range roles {
		if role == c.roleId {
			return MembershipMember
		}
	}
	return MembershipNonMember
}
