// Package session implements the server-side session variant: instead of
// embedding identity claims in a signed token, the cookie carries an opaque
// session id and the identity is kept in a store until it expires or is
// deleted at logout.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when no live record exists for a session id;
// an expired record is indistinguishable from one that never existed
var ErrNotFound = errors.New("session not found")

// User is the identity snapshot persisted alongside a session id
type User struct {
	Id       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
	HasRole  bool    `json:"hasRole"`
}

// Record is a single stored session, keyed by its opaque id
type Record struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store defines how session records are persisted and retrieved
type Store interface {
	Create(ctx context.Context, record Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// GenerateID generates a cryptographically secure session id with 256 bits of
// entropy, encoded so it's safe to use both in a cookie value and a filename
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
