package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NewFileStore returns a Store that keeps one JSON file per session under
// dir, creating the directory if needed. Sessions from different requests are
// independent files, so concurrent logins never contend with each other.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &fileStore{
		dir: dir,
		now: time.Now,
	}, nil
}

type fileStore struct {
	dir string
	now func() time.Time
}

func (s *fileStore) Create(ctx context.Context, record Record) error {
	path, err := s.pathFor(record.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

func (s *fileStore) Get(ctx context.Context, id string) (*Record, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	if s.now().After(record.ExpiresAt) {
		// Lapsed sessions are reaped lazily, on the first read after expiry
		_ = os.Remove(path)
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *fileStore) Delete(ctx context.Context, id string) error {
	path, err := s.pathFor(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

// pathFor rejects ids that could escape the session directory: valid ids are
// base64url and never contain path separators or dots
func (s *fileStore) pathFor(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\.") {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, id+".json"), nil
}

var _ Store = (*fileStore)(nil)
