package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store defines the persistence operations for saved chats. Records are
// scoped to their owner: callers never see or affect another user's chats.
type Store interface {
	ListByUser(ctx context.Context, userId string) ([]Record, error)
	Upsert(ctx context.Context, record Record) error
	Delete(ctx context.Context, id string, userId string) error
}

// NewFileStore returns a Store backed by a single flat JSON file holding
// every user's chats. Writes within this process are serialized by a mutex;
// a concurrent writer in another process can still clobber the file, which
// is an accepted limitation of the flat-file design.
func NewFileStore(path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
			return nil, fmt.Errorf("failed to initialize chats file: %w", err)
		}
	}
	return &fileStore{path: path}, nil
}

type fileStore struct {
	mu   sync.Mutex
	path string
}

func (s *fileStore) ListByUser(ctx context.Context, userId string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	owned := make([]Record, 0)
	for _, record := range records {
		if record.UserId == userId {
			owned = append(owned, record)
		}
	}
	return owned, nil
}

func (s *fileStore) Upsert(ctx context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range records {
		if records[i].Id == record.Id && records[i].UserId == record.UserId {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return s.save(records)
}

func (s *fileStore) Delete(ctx context.Context, id string, userId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, record := range records {
		if record.Id == id && record.UserId == userId {
			continue
		}
		kept = append(kept, record)
	}
	return s.save(kept)
}

func (s *fileStore) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chats file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode chats file: %w", err)
	}
	return records, nil
}

func (s *fileStore) save(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chats: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write chats file: %w", err)
	}
	return nil
}

var _ Store = (*fileStore)(nil)
