package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"MarketDashboard/internal/model"
)

// errCorrupt marks a document that was read but could not be decoded.
var errCorrupt = errors.New("corrupt document")

// FileStore keeps every key in one JSON document on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// readAll returns an empty document if the file doesn't exist.
func (s *FileStore) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", s.path, errCorrupt, err)
	}
	return doc, nil
}

func (s *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readAll()
	if err != nil {
		return nil, model.Fault(model.KindPersistence, "file load", err)
	}
	raw, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, model.Fault(model.KindPersistence, "file load", err)
	}
	return buf.Bytes(), nil
}

// Save stores value under key. value must be valid JSON.
func (s *FileStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !json.Valid(value) {
		return model.Faultf(model.KindPersistence, "file save", "value for %q is not valid JSON", key)
	}
	doc, err := s.readAll()
	switch {
	case errors.Is(err, errCorrupt):
		// A corrupt document is replaced rather than blocking every later save.
		doc = map[string]json.RawMessage{}
	case err != nil:
		return model.Fault(model.KindPersistence, "file save", err)
	}
	doc[key] = json.RawMessage(value)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return model.Fault(model.KindPersistence, "file save", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return model.Fault(model.KindPersistence, "file save", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return model.Fault(model.KindPersistence, "file save", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
