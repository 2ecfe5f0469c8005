package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

const octetStream = "application/octet-stream"

type memoryBlob struct {
	contentType string
	data        []byte
}

// MemoryStore keeps blobs in process memory. It backs local development and
// tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]memoryBlob)}
}

func (s *MemoryStore) Upload(ctx context.Context, name, contentType string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.blobs[id] = memoryBlob{contentType: contentType, data: data}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Open(ctx context.Context, id string) (*Blob, error) {
	s.mu.RLock()
	b, ok := s.blobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrBlobNotFound
	}
	return &Blob{
		ContentType: b.contentType,
		Length:      int64(len(b.data)),
		Body:        io.NopCloser(bytes.NewReader(b.data)),
	}, nil
}

// Len reports how many blobs are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
