package profile

import (
	"bytes"
	"context"
	"io"
	"sync"
)

type photo struct {
	data        []byte
	contentType string
}

// InMemoryStorage is the fallback photo store when no bucket is configured.
type InMemoryStorage struct {
	mu     sync.Mutex
	byUser map[string]photo
}

// NewInMemoryStorage constructs an in-memory Storage implementation.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{byUser: make(map[string]photo)}
}

func (s *InMemoryStorage) Put(ctx context.Context, userID, contentType string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[userID] = photo{data: data, contentType: contentType}
	return nil
}

func (s *InMemoryStorage) Get(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byUser[userID]
	if !ok {
		return nil, "", ErrPhotoNotFound
	}
	return io.NopCloser(bytes.NewReader(p.data)), p.contentType, nil
}
