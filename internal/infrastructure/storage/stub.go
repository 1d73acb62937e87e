package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	qualificationapp "github.com/servicehub/admin/internal/application/qualification"
)

// StubObjectStorage issues fake URLs and keeps uploads in memory. It backs
// development setups and tests where no S3 endpoint exists.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a stub storage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

func (s *StubObjectStorage) signed(op, key string, expiresAt time.Time) string {
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + op + "/" + key + "?" + q.Encode()
}

// GenerateUploadURL returns a fake presigned upload URL
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.signed("upload", key, expiresAt), expiresAt, nil
}

// GenerateDownloadURL returns a fake presigned download URL
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.signed("download", key, expiresAt), expiresAt, nil
}

// ObjectExists is always true so confirmation flows work without uploads
func (s *StubObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errKeyRequired
	}
	return true, nil
}

// Upload keeps data in memory
func (s *StubObjectStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// Object returns uploaded data, for tests
func (s *StubObjectStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}

var _ qualificationapp.AttachmentStorage = (*StubObjectStorage)(nil)
