package testutil

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/auditflow/auditflow/internal/config"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/storage"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/samber/lo"
)

var _ storage.FileStore = (*InMemoryFileStore)(nil)

// InMemoryFileStore implements storage.FileStore against a map. It applies
// the same validation as the local store so rejection paths can be tested
// without touching the filesystem.
type InMemoryFileStore struct {
	mu    sync.RWMutex
	cfg   config.StorageConfig
	files map[string][]byte

	// FailSave forces Save to fail; used to exercise cleanup paths
	FailSave bool
}

// NewInMemoryFileStore creates a new in-memory file store with default limits
func NewInMemoryFileStore() *InMemoryFileStore {
	return &InMemoryFileStore{
		cfg: config.StorageConfig{
			UploadDir:    "uploads",
			MaxFileSize:  config.DefaultMaxFileSize,
			AllowedTypes: config.DefaultAllowedTypes(),
		},
		files: make(map[string][]byte),
	}
}

func (s *InMemoryFileStore) Validate(fileName string, data []byte) (string, error) {
	if int64(len(data)) > s.cfg.MaxFileSize {
		return "", ierr.NewError("file too large").
			WithHintf("Files may not exceed %d bytes", s.cfg.MaxFileSize).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return "", ierr.NewError("unrecognized file type").
			WithHint("The file type could not be determined").
			Mark(ierr.ErrValidation)
	}

	if !lo.Contains(s.cfg.AllowedTypes, kind.MIME.Value) {
		return "", ierr.NewError("file type not allowed").
			WithHintf("Files of type %s are not accepted", kind.MIME.Value).
			Mark(ierr.ErrValidation)
	}

	return kind.MIME.Value, nil
}

func (s *InMemoryFileStore) Save(ctx context.Context, auditID, fileName string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSave {
		return "", ierr.NewError("storage unavailable").
			WithHint("Failed to store file").
			Mark(ierr.ErrSystem)
	}

	path := filepath.Join(s.cfg.UploadDir, auditID, fileName)
	s.files[path] = append([]byte{}, data...)
	return path, nil
}

func (s *InMemoryFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[path]
	if !ok {
		return nil, ierr.NewError("file not found").
			WithHint("The stored file no longer exists").
			Mark(ierr.ErrNotFound)
	}
	return append([]byte{}, data...), nil
}

func (s *InMemoryFileStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; !ok {
		return ierr.NewError("file not found").
			WithHint("The stored file no longer exists").
			Mark(ierr.ErrNotFound)
	}
	delete(s.files, path)
	return nil
}

// Exists reports whether a file is stored at the given path
func (s *InMemoryFileStore) Exists(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[path]
	return ok
}

// Clear removes all stored files
func (s *InMemoryFileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
	s.FailSave = false
}
