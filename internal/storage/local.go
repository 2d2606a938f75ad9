package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/auditflow/auditflow/internal/config"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/samber/lo"
)

// FileStore persists attachment bytes under a per-audit directory.
// Validation (size cap, MIME allow list) runs before any filesystem write.
type FileStore interface {
	Validate(fileName string, data []byte) (mimeType string, err error)
	Save(ctx context.Context, auditID, fileName string, data []byte) (path string, err error)
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

type localFileStore struct {
	cfg    *config.StorageConfig
	logger *logger.Logger
}

func NewLocalFileStore(cfg *config.Configuration, logger *logger.Logger) FileStore {
	return &localFileStore{
		cfg:    &cfg.Storage,
		logger: logger,
	}
}

// Validate sniffs the file's real MIME type and checks it against the allow
// list and the size cap. The extension is not trusted.
func (s *localFileStore) Validate(fileName string, data []byte) (string, error) {
	if int64(len(data)) > s.cfg.MaxFileSize {
		return "", ierr.NewError("file too large").
			WithHintf("Files may not exceed %d bytes", s.cfg.MaxFileSize).
			WithReportableDetails(map[string]any{
				"file_name": fileName,
				"file_size": len(data),
				"max_size":  s.cfg.MaxFileSize,
			}).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return "", ierr.NewError("unrecognized file type").
			WithHint("The file type could not be determined").
			WithReportableDetails(map[string]any{
				"file_name": fileName,
			}).
			Mark(ierr.ErrValidation)
	}

	if !lo.Contains(s.cfg.AllowedTypes, kind.MIME.Value) {
		return "", ierr.NewError("file type not allowed").
			WithHintf("Files of type %s are not accepted", kind.MIME.Value).
			WithReportableDetails(map[string]any{
				"file_name": fileName,
				"file_type": kind.MIME.Value,
				"allowed":   s.cfg.AllowedTypes,
			}).
			Mark(ierr.ErrValidation)
	}

	return kind.MIME.Value, nil
}

func (s *localFileStore) Save(ctx context.Context, auditID, fileName string, data []byte) (string, error) {
	dir := filepath.Join(s.cfg.UploadDir, auditID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to prepare upload directory").
			Mark(ierr.ErrSystem)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Errorw("failed to write attachment file",
			"path", path,
			"error", err,
		)
		return "", ierr.WithError(err).
			WithHint("Failed to store file").
			Mark(ierr.ErrSystem)
	}

	s.logger.Debugw("stored attachment file", "path", path, "size", len(data))
	return path, nil
}

func (s *localFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ierr.NewError("file not found").
				WithHint("The stored file no longer exists").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to read file").
			Mark(ierr.ErrSystem)
	}

	return data, nil
}

func (s *localFileStore) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ierr.NewError("file not found").
				WithHint("The stored file no longer exists").
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to remove file").
			Mark(ierr.ErrSystem)
	}

	return nil
}
