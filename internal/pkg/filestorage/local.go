package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// LocalStorage serves and stores protected resource files on the local
// filesystem, one directory per resource slug.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Resolve maps a resource slug and relative path to an absolute path under
// the storage root. Paths escaping the resource's directory are rejected.
func (ls *LocalStorage) Resolve(resourceSlug, relPath string) (string, error) {
	relPath = strings.TrimPrefix(relPath, "/")
	if relPath == "" {
		return "", apperrors.NewValidationError("path", "file path cannot be empty")
	}

	resourceRoot := filepath.Join(ls.basePath, resourceSlug)
	full := filepath.Join(resourceRoot, filepath.FromSlash(relPath))

	// filepath.Join cleans the path; anything still outside the resource
	// root was a traversal attempt.
	if !strings.HasPrefix(full, resourceRoot+string(os.PathSeparator)) {
		return "", apperrors.NewValidationError("path", "invalid file path")
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", apperrors.ErrNotFound
	}

	return full, nil
}

// SaveFile stores an uploaded file under the resource's directory, keeping
// the original filename, and returns the relative path.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, resourceSlug string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	name := filepath.Base(fileHeader.Filename)
	if name == "." || name == string(os.PathSeparator) {
		return "", apperrors.NewValidationError("file", "invalid filename")
	}

	resourceRoot := filepath.Join(ls.basePath, resourceSlug)
	if err := os.MkdirAll(resourceRoot, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", resourceRoot).Msg("Failed to create resource directory")
		return "", fmt.Errorf("failed to create resource directory: %w", err)
	}

	dstPath := filepath.Join(resourceRoot, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("resource", resourceSlug).Str("file", name).Msg("File saved")
	return name, nil
}

// DeleteFile removes a stored file. A missing file is treated as success.
func (ls *LocalStorage) DeleteFile(resourceSlug, relPath string) error {
	full, err := ls.Resolve(resourceSlug, relPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := os.Remove(full); err != nil {
		logger.Error().Err(err).Str("path", full).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
