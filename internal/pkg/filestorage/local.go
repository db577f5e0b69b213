package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaan/connectsphere/internal/pkg/logger"
)

// LocalStorage stores blobs on the local filesystem and serves them
// through the static /uploads route.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // base URL prepended to returned file paths
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// Upload writes the blob to basePath/path, creating subdirectories as needed.
func (ls *LocalStorage) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create storage subdirectory")
		return "", fmt.Errorf("failed to create storage subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy blob content")
		// Remove the partially written file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save blob content: %w", err)
	}

	url := ls.PublicURL(path)
	logger.Info().Str("path", path).Str("url", url).Msg("Blob stored")
	return url, nil
}

// PublicURL resolves the public URI for a stored path.
func (ls *LocalStorage) PublicURL(path string) string {
	if ls.baseURL != "" {
		return strings.TrimRight(ls.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return "uploads/" + strings.TrimLeft(path, "/")
}

// Delete removes a stored blob. Missing blobs are treated as already deleted.
func (ls *LocalStorage) Delete(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(path))

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("Blob to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete blob")
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("Blob deleted")
	return nil
}
