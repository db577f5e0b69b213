package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/kaan/connectsphere/internal/pkg/logger"
)

// CloudinaryStorage stores blobs in Cloudinary. Selected over LocalStorage
// via the storage.driver config key.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string // top-level folder for all stored blobs
}

// NewCloudinaryStorage creates a CloudinaryStorage from a CLOUDINARY_URL style URL.
func NewCloudinaryStorage(cloudinaryURL, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}

	if folder == "" {
		folder = "connectsphere"
	}

	return &CloudinaryStorage{
		cld:    cld,
		folder: folder,
	}, nil
}

// publicID maps a storage path to a Cloudinary public ID (no extension;
// Cloudinary keys assets by ID and delivers the format separately).
func (cs *CloudinaryStorage) publicID(p string) string {
	trimmed := strings.TrimLeft(p, "/")
	ext := path.Ext(trimmed)
	return strings.TrimSuffix(trimmed, ext)
}

// Upload sends the blob to Cloudinary and returns the delivery URL.
func (cs *CloudinaryStorage) Upload(ctx context.Context, p string, r io.Reader) (string, error) {
	uploadParams := uploader.UploadParams{
		Folder:   cs.folder,
		PublicID: cs.publicID(p),
	}

	result, err := cs.cld.Upload.Upload(ctx, r, uploadParams)
	if err != nil {
		logger.Error().Err(err).Str("path", p).Msg("Cloudinary upload failed")
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}

	logger.Info().Str("path", p).Str("url", result.SecureURL).Msg("Blob stored in Cloudinary")
	return result.SecureURL, nil
}

// PublicURL resolves the delivery URL for an already stored path.
func (cs *CloudinaryStorage) PublicURL(p string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s",
		cs.cld.Config.Cloud.CloudName, cs.folder, cs.publicID(p))
}

// Delete removes a stored blob from Cloudinary.
func (cs *CloudinaryStorage) Delete(ctx context.Context, p string) error {
	_, err := cs.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: cs.folder + "/" + cs.publicID(p),
	})
	if err != nil {
		logger.Error().Err(err).Str("path", p).Msg("Cloudinary destroy failed")
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	return nil
}
