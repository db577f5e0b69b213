package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
	"github.com/kaan/connectsphere/internal/pkg/filestorage"
)

// mediaKind is the per-attachment classification feeding the aggregate
// media type.
type mediaKind int

const (
	kindImage mediaKind = iota
	kindVideo
)

// maxAttachments bounds the total attachment count per post, files and
// direct URLs combined.
const maxAttachments = 9

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".mkv":  true,
}

// fileKind classifies an attachment by its filename extension. Anything
// not recognized as video counts as an image, matching how direct URLs
// are treated.
func fileKind(filename string) mediaKind {
	ext := strings.ToLower(filepath.Ext(filename))
	if videoExtensions[ext] {
		return kindVideo
	}
	return kindImage
}

// classifyKinds reduces the full attachment set to an aggregate media
// type. It is recomputed from scratch on every call so the result never
// depends on the order attachments were added or removed.
func classifyKinds(kinds []mediaKind) models.MediaType {
	if len(kinds) == 0 {
		return models.MediaTypeText
	}

	hasImage, hasVideo := false, false
	for _, k := range kinds {
		switch k {
		case kindImage:
			hasImage = true
		case kindVideo:
			hasVideo = true
		}
	}

	switch {
	case hasImage && hasVideo:
		return models.MediaTypeMixed
	case hasVideo:
		return models.MediaTypeVideo
	default:
		return models.MediaTypeImage
	}
}

// MediaService uploads post attachments and classifies the aggregate
// media type of a post.
type MediaService struct {
	storage filestorage.BlobStorage
	logger  zerolog.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(storage filestorage.BlobStorage, logger zerolog.Logger) *MediaService {
	return &MediaService{
		storage: storage,
		logger:  logger,
	}
}

// Normalize uploads the raw attachment files, merges in any directly
// supplied URLs and derives the aggregate media type. A single upload
// failure aborts the whole normalization; the caller must not create
// the post. Direct URLs are not content sniffed and count as images.
func (s *MediaService) Normalize(ctx context.Context, authorID int64, files []*multipart.FileHeader, rawURLs []string) ([]string, models.MediaType, error) {
	if len(files)+len(rawURLs) > maxAttachments {
		return nil, "", apperrors.NewValidationError(fmt.Sprintf("a post can have at most %d attachments", maxAttachments))
	}

	urls := make([]string, 0, len(files)+len(rawURLs))
	kinds := make([]mediaKind, 0, len(files)+len(rawURLs))

	for _, fileHeader := range files {
		url, err := s.uploadOne(ctx, authorID, fileHeader)
		if err != nil {
			s.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Attachment upload failed")
			return nil, "", apperrors.NewMediaUploadError(fileHeader.Filename, err)
		}
		urls = append(urls, url)
		kinds = append(kinds, fileKind(fileHeader.Filename))
	}

	for _, rawURL := range rawURLs {
		trimmed := strings.TrimSpace(rawURL)
		if trimmed == "" {
			continue
		}
		urls = append(urls, trimmed)
		kinds = append(kinds, kindImage)
	}

	return urls, classifyKinds(kinds), nil
}

// uploadOne stores a single attachment under a path derived from the
// author and the current time, keeping the original extension.
func (s *MediaService) uploadOne(ctx context.Context, authorID int64, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open attachment: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	path := fmt.Sprintf("posts/%d_%d%s", authorID, time.Now().UnixNano(), ext)

	url, err := s.storage.Upload(ctx, path, src)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("path", path).Str("url", url).Msg("Attachment uploaded")
	return url, nil
}
