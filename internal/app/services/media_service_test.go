package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
)

// fakeBlobStorage records uploads and can be told to fail on a
// particular path suffix.
type fakeBlobStorage struct {
	uploads    []string
	failSuffix string
}

func (f *fakeBlobStorage) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	if f.failSuffix != "" && strings.HasSuffix(path, f.failSuffix) {
		return "", errors.New("storage unavailable")
	}
	f.uploads = append(f.uploads, path)
	return "https://cdn.test/" + path, nil
}

func (f *fakeBlobStorage) PublicURL(path string) string { return "https://cdn.test/" + path }

func (f *fakeBlobStorage) Delete(ctx context.Context, path string) error { return nil }

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		name  string
		kinds []mediaKind
		want  models.MediaType
	}{
		{"no attachments", nil, models.MediaTypeText},
		{"single image", []mediaKind{kindImage}, models.MediaTypeImage},
		{"multiple images", []mediaKind{kindImage, kindImage, kindImage}, models.MediaTypeImage},
		{"single video", []mediaKind{kindVideo}, models.MediaTypeVideo},
		{"multiple videos", []mediaKind{kindVideo, kindVideo}, models.MediaTypeVideo},
		{"image then video", []mediaKind{kindImage, kindVideo}, models.MediaTypeMixed},
		{"video then image", []mediaKind{kindVideo, kindImage}, models.MediaTypeMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyKinds(tt.kinds); got != tt.want {
				t.Errorf("classifyKinds(%v) = %q, want %q", tt.kinds, got, tt.want)
			}
		})
	}
}

func TestClassifyKindsRecomputesAfterRemoval(t *testing.T) {
	// A mixed set that loses its last video must drop back to image,
	// and one that loses its last image must drop back to video.
	mixed := []mediaKind{kindImage, kindVideo}
	if got := classifyKinds(mixed); got != models.MediaTypeMixed {
		t.Fatalf("expected mixed, got %q", got)
	}
	if got := classifyKinds(mixed[:1]); got != models.MediaTypeImage {
		t.Errorf("after removing video: got %q, want image", got)
	}
	if got := classifyKinds(mixed[1:]); got != models.MediaTypeVideo {
		t.Errorf("after removing image: got %q, want video", got)
	}
	if got := classifyKinds(mixed[:0]); got != models.MediaTypeText {
		t.Errorf("after removing everything: got %q, want text", got)
	}
}

func TestFileKind(t *testing.T) {
	tests := []struct {
		filename string
		want     mediaKind
	}{
		{"clip.mp4", kindVideo},
		{"CLIP.MP4", kindVideo},
		{"movie.mov", kindVideo},
		{"talk.webm", kindVideo},
		{"photo.jpg", kindImage},
		{"diagram.png", kindImage},
		{"noextension", kindImage},
		{"archive.pdf", kindImage},
	}

	for _, tt := range tests {
		if got := fileKind(tt.filename); got != tt.want {
			t.Errorf("fileKind(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestNormalizeURLsOnly(t *testing.T) {
	storage := &fakeBlobStorage{}
	svc := NewMediaService(storage, zerolog.Nop())

	urls, mediaType, err := svc.Normalize(context.Background(), 7, nil, []string{
		"https://example.com/a.png",
		"  https://example.com/b.png  ",
		"   ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d: %v", len(urls), urls)
	}
	if urls[1] != "https://example.com/b.png" {
		t.Errorf("url not trimmed: %q", urls[1])
	}
	// Direct URLs are not sniffed; they count as images.
	if mediaType != models.MediaTypeImage {
		t.Errorf("media type = %q, want image", mediaType)
	}
	if len(storage.uploads) != 0 {
		t.Errorf("no uploads expected for direct URLs, got %d", len(storage.uploads))
	}
}

func TestNormalizeNoMediaIsText(t *testing.T) {
	svc := NewMediaService(&fakeBlobStorage{}, zerolog.Nop())

	urls, mediaType, err := svc.Normalize(context.Background(), 7, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected no urls, got %v", urls)
	}
	if mediaType != models.MediaTypeText {
		t.Errorf("media type = %q, want text", mediaType)
	}
}

func TestNormalizeUploadFailureAbortsAll(t *testing.T) {
	fh := &multipart.FileHeader{Filename: "broken.mp4"}
	svc := NewMediaService(&fakeBlobStorage{failSuffix: ".mp4"}, zerolog.Nop())

	urls, _, err := svc.Normalize(context.Background(), 7, []*multipart.FileHeader{fh}, []string{"https://example.com/a.png"})
	if err == nil {
		t.Fatal("expected error when upload fails")
	}
	if !errors.Is(err, apperrors.ErrMediaUploadFailed) {
		t.Errorf("error = %v, want ErrMediaUploadFailed", err)
	}
	if !strings.Contains(err.Error(), "broken.mp4") {
		t.Errorf("error should name the failed file, got: %v", err)
	}
	if urls != nil {
		t.Errorf("no urls should be returned on failure, got %v", urls)
	}
}

func TestNormalizeRejectsTooManyAttachments(t *testing.T) {
	svc := NewMediaService(&fakeBlobStorage{}, zerolog.Nop())

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = "https://example.com/a.png"
	}
	if _, _, err := svc.Normalize(context.Background(), 7, nil, urls); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("error = %v, want ErrValidationFailed", err)
	}
}
