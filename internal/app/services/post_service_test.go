package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/kaan/connectsphere/internal/app/auth"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/app/models/dto"
	"github.com/kaan/connectsphere/internal/app/repositories"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
)

// fakePostRepo keeps posts in memory and records writes.
type fakePostRepo struct {
	posts     map[int64]*models.Post
	nextID    int64
	createErr error
	updateErr error
	created   []*models.Post
	updated   []*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*models.Post), nextID: 1}
}

func (f *fakePostRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	stored := *post
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.posts[id] = &stored
	f.created = append(f.created, &stored)
	return id, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.posts[post.ID]; !ok {
		return apperrors.ErrPostNotFound
	}
	// Mirrors the SQL RETURNING clause: the store's new timestamp is
	// scanned back into the model.
	post.UpdatedAt = time.Now()
	stored := *post
	f.posts[post.ID] = &stored
	f.updated = append(f.updated, &stored)
	return nil
}

func (f *fakePostRepo) GetAll(ctx context.Context, params repositories.PostListParams) ([]*models.Post, dto.PaginationInfo, error) {
	posts := make([]*models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		posts = append(posts, p)
	}
	return posts, dto.PaginationInfo{CurrentPage: params.Page, PageSize: params.Size, TotalItems: int64(len(posts))}, nil
}

// fakeMedia returns canned normalization results.
type fakeMedia struct {
	urls      []string
	mediaType models.MediaType
	err       error
	calls     int
}

func (f *fakeMedia) Normalize(ctx context.Context, authorID int64, files []*multipart.FileHeader, rawURLs []string) ([]string, models.MediaType, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	if f.mediaType == "" {
		return nil, models.MediaTypeText, nil
	}
	return f.urls, f.mediaType, nil
}

// fakeFanout records fan-out calls.
type fakeFanout struct {
	notified int64
	err      error
	calls    []*models.Post
}

func (f *fakeFanout) FanOutAnnouncement(ctx context.Context, post *models.Post) (int64, error) {
	f.calls = append(f.calls, post)
	if f.err != nil {
		return 0, f.err
	}
	return f.notified, nil
}

func newTestPostService(repo *fakePostRepo, media *fakeMedia, fanout *fakeFanout) *PostService {
	return NewPostService(repo, media, fanout, auth.NewAuthorizationService(repo), zerolog.Nop())
}

func createReq(title, content, postType string) *dto.CreatePostRequest {
	return &dto.CreatePostRequest{Title: title, Content: content, Type: postType}
}

func TestCreatePostTrimsTitleAndContent(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

	resp, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq("  Hello  ", "  World  ", "common"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "Hello" || resp.Content != "World" {
		t.Errorf("not trimmed: title=%q content=%q", resp.Title, resp.Content)
	}
}

func TestCreatePostRejectsBlankFields(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "", "content"},
		{"whitespace title", "   ", "content"},
		{"empty content", "title", ""},
		{"whitespace content", "title", "\t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakePostRepo()
			media := &fakeMedia{}
			svc := newTestPostService(repo, media, &fakeFanout{})

			_, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
				createReq(tt.title, tt.content, "common"), nil)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("error = %v, want ErrValidationFailed", err)
			}
			if len(repo.created) != 0 {
				t.Error("nothing should be persisted on validation failure")
			}
			if media.calls != 0 {
				t.Error("media should not be normalized on validation failure")
			}
		})
	}
}

func TestCreatePostRejectsOverlongFields(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

	longTitle := strings.Repeat("a", 201)
	if _, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq(longTitle, "content", "common"), nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("overlong title: error = %v, want ErrValidationFailed", err)
	}

	longContent := strings.Repeat("b", 2001)
	if _, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq("title", longContent, "common"), nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("overlong content: error = %v, want ErrValidationFailed", err)
	}
}

func TestCreatePostReValidatesTypeAgainstRole(t *testing.T) {
	repo := newFakePostRepo()
	fanout := &fakeFanout{}
	svc := newTestPostService(repo, &fakeMedia{}, fanout)

	// A student submitting an announcement, as if the client-side type
	// filter had been bypassed.
	_, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq("title", "content", "announcement"), nil)
	if !errors.Is(err, apperrors.ErrInvalidPostType) {
		t.Fatalf("error = %v, want ErrInvalidPostType", err)
	}
	if len(repo.created) != 0 {
		t.Error("no post should be persisted")
	}
	if len(fanout.calls) != 0 {
		t.Error("no fan-out should run")
	}
}

func TestCreatePostRejectsUnknownType(t *testing.T) {
	svc := newTestPostService(newFakePostRepo(), &fakeMedia{}, &fakeFanout{})

	_, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq("title", "content", "garbage"), nil)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("error = %v, want ErrValidationFailed", err)
	}
}

func TestCreatePostAuthorFromContext(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

	resp, err := svc.CreatePost(context.Background(), 42, models.RoleAlumni,
		createReq("title", "content", "common"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AuthorID != 42 {
		t.Errorf("author = %d, want 42", resp.AuthorID)
	}
	if repo.created[0].AuthorID != 42 {
		t.Errorf("persisted author = %d, want 42", repo.created[0].AuthorID)
	}
}

func TestCreatePostSkillsOnlyForCommunity(t *testing.T) {
	skills := []string{" go ", "go", "", "sql"}

	tests := []struct {
		name     string
		postType string
		want     []string
	}{
		{"community keeps cleaned skills", "community", []string{"go", "sql"}},
		{"common drops skills silently", "common", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakePostRepo()
			svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

			req := createReq("title", "content", tt.postType)
			req.TargetSkills = skills
			resp, err := svc.CreatePost(context.Background(), 1, models.RoleStudent, req, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp.TargetSkills) != len(tt.want) {
				t.Fatalf("skills = %v, want %v", resp.TargetSkills, tt.want)
			}
			for i, s := range tt.want {
				if resp.TargetSkills[i] != s {
					t.Errorf("skills = %v, want %v", resp.TargetSkills, tt.want)
				}
			}
		})
	}
}

func TestCreatePostMediaFailureAbortsCreation(t *testing.T) {
	repo := newFakePostRepo()
	media := &fakeMedia{err: apperrors.NewMediaUploadError("a.png", errors.New("storage down"))}
	svc := newTestPostService(repo, media, &fakeFanout{})

	_, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq("title", "content", "common"), nil)
	if !errors.Is(err, apperrors.ErrMediaUploadFailed) {
		t.Fatalf("error = %v, want ErrMediaUploadFailed", err)
	}
	if len(repo.created) != 0 {
		t.Error("post must not be created when media normalization fails")
	}
}

func TestCreatePostPersistsNormalizedMedia(t *testing.T) {
	repo := newFakePostRepo()
	media := &fakeMedia{urls: []string{"https://cdn.test/a.png", "https://cdn.test/b.mp4"}, mediaType: models.MediaTypeMixed}
	svc := newTestPostService(repo, media, &fakeFanout{})

	resp, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq("title", "content", "common"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.MediaType != models.MediaTypeMixed {
		t.Errorf("media type = %q, want mixed", resp.MediaType)
	}
	if len(resp.MediaURLs) != 2 {
		t.Errorf("media urls = %v", resp.MediaURLs)
	}
}

func TestCreatePostAnnouncementFansOut(t *testing.T) {
	repo := newFakePostRepo()
	fanout := &fakeFanout{notified: 5}
	svc := newTestPostService(repo, &fakeMedia{}, fanout)

	resp, err := svc.CreatePost(context.Background(), 1, models.RoleAdmin,
		createReq("Maintenance window", "Details", "announcement"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fanout.calls) != 1 {
		t.Fatalf("fan-out calls = %d, want 1", len(fanout.calls))
	}
	if fanout.calls[0].ID != resp.ID {
		t.Errorf("fan-out ran before the post had its id")
	}
	if resp.NotifiedMembers != 5 {
		t.Errorf("notified = %d, want 5", resp.NotifiedMembers)
	}
}

func TestCreatePostNonAnnouncementNeverFansOut(t *testing.T) {
	fanout := &fakeFanout{notified: 5}
	svc := newTestPostService(newFakePostRepo(), &fakeMedia{}, fanout)

	resp, err := svc.CreatePost(context.Background(), 1, models.RoleAdmin,
		createReq("title", "content", "common"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fanout.calls) != 0 {
		t.Errorf("fan-out calls = %d, want 0", len(fanout.calls))
	}
	if resp.NotifiedMembers != 0 {
		t.Errorf("notified = %d, want 0", resp.NotifiedMembers)
	}
}

func TestCreatePostFanoutFailureStillSucceeds(t *testing.T) {
	repo := newFakePostRepo()
	fanout := &fakeFanout{err: apperrors.NewFanoutError(errors.New("db gone"))}
	svc := newTestPostService(repo, &fakeMedia{}, fanout)

	resp, err := svc.CreatePost(context.Background(), 1, models.RoleAdmin,
		createReq("title", "content", "announcement"), nil)
	if err != nil {
		t.Fatalf("fan-out failure must not fail the creation, got: %v", err)
	}
	if resp.NotifiedMembers != 0 {
		t.Errorf("notified = %d, want 0 after fan-out failure", resp.NotifiedMembers)
	}
	if len(repo.created) != 1 {
		t.Error("post should remain created")
	}
}

func TestCreatePostPersistenceFailure(t *testing.T) {
	repo := newFakePostRepo()
	repo.createErr = errors.New("connection refused")
	fanout := &fakeFanout{}
	svc := newTestPostService(repo, &fakeMedia{}, fanout)

	_, err := svc.CreatePost(context.Background(), 1, models.RoleAdmin,
		createReq("title", "content", "announcement"), nil)
	if !errors.Is(err, apperrors.ErrPersistenceFailed) {
		t.Fatalf("error = %v, want ErrPersistenceFailed", err)
	}
	if len(fanout.calls) != 0 {
		t.Error("fan-out must not run when the post was never persisted")
	}
}

func TestCreatePostDefaultsVisibility(t *testing.T) {
	repo := newFakePostRepo()
	svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

	resp, err := svc.CreatePost(context.Background(), 1, models.RoleStudent,
		createReq("title", "content", "common"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Visibility != models.VisibilityPublic {
		t.Errorf("visibility = %q, want public", resp.Visibility)
	}

	req := createReq("title", "content", "common")
	req.Visibility = "sideways"
	if _, err := svc.CreatePost(context.Background(), 1, models.RoleStudent, req, nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("unknown visibility: error = %v, want ErrValidationFailed", err)
	}
}

func seedPost(repo *fakePostRepo, authorID int64) *models.Post {
	post := &models.Post{
		AuthorID:   authorID,
		Title:      "Original",
		Content:    "Original content",
		Type:       models.PostTypeCommon,
		MediaURLs:  []string{"https://cdn.test/orig.png"},
		MediaType:  models.MediaTypeImage,
		Visibility: models.VisibilityPublic,
	}
	id, _ := repo.Create(context.Background(), post)
	return repo.posts[id]
}

func TestUpdatePostOnlyMutatesTextAndType(t *testing.T) {
	repo := newFakePostRepo()
	stored := seedPost(repo, 1)
	stale := time.Now().Add(-time.Hour)
	stored.UpdatedAt = stale
	svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

	resp, err := svc.UpdatePost(context.Background(), stored.ID, 1, models.RoleStudent,
		&dto.UpdatePostRequest{Title: " New title ", Content: "New content", Type: "student_only"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "New title" || resp.Content != "New content" || resp.Type != models.PostTypeStudentOnly {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !resp.UpdatedAt.After(stale) {
		t.Error("response should carry the store's refreshed updated_at")
	}

	after := repo.posts[stored.ID]
	if after.AuthorID != stored.AuthorID {
		t.Error("author must never change on update")
	}
	if len(after.MediaURLs) != 1 || after.MediaURLs[0] != "https://cdn.test/orig.png" {
		t.Error("media must never change on update")
	}
	if !after.CreatedAt.Equal(stored.CreatedAt) {
		t.Error("creation time must never change on update")
	}
}

func TestUpdatePostRejectsNonOwner(t *testing.T) {
	repo := newFakePostRepo()
	stored := seedPost(repo, 1)
	svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

	_, err := svc.UpdatePost(context.Background(), stored.ID, 2, models.RoleStudent,
		&dto.UpdatePostRequest{Title: "x", Content: "y", Type: "common"})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("error = %v, want ErrPermissionDenied", err)
	}
	if len(repo.updated) != 0 {
		t.Error("nothing should be written")
	}
}

func TestUpdatePostMissingPost(t *testing.T) {
	svc := newTestPostService(newFakePostRepo(), &fakeMedia{}, &fakeFanout{})

	_, err := svc.UpdatePost(context.Background(), 99, 1, models.RoleStudent,
		&dto.UpdatePostRequest{Title: "x", Content: "y", Type: "common"})
	if !errors.Is(err, apperrors.ErrPostNotFound) {
		t.Errorf("error = %v, want ErrPostNotFound", err)
	}
}

func TestUpdatePostNeverFansOut(t *testing.T) {
	repo := newFakePostRepo()
	fanout := &fakeFanout{notified: 3}
	svc := newTestPostService(repo, &fakeMedia{}, fanout)

	resp, err := svc.CreatePost(context.Background(), 1, models.RoleAdmin,
		createReq("First", "content", "announcement"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fanout.calls) != 1 {
		t.Fatalf("creation should fan out once")
	}

	if _, err := svc.UpdatePost(context.Background(), resp.ID, 1, models.RoleAdmin,
		&dto.UpdatePostRequest{Title: "Edited", Content: "content", Type: "announcement"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fanout.calls) != 1 {
		t.Error("updates must never fan out, even for announcements")
	}
}

func TestGetPostHiddenLooksMissing(t *testing.T) {
	repo := newFakePostRepo()
	post := seedPost(repo, 1)
	post.Type = models.PostTypeStudentOnly
	svc := newTestPostService(repo, &fakeMedia{}, &fakeFanout{})

	// An alumni viewer must not learn the post exists.
	_, err := svc.GetPost(context.Background(), post.ID, 2, models.RoleAlumni)
	if !errors.Is(err, apperrors.ErrPostNotFound) {
		t.Errorf("error = %v, want ErrPostNotFound", err)
	}

	// The author still sees it.
	if _, err := svc.GetPost(context.Background(), post.ID, 1, models.RoleAlumni); err != nil {
		t.Errorf("author should see own post, got: %v", err)
	}
}

func TestGetPostsRejectsUnknownTypeFilter(t *testing.T) {
	svc := newTestPostService(newFakePostRepo(), &fakeMedia{}, &fakeFanout{})

	_, err := svc.GetPosts(context.Background(), 1, models.RoleStudent,
		&dto.PostFilterRequest{Type: "bogus", Page: 1, PageSize: 10})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("error = %v, want ErrValidationFailed", err)
	}
}

func TestGetAvailablePostTypes(t *testing.T) {
	svc := newTestPostService(newFakePostRepo(), &fakeMedia{}, &fakeFanout{})

	types := svc.GetAvailablePostTypes(models.RoleStudent).Types
	for _, opt := range types {
		if opt.Type == models.PostTypeAnnouncement {
			t.Error("student must not be offered announcement")
		}
	}
}
