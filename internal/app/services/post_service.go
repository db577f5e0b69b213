package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/kaan/connectsphere/internal/app/auth"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/app/models/dto"
	"github.com/kaan/connectsphere/internal/app/repositories"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
	"github.com/kaan/connectsphere/internal/pkg/validation"
)

// mediaNormalizer resolves raw attachments into stored URLs and an
// aggregate media type.
type mediaNormalizer interface {
	Normalize(ctx context.Context, authorID int64, files []*multipart.FileHeader, rawURLs []string) ([]string, models.MediaType, error)
}

// announcementFanout broadcasts an announcement post to all other members.
type announcementFanout interface {
	FanOutAnnouncement(ctx context.Context, post *models.Post) (int64, error)
}

// PostService handles post creation, updates and listing. Creation runs
// as one sequential pipeline: validate, normalize media, persist, then
// fan out announcements as a best-effort follow-up.
type PostService struct {
	postRepo repositories.IPostRepository
	media    mediaNormalizer
	fanout   announcementFanout
	authz    *auth.AuthorizationService
	logger   zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.IPostRepository,
	media mediaNormalizer,
	fanout announcementFanout,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		media:    media,
		fanout:   fanout,
		authz:    authz,
		logger:   logger,
	}
}

// GetAvailablePostTypes resolves the post types the role may create
func (s *PostService) GetAvailablePostTypes(role models.RoleType) *dto.PostTypesResponse {
	return &dto.PostTypesResponse{Types: auth.AvailablePostTypes(role)}
}

// validatePostText trims title and content and checks their bounds.
func validatePostText(title, content string) (string, string, error) {
	trimmedTitle, ok := validation.TrimmedNonEmpty(title)
	if !ok {
		return "", "", apperrors.NewValidationError("title cannot be empty")
	}
	trimmedContent, ok := validation.TrimmedNonEmpty(content)
	if !ok {
		return "", "", apperrors.NewValidationError("content cannot be empty")
	}
	if !validation.WithinLength(trimmedTitle, validation.PostTitleMaxLength) {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("title cannot exceed %d characters", validation.PostTitleMaxLength))
	}
	if !validation.WithinLength(trimmedContent, validation.PostContentMaxLength) {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("content cannot exceed %d characters", validation.PostContentMaxLength))
	}
	return trimmedTitle, trimmedContent, nil
}

// resolvePostType parses the submitted type and re-validates it against
// the caller's role. Client-side filtering of the type selector is
// advisory only; this check is the authoritative one.
func resolvePostType(role models.RoleType, raw string) (models.PostType, error) {
	postType := models.PostType(strings.TrimSpace(raw))
	if !postType.Valid() {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown post type %q", raw))
	}
	if !auth.CanCreatePostType(role, postType) {
		return "", apperrors.NewCustomError(apperrors.ErrInvalidPostType,
			fmt.Sprintf("post type %q is not permitted for role %s", postType, role))
	}
	return postType, nil
}

// cleanSkills trims skill tags and drops empties and duplicates.
func cleanSkills(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(raw))
	skills := make([]string, 0, len(raw))
	for _, skill := range raw {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		skills = append(skills, trimmed)
	}
	if len(skills) == 0 {
		return nil
	}
	return skills
}

// CreatePost validates and persists a new post authored by the
// authenticated caller. The author is always taken from the auth
// context, never from the request body. When the post is an
// announcement, every other member is notified; a fan-out failure is
// logged but never fails the creation, since the post is already
// durable by then.
func (s *PostService) CreatePost(
	ctx context.Context,
	authorID int64,
	role models.RoleType,
	req *dto.CreatePostRequest,
	files []*multipart.FileHeader,
) (*dto.PostResponse, error) {
	title, content, err := validatePostText(req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	postType, err := resolvePostType(role, req.Type)
	if err != nil {
		return nil, err
	}

	visibility := models.Visibility(strings.TrimSpace(req.Visibility))
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown visibility %q", req.Visibility))
	}

	mediaURLs, mediaType, err := s.media.Normalize(ctx, authorID, files, req.MediaURLs)
	if err != nil {
		return nil, err
	}

	// Skills only apply to community posts. Supplied values for any
	// other type are dropped silently, not rejected.
	var skills []string
	if postType == models.PostTypeCommunity {
		skills = cleanSkills(req.TargetSkills)
	}

	post := &models.Post{
		AuthorID:     authorID,
		Title:        title,
		Content:      content,
		Type:         postType,
		MediaURLs:    mediaURLs,
		MediaType:    mediaType,
		TargetSkills: skills,
		Visibility:   visibility,
	}

	postID, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	post.ID = postID

	s.logger.Info().Int64("postID", postID).Int64("authorID", authorID).
		Str("type", string(postType)).Msg("Post created")

	var notified int64
	if postType == models.PostTypeAnnouncement {
		notified, err = s.fanout.FanOutAnnouncement(ctx, post)
		if err != nil {
			// The post is already created; the submitter still gets a
			// success. Fan-out failures are observable in logs only.
			s.logger.Warn().Err(err).Int64("postID", postID).Msg("Announcement fan-out failed")
			notified = 0
		}
	}

	resp := postResponse(post)
	resp.NotifiedMembers = int(notified)
	return resp, nil
}

// UpdatePost edits a post in place. Only title, content and type are
// mutable; author, media and creation time are never touched. Updates
// never trigger a fan-out, even for announcements.
func (s *PostService) UpdatePost(
	ctx context.Context,
	postID, userID int64,
	role models.RoleType,
	req *dto.UpdatePostRequest,
) (*dto.PostResponse, error) {
	if err := s.authz.ValidatePostOwnership(ctx, postID, userID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	title, content, err := validatePostText(req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	postType, err := resolvePostType(role, req.Type)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	post.Type = postType

	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	return postResponse(post), nil
}

// GetPost retrieves a single post, applying the viewer's visibility gates
func (s *PostService) GetPost(ctx context.Context, postID, viewerID int64, role models.RoleType) (*dto.PostResponse, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !auth.CanViewPost(viewerID, role, post) {
		// Hidden posts are indistinguishable from missing ones.
		return nil, apperrors.ErrPostNotFound
	}

	return postResponse(post), nil
}

// GetPosts retrieves a paginated, visibility-filtered list of posts
func (s *PostService) GetPosts(ctx context.Context, viewerID int64, role models.RoleType, filter *dto.PostFilterRequest) (*dto.PostListResponse, error) {
	params := repositories.PostListParams{
		ViewerID:   viewerID,
		ViewerRole: role,
		Page:       filter.Page,
		Size:       filter.PageSize,
	}

	if trimmed := strings.TrimSpace(filter.Type); trimmed != "" {
		postType := models.PostType(trimmed)
		if !postType.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown post type %q", trimmed))
		}
		params.Type = &postType
	}
	if filter.AuthorID > 0 {
		authorID := filter.AuthorID
		params.AuthorID = &authorID
	}

	posts, pagination, err := s.postRepo.GetAll(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		items = append(items, *postResponse(post))
	}

	return &dto.PostListResponse{
		Posts:          items,
		PaginationInfo: pagination,
	}, nil
}

func postResponse(post *models.Post) *dto.PostResponse {
	resp := &dto.PostResponse{
		ID:           post.ID,
		AuthorID:     post.AuthorID,
		Title:        post.Title,
		Content:      post.Content,
		Type:         post.Type,
		MediaURLs:    post.MediaURLs,
		MediaType:    post.MediaType,
		TargetSkills: post.TargetSkills,
		Visibility:   post.Visibility,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}
	if post.Author != nil {
		resp.AuthorName = strings.TrimSpace(post.Author.FirstName + " " + post.Author.LastName)
	}
	return resp
}
