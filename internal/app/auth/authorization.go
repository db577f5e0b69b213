package auth

import (
	"context"
	"errors"

	"github.com/kaan/connectsphere/internal/app/repositories"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
	"github.com/kaan/connectsphere/internal/pkg/logger"
)

// AuthorizationService handles authorization operations
type AuthorizationService struct {
	postRepo repositories.IPostRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(postRepo repositories.IPostRepository) *AuthorizationService {
	return &AuthorizationService{
		postRepo: postRepo,
	}
}

// ValidatePostOwnership validates that the user authored the post.
// Returns ErrPostNotFound when the post does not exist and
// ErrPermissionDenied when it belongs to someone else.
func (s *AuthorizationService) ValidatePostOwnership(ctx context.Context, postID, userID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return err
		}
		logger.Error().Err(err).Int64("postID", postID).Msg("Error getting post during ownership validation")
		return err
	}

	if post.AuthorID != userID {
		return apperrors.NewForbiddenError("only the author can modify this post")
	}

	return nil
}
