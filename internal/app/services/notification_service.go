package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/app/models/dto"
	"github.com/kaan/connectsphere/internal/app/repositories"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
)

// NotificationService handles announcement fan-out and notification queries
type NotificationService struct {
	notificationRepo repositories.INotificationRepository
	userRepo         repositories.IUserRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo repositories.INotificationRepository,
	userRepo repositories.IUserRepository,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// FanOutAnnouncement creates one notification per member other than the
// post's author and returns how many were created. The count is advisory.
// Errors are reported as fan-out failures so the caller can log them
// without failing the publication that triggered them.
func (s *NotificationService) FanOutAnnouncement(ctx context.Context, post *models.Post) (int64, error) {
	memberIDs, err := s.userRepo.ListMemberIDs(ctx, post.AuthorID)
	if err != nil {
		return 0, apperrors.NewFanoutError(err)
	}

	if len(memberIDs) == 0 {
		s.logger.Debug().Int64("postID", post.ID).Msg("No members to notify for announcement")
		return 0, nil
	}

	content := models.AnnouncementContent(post.Title)
	notifications := make([]*models.Notification, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		postID := post.ID
		notifications = append(notifications, &models.Notification{
			UserID:    memberID,
			Type:      models.NotificationTypeAnnouncement,
			Title:     models.AnnouncementTitle,
			Content:   content,
			RelatedID: &postID,
		})
	}

	created, err := s.notificationRepo.CreateBatch(ctx, notifications)
	if err != nil {
		return 0, apperrors.NewFanoutError(err)
	}

	s.logger.Info().Int64("postID", post.ID).Int64("notified", created).Msg("Announcement fanned out")
	return created, nil
}

// GetNotifications retrieves a user's notifications, newest first
func (s *NotificationService) GetNotifications(ctx context.Context, userID int64, page, size int) (*dto.NotificationListResponse, error) {
	notifications, pagination, err := s.notificationRepo.GetByRecipient(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationResponse(n))
	}

	return &dto.NotificationListResponse{
		Notifications:  items,
		PaginationInfo: pagination,
	}, nil
}

// GetUnreadCount returns the user's unread notification count
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead flags one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead flags all of the user's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func notificationResponse(n *models.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Content:   n.Content,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
