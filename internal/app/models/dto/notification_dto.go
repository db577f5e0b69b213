package dto

import (
	"time"

	"github.com/kaan/connectsphere/internal/app/models"
)

// NotificationResponse represents a notification returned to its recipient
type NotificationResponse struct {
	ID        int64                   `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Content   string                  `json:"content"`
	RelatedID *int64                  `json:"relatedId,omitempty"`
	IsRead    bool                    `json:"isRead"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications  []NotificationResponse `json:"notifications"`
	PaginationInfo PaginationInfo         `json:"pagination"`
}

// UnreadCountResponse reports the caller's unread notification count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
