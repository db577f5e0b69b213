package models

import "time"

// NotificationType enumerates notification triggers.
type NotificationType string

const (
	NotificationTypeAnnouncement NotificationType = "announcement"
)

// AnnouncementTitle is the fixed title of every fan-out notification.
const AnnouncementTitle = "New Announcement"

// announcementContentMax bounds the notification content derived from the
// source post's title.
const announcementContentMax = 100

// Notification defines the notification model based on the 'notifications' table
type Notification struct {
	ID        int64            `json:"id" db:"id" example:"1"`
	UserID    int64            `json:"userId" db:"user_id" example:"3"` // recipient
	Type      NotificationType `json:"type" db:"notif_type" example:"announcement"`
	Title     string           `json:"title" db:"title" example:"New Announcement"`
	Content   string           `json:"content" db:"content"`
	RelatedID *int64           `json:"relatedId,omitempty" db:"related_id"` // the triggering post
	IsRead    bool             `json:"isRead" db:"is_read"`
	ReadAt    *time.Time       `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// AnnouncementContent derives notification content from a post title,
// truncating to 100 characters with a trailing ellipsis when truncated.
// Counted in runes so multi-byte titles are not cut mid-character.
func AnnouncementContent(postTitle string) string {
	runes := []rune(postTitle)
	if len(runes) <= announcementContentMax {
		return postTitle
	}
	return string(runes[:announcementContentMax]) + "..."
}
