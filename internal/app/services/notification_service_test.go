package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/app/models/dto"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
)

// fakeUserRepo serves a fixed member directory.
type fakeUserRepo struct {
	memberIDs []int64
	listErr   error
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error { return nil }

func (f *fakeUserRepo) ListMemberIDs(ctx context.Context, excludeUserID int64) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]int64, 0, len(f.memberIDs))
	for _, id := range f.memberIDs {
		if id != excludeUserID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// fakeNotificationRepo records batches and serves notification queries.
type fakeNotificationRepo struct {
	batches  [][]*models.Notification
	batchErr error
}

func (f *fakeNotificationRepo) CreateBatch(ctx context.Context, notifications []*models.Notification) (int64, error) {
	if f.batchErr != nil {
		return 0, f.batchErr
	}
	f.batches = append(f.batches, notifications)
	return int64(len(notifications)), nil
}

func (f *fakeNotificationRepo) GetByRecipient(ctx context.Context, userID int64, page, size int) ([]*models.Notification, dto.PaginationInfo, error) {
	var out []*models.Notification
	for _, batch := range f.batches {
		for _, n := range batch {
			if n.UserID == userID {
				out = append(out, n)
			}
		}
	}
	return out, dto.PaginationInfo{CurrentPage: page, PageSize: size, TotalItems: int64(len(out))}, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for _, batch := range f.batches {
		for _, n := range batch {
			if n.UserID == userID && !n.IsRead {
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	return apperrors.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func announcementPost(id, authorID int64, title string) *models.Post {
	return &models.Post{
		ID:       id,
		AuthorID: authorID,
		Title:    title,
		Content:  "full announcement body",
		Type:     models.PostTypeAnnouncement,
	}
}

func TestFanOutNotifiesEveryOtherMember(t *testing.T) {
	users := &fakeUserRepo{memberIDs: []int64{1, 2, 3, 4}}
	notifs := &fakeNotificationRepo{}
	svc := NewNotificationService(notifs, users, zerolog.Nop())

	created, err := svc.FanOutAnnouncement(context.Background(), announcementPost(10, 1, "Campus closed Friday"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 3 {
		t.Errorf("created = %d, want 3", created)
	}
	if len(notifs.batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(notifs.batches))
	}

	batch := notifs.batches[0]
	seen := make(map[int64]bool)
	for _, n := range batch {
		if n.UserID == 1 {
			t.Error("author must not be notified")
		}
		if seen[n.UserID] {
			t.Errorf("member %d notified twice", n.UserID)
		}
		seen[n.UserID] = true

		if n.Title != models.AnnouncementTitle {
			t.Errorf("title = %q, want %q", n.Title, models.AnnouncementTitle)
		}
		if n.Content != "Campus closed Friday" {
			t.Errorf("content = %q", n.Content)
		}
		if n.Type != models.NotificationTypeAnnouncement {
			t.Errorf("type = %q", n.Type)
		}
		if n.RelatedID == nil || *n.RelatedID != 10 {
			t.Errorf("relatedID should reference the post, got %v", n.RelatedID)
		}
	}
}

func TestFanOutTruncatesLongTitles(t *testing.T) {
	users := &fakeUserRepo{memberIDs: []int64{2}}
	notifs := &fakeNotificationRepo{}
	svc := NewNotificationService(notifs, users, zerolog.Nop())

	longTitle := strings.Repeat("A", 150)
	if _, err := svc.FanOutAnnouncement(context.Background(), announcementPost(10, 1, longTitle)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := notifs.batches[0][0].Content
	want := strings.Repeat("A", 100) + "..."
	if content != want {
		t.Errorf("content = %q (len %d), want 100 chars plus ellipsis", content, len(content))
	}
}

func TestFanOutEmptyMemberSet(t *testing.T) {
	users := &fakeUserRepo{memberIDs: []int64{1}}
	notifs := &fakeNotificationRepo{}
	svc := NewNotificationService(notifs, users, zerolog.Nop())

	// The author is the only member.
	created, err := svc.FanOutAnnouncement(context.Background(), announcementPost(10, 1, "title"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 0 {
		t.Errorf("created = %d, want 0", created)
	}
	if len(notifs.batches) != 0 {
		t.Error("no insert should run for an empty member set")
	}
}

func TestFanOutListingFailure(t *testing.T) {
	users := &fakeUserRepo{listErr: errors.New("db gone")}
	svc := NewNotificationService(&fakeNotificationRepo{}, users, zerolog.Nop())

	_, err := svc.FanOutAnnouncement(context.Background(), announcementPost(10, 1, "title"))
	if !errors.Is(err, apperrors.ErrFanoutFailed) {
		t.Errorf("error = %v, want ErrFanoutFailed", err)
	}
}

func TestFanOutInsertFailure(t *testing.T) {
	users := &fakeUserRepo{memberIDs: []int64{2, 3}}
	notifs := &fakeNotificationRepo{batchErr: errors.New("copy failed")}
	svc := NewNotificationService(notifs, users, zerolog.Nop())

	created, err := svc.FanOutAnnouncement(context.Background(), announcementPost(10, 1, "title"))
	if !errors.Is(err, apperrors.ErrFanoutFailed) {
		t.Errorf("error = %v, want ErrFanoutFailed", err)
	}
	if created != 0 {
		t.Errorf("created = %d, want 0", created)
	}
}

func TestGetNotificationsMapsResponses(t *testing.T) {
	users := &fakeUserRepo{memberIDs: []int64{2, 3}}
	notifs := &fakeNotificationRepo{}
	svc := NewNotificationService(notifs, users, zerolog.Nop())

	if _, err := svc.FanOutAnnouncement(context.Background(), announcementPost(10, 1, "title")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.GetNotifications(context.Background(), 2, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(resp.Notifications))
	}
	got := resp.Notifications[0]
	if got.Title != models.AnnouncementTitle || got.RelatedID == nil || *got.RelatedID != 10 {
		t.Errorf("unexpected notification: %+v", got)
	}
}
