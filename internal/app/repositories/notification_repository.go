package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/app/models/dto"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
	"github.com/kaan/connectsphere/internal/pkg/helpers"
	"github.com/kaan/connectsphere/internal/pkg/logger"
)

// INotificationRepository defines the interface for notification database operations
type INotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*models.Notification) (int64, error)
	GetByRecipient(ctx context.Context, userID int64, page, size int) ([]*models.Notification, dto.PaginationInfo, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// NotificationRepository handles database operations for notifications.
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateBatch inserts the whole batch with a single COPY inside one
// transaction: either every notification in the batch lands or none do.
// An empty batch is a no-op, not an error.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []*models.Notification) (int64, error) {
	if len(notifications) == 0 {
		return 0, nil
	}

	now := time.Now()
	rows := make([][]interface{}, 0, len(notifications))
	for _, n := range notifications {
		rows = append(rows, []interface{}{n.UserID, n.Type, n.Title, n.Content, n.RelatedID, false, now})
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin notification batch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"notifications"},
		[]string{"user_id", "notif_type", "title", "content", "related_id", "is_read", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		logger.Error().Err(err).Int("batchSize", len(notifications)).Msg("Error executing notification batch insert")
		return 0, fmt.Errorf("error inserting notification batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit notification batch: %w", err)
	}

	return copied, nil
}

// GetByRecipient retrieves a paginated list of a user's notifications, newest first.
func (r *NotificationRepository) GetByRecipient(ctx context.Context, userID int64, page, size int) ([]*models.Notification, dto.PaginationInfo, error) {
	var totalItems int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&totalItems)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error counting notifications")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, page, size)
	if totalItems == 0 {
		return []*models.Notification{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sqlStr, args, err := r.sb.Select(
		"id", "user_id", "notif_type", "title", "content", "related_id",
		"is_read", "read_at", "created_at",
	).From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get notifications SQL")
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get notifications query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Content, &n.RelatedID,
			&n.IsRead, &n.ReadAt, &n.CreatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one notification during get by recipient")
			continue
		}
		notifications = append(notifications, &n)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through notification rows")
		return nil, pagination, fmt.Errorf("database iteration error: %w", err)
	}

	return notifications, pagination, nil
}

// CountUnread returns the user's unread notification count.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID).Scan(&count)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error counting unread notifications")
		return 0, err
	}
	return count, nil
}

// MarkRead flags one of the user's notifications as read.
// The user_id guard keeps recipients from flagging each other's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", time.Now()).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark read SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("notificationID", id).Msg("Error executing mark read query")
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead flags all of the user's unread notifications as read and
// returns how many were affected.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark all read SQL")
		return 0, err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing mark all read query")
		return 0, err
	}

	return cmdTag.RowsAffected(), nil
}
