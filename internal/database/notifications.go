package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateNotification stores a new unread notification for the user.
func (s *Service) CreateNotification(ctx context.Context, params store.NotificationParams) (*models.Notification, error) {
	if params.UserId == "" || params.Message == "" {
		return nil, fmt.Errorf("user id and message are required")
	}

	timestamp := params.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	notification := &models.Notification{
		Id:        uuid.New().String(),
		UserId:    params.UserId,
		Message:   params.Message,
		Kind:      params.Kind,
		Payload:   params.Payload,
		Read:      false,
		CreatedAt: timestamp,
	}

	_, err := s.db.ExecContext(ctx, queryInsertNotification,
		notification.Id, notification.UserId, notification.Message,
		notification.Kind, notification.Payload, notification.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	zap.L().Info("Notification created",
		zap.String("notification_id", notification.Id),
		zap.String("user_id", notification.UserId),
		zap.String("kind", notification.Kind))

	return notification, nil
}

// GetNotifications returns the user's most recent notifications, newest first.
func (s *Service) GetNotifications(ctx context.Context, userId string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, queryGetNotifications, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.Id, &n.UserId, &n.Message, &n.Kind, &n.Payload, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead flips a notification's read flag.
func (s *Service) MarkNotificationRead(ctx context.Context, notificationId string) error {
	result, err := s.db.ExecContext(ctx, queryMarkNotificationRead, notificationId)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}
