package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateAlert inserts a new active price alert.
func (s *Service) CreateAlert(ctx context.Context, params store.AlertParams) (*models.PriceAlert, error) {
	if err := params.Condition.Validate(); err != nil {
		return nil, err
	}
	if params.UserId == "" || params.GoldType == "" {
		return nil, fmt.Errorf("user id and gold type are required")
	}
	if !params.TargetPrice.IsPositive() {
		return nil, fmt.Errorf("target price must be positive, got %s", params.TargetPrice.String())
	}

	alertId := uuid.New().String()
	_, err := s.db.ExecContext(ctx, queryInsertAlert,
		alertId, params.UserId, params.GoldType,
		params.TargetPrice.String(), string(params.Condition))
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	zap.L().Info("Price alert created",
		zap.String("alert_id", alertId),
		zap.String("user_id", params.UserId),
		zap.String("gold_type", params.GoldType),
		zap.String("target_price", params.TargetPrice.String()),
		zap.String("condition", string(params.Condition)))

	alerts, err := s.GetAlerts(ctx, params.UserId)
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		if alerts[i].Id == alertId {
			return &alerts[i], nil
		}
	}
	return nil, store.ErrAlertNotFound
}

// GetAlerts returns all alerts belonging to the user, newest first.
func (s *Service) GetAlerts(ctx context.Context, userId string) ([]models.PriceAlert, error) {
	rows, err := s.db.QueryContext(ctx, queryGetAlertsByUser, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	return scanAlerts(rows)
}

// ListActiveAlerts returns every alert still waiting for its threshold.
func (s *Service) ListActiveAlerts(ctx context.Context) ([]models.PriceAlert, error) {
	rows, err := s.db.QueryContext(ctx, queryListActiveAlerts)
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	return scanAlerts(rows)
}

// DeactivateAlert flips an active alert to inactive. Deactivating an alert
// that is already inactive (or unknown) fails with store.ErrAlertNotFound so
// a triggered alert can never fire twice.
func (s *Service) DeactivateAlert(ctx context.Context, alertId string) error {
	result, err := s.db.ExecContext(ctx, queryDeactivateAlert, alertId)
	if err != nil {
		return fmt.Errorf("failed to deactivate alert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrAlertNotFound
	}

	zap.L().Info("Price alert deactivated", zap.String("alert_id", alertId))
	return nil
}

func scanAlerts(rows *sql.Rows) ([]models.PriceAlert, error) {
	var alerts []models.PriceAlert
	for rows.Next() {
		var alert models.PriceAlert
		var targetPriceStr, condition string
		var triggeredAt sql.NullTime

		err := rows.Scan(&alert.Id, &alert.UserId, &alert.GoldType,
			&targetPriceStr, &condition, &alert.Active, &alert.CreatedAt, &triggeredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		alert.Condition = models.AlertCondition(condition)
		if alert.TargetPrice, err = decimal.NewFromString(targetPriceStr); err != nil {
			return nil, fmt.Errorf("failed to parse target price %q: %w", targetPriceStr, err)
		}
		if triggeredAt.Valid {
			t := triggeredAt.Time
			alert.TriggeredAt = &t
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert rows: %w", err)
	}

	return alerts, nil
}
