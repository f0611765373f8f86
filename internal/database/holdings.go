package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black179/Digi-gold/internal/ledger"
	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExecuteTrade records a completed trade and applies it to the user's
// holding for the gold type in a single database transaction. Either both
// the trade row and the holding mutation commit, or neither does. The
// holding update is version-checked so two concurrent trades on the same
// (user, gold type) cannot silently lose one of their updates.
func (s *Service) ExecuteTrade(ctx context.Context, params store.TradeParams) (*models.Trade, error) {
	if err := params.Side.Validate(); err != nil {
		return nil, err
	}
	if params.UserId == "" || params.GoldType == "" {
		return nil, fmt.Errorf("user id and gold type are required")
	}
	if !params.Quantity.IsPositive() {
		return nil, fmt.Errorf("trade quantity must be positive, got %s", params.Quantity.String())
	}
	if !params.Price.IsPositive() {
		return nil, fmt.Errorf("trade price must be positive, got %s", params.Price.String())
	}

	total := params.Quantity.Mul(params.Price)

	zap.L().Info("Executing trade",
		zap.String("user_id", params.UserId),
		zap.String("side", string(params.Side)),
		zap.String("gold_type", params.GoldType),
		zap.String("quantity", params.Quantity.String()),
		zap.String("price", params.Price.String()),
		zap.String("total", total.String()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Read the current position, if any
	var existing *ledger.Position
	var version int64
	var holdingId, quantityStr, avgPriceStr string

	err = tx.QueryRowContext(ctx, queryGetHoldingPosition, params.UserId, params.GoldType).
		Scan(&holdingId, &quantityStr, &avgPriceStr, &version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existing = nil
	case err != nil:
		return nil, fmt.Errorf("failed to get holding: %w", err)
	default:
		quantity, parseErr := decimal.NewFromString(quantityStr)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse holding quantity %q: %w", quantityStr, parseErr)
		}
		avgPrice, parseErr := decimal.NewFromString(avgPriceStr)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse holding avg price %q: %w", avgPriceStr, parseErr)
		}
		existing = &ledger.Position{Quantity: quantity, AvgPrice: avgPrice}
	}

	change, err := ledger.Apply(existing, params.Side, params.Quantity, params.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trade := &models.Trade{
		Id:        uuid.New().String(),
		UserId:    params.UserId,
		Side:      params.Side,
		GoldType:  params.GoldType,
		Quantity:  params.Quantity,
		Price:     params.Price,
		Total:     total,
		Status:    models.TradeStatusCompleted,
		CreatedAt: now,
	}

	_, err = tx.ExecContext(ctx, queryInsertTrade,
		trade.Id, trade.UserId, string(trade.Side), trade.GoldType,
		trade.Quantity.String(), trade.Price.String(), trade.Total.String(), trade.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trade: %w", err)
	}

	if change.Create {
		_, err = tx.ExecContext(ctx, queryInsertHolding,
			uuid.New().String(), params.UserId, params.GoldType,
			change.Quantity.String(), change.AvgPrice.String())
		if err != nil {
			return nil, fmt.Errorf("failed to create holding: %w", err)
		}
	} else {
		result, err := tx.ExecContext(ctx, queryUpdateHolding,
			change.Quantity.String(), change.AvgPrice.String(),
			params.UserId, params.GoldType, version)
		if err != nil {
			return nil, fmt.Errorf("failed to update holding: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("holding update failed - %w", store.ErrConcurrentModification)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Trade executed successfully",
		zap.String("trade_id", trade.Id),
		zap.String("user_id", params.UserId),
		zap.String("gold_type", params.GoldType),
		zap.String("new_quantity", change.Quantity.String()),
		zap.String("new_avg_price", change.AvgPrice.String()))

	return trade, nil
}

// GetTrades returns the user's most recent trades, newest first.
func (s *Service) GetTrades(ctx context.Context, userId string, limit int) ([]models.Trade, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, queryGetTrades, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var trades []models.Trade
	for rows.Next() {
		var trade models.Trade
		var side, quantityStr, priceStr, totalStr string

		err := rows.Scan(&trade.Id, &trade.UserId, &side, &trade.GoldType,
			&quantityStr, &priceStr, &totalStr, &trade.Status, &trade.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		trade.Side = models.TradeSide(side)
		if trade.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
			return nil, fmt.Errorf("failed to parse trade quantity %q: %w", quantityStr, err)
		}
		if trade.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse trade price %q: %w", priceStr, err)
		}
		if trade.Total, err = decimal.NewFromString(totalStr); err != nil {
			return nil, fmt.Errorf("failed to parse trade total %q: %w", totalStr, err)
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}

	return trades, nil
}

// GetHolding returns the user's holding for one gold type.
func (s *Service) GetHolding(ctx context.Context, userId, goldType string) (*models.GoldHolding, error) {
	var holding models.GoldHolding
	var quantityStr, avgPriceStr string

	err := s.db.QueryRowContext(ctx, queryGetHolding, userId, goldType).
		Scan(&holding.Id, &holding.UserId, &holding.GoldType,
			&quantityStr, &avgPriceStr, &holding.Version, &holding.CreatedAt, &holding.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrHoldingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	if holding.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
		return nil, fmt.Errorf("failed to parse holding quantity %q: %w", quantityStr, err)
	}
	if holding.AvgPrice, err = decimal.NewFromString(avgPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse holding avg price %q: %w", avgPriceStr, err)
	}

	return &holding, nil
}

// GetHoldings returns all of the user's holdings ordered by gold type.
func (s *Service) GetHoldings(ctx context.Context, userId string) ([]models.GoldHolding, error) {
	rows, err := s.db.QueryContext(ctx, queryGetHoldings, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var holdings []models.GoldHolding
	for rows.Next() {
		var holding models.GoldHolding
		var quantityStr, avgPriceStr string

		err := rows.Scan(&holding.Id, &holding.UserId, &holding.GoldType,
			&quantityStr, &avgPriceStr, &holding.Version, &holding.CreatedAt, &holding.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		if holding.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
			return nil, fmt.Errorf("failed to parse holding quantity %q: %w", quantityStr, err)
		}
		if holding.AvgPrice, err = decimal.NewFromString(avgPriceStr); err != nil {
			return nil, fmt.Errorf("failed to parse holding avg price %q: %w", avgPriceStr, err)
		}

		holdings = append(holdings, holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding rows: %w", err)
	}

	return holdings, nil
}
