package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InsertMarketData appends one observed price point to the history.
func (s *Service) InsertMarketData(ctx context.Context, params store.MarketDataParams) (*models.MarketData, error) {
	if params.GoldType == "" {
		return nil, fmt.Errorf("gold type is required")
	}
	if !params.Price.IsPositive() {
		return nil, fmt.Errorf("price must be positive, got %s", params.Price.String())
	}

	record := &models.MarketData{
		Id:        uuid.New().String(),
		GoldType:  params.GoldType,
		Price:     params.Price,
		ChangePct: params.ChangePct,
		Volume:    params.Volume,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertMarketData,
		record.Id, record.GoldType, record.Price.String(),
		record.ChangePct.String(), record.Volume)
	if err != nil {
		return nil, fmt.Errorf("failed to insert market data: %w", err)
	}

	return record, nil
}

// GetLatestMarketData returns the most recent price point per gold type.
func (s *Service) GetLatestMarketData(ctx context.Context) ([]models.MarketData, error) {
	rows, err := s.db.QueryContext(ctx, queryGetLatestMarketData)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest market data: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var records []models.MarketData
	for rows.Next() {
		var record models.MarketData
		var priceStr, changeStr string

		err := rows.Scan(&record.Id, &record.GoldType, &priceStr, &changeStr,
			&record.Volume, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market data: %w", err)
		}

		if record.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse market price %q: %w", priceStr, err)
		}
		if record.ChangePct, err = decimal.NewFromString(changeStr); err != nil {
			return nil, fmt.Errorf("failed to parse market change %q: %w", changeStr, err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market data rows: %w", err)
	}

	return records, nil
}
