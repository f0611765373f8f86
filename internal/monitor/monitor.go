package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	passesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alert_monitor_passes_total",
		Help: "Total number of completed alert evaluation passes",
	})
	passFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alert_monitor_pass_failures_total",
		Help: "Total number of passes aborted by a listing or price-fetch failure",
	})
	alertsTriggeredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alert_monitor_alerts_triggered_total",
		Help: "Total number of alerts that fired and were deactivated",
	})
	alertFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alert_monitor_alert_failures_total",
		Help: "Total number of per-alert notification or deactivation failures",
	})
)

func init() {
	prometheus.MustRegister(passesTotal)
	prometheus.MustRegister(passFailuresTotal)
	prometheus.MustRegister(alertsTriggeredTotal)
	prometheus.MustRegister(alertFailuresTotal)
}

// AlertStore is the slice of the persistence layer the monitor consumes.
type AlertStore interface {
	ListActiveAlerts(ctx context.Context) ([]models.PriceAlert, error)
	DeactivateAlert(ctx context.Context, alertId string) error
	CreateNotification(ctx context.Context, params store.NotificationParams) (*models.Notification, error)
}

// PriceFeed supplies one batch of current quotes per call.
type PriceFeed interface {
	FetchCurrentPrices(ctx context.Context) ([]models.GoldPrice, error)
}

// Config contains configuration for PriceMonitor
type Config struct {
	Store    AlertStore
	Feed     PriceFeed
	Interval time.Duration
}

// PriceMonitor periodically evaluates active price alerts against current
// quotes. Each alert that crosses its threshold gets exactly one
// notification and is deactivated in the same pass; it never fires again.
type PriceMonitor struct {
	store    AlertStore
	feed     PriceFeed
	interval time.Duration

	// passMu makes the no-overlapping-passes guarantee explicit even when
	// RunPass is invoked outside the ticker loop.
	passMu sync.Mutex

	stopChan chan struct{}
	doneChan chan struct{}
}

// alertPayload is the structured notification payload for a fired alert.
type alertPayload struct {
	AlertId      string                `json:"alertId"`
	GoldType     string                `json:"goldType"`
	TargetPrice  decimal.Decimal       `json:"targetPrice"`
	CurrentPrice decimal.Decimal       `json:"currentPrice"`
	Condition    models.AlertCondition `json:"condition"`
}

func NewPriceMonitor(cfg Config) (*PriceMonitor, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("monitor store cannot be nil")
	}
	if cfg.Feed == nil {
		return nil, fmt.Errorf("monitor price feed cannot be nil")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &PriceMonitor{
		store:    cfg.Store,
		feed:     cfg.Feed,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

// Start begins the evaluation loop. The first pass runs immediately; further
// passes run once per interval until Stop is called or ctx is cancelled.
func (m *PriceMonitor) Start(ctx context.Context) {
	zap.L().Info("Starting price alert monitor", zap.Duration("interval", m.interval))
	go m.run(ctx)
}

// Stop cancels future passes and waits for the loop to exit. A pass already
// in flight completes first.
func (m *PriceMonitor) Stop() {
	zap.L().Info("Stopping price alert monitor")
	close(m.stopChan)
	<-m.doneChan
	zap.L().Info("Price alert monitor stopped")
}

func (m *PriceMonitor) run(ctx context.Context) {
	defer close(m.doneChan)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	if err := m.RunPass(ctx); err != nil {
		zap.L().Error("Alert evaluation pass failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := m.RunPass(ctx); err != nil {
				zap.L().Error("Alert evaluation pass failed", zap.Error(err))
			}
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunPass performs one full evaluation cycle. A failure listing alerts or
// fetching prices aborts the whole pass (the next tick retries); a failure
// handling one alert is logged and the pass continues with the rest.
func (m *PriceMonitor) RunPass(ctx context.Context) error {
	m.passMu.Lock()
	defer m.passMu.Unlock()

	alerts, err := m.store.ListActiveAlerts(ctx)
	if err != nil {
		passFailuresTotal.Inc()
		return fmt.Errorf("failed to list active alerts: %w", err)
	}

	// No active alerts: skip the price fetch entirely.
	if len(alerts) == 0 {
		passesTotal.Inc()
		return nil
	}

	// One batch fetch shared by every alert in this pass.
	quotes, err := m.feed.FetchCurrentPrices(ctx)
	if err != nil {
		passFailuresTotal.Inc()
		return fmt.Errorf("failed to fetch current prices: %w", err)
	}

	priceByType := make(map[string]decimal.Decimal, len(quotes))
	for _, quote := range quotes {
		priceByType[quote.GoldType] = quote.Price
	}

	for _, alert := range alerts {
		currentPrice, ok := priceByType[alert.GoldType]
		if !ok {
			// No quote for this gold type in this pass; not a failure.
			continue
		}

		met, err := alert.Condition.Met(currentPrice, alert.TargetPrice)
		if err != nil {
			zap.L().Error("Skipping alert with invalid condition",
				zap.String("alert_id", alert.Id),
				zap.Error(err))
			alertFailuresTotal.Inc()
			continue
		}
		if !met {
			continue
		}

		if err := m.triggerAlert(ctx, alert, currentPrice); err != nil {
			zap.L().Error("Failed to trigger alert",
				zap.String("alert_id", alert.Id),
				zap.String("user_id", alert.UserId),
				zap.String("gold_type", alert.GoldType),
				zap.Error(err))
			alertFailuresTotal.Inc()
			continue
		}

		alertsTriggeredTotal.Inc()
	}

	passesTotal.Inc()
	return nil
}

// triggerAlert notifies the alert's owner and deactivates the alert. The
// alert stays active if the notification write fails, so the next pass
// retries rather than losing the event.
func (m *PriceMonitor) triggerAlert(ctx context.Context, alert models.PriceAlert, currentPrice decimal.Decimal) error {
	message := fmt.Sprintf("Price Alert: %s is now %s %s (Current: %s)",
		alert.GoldType, string(alert.Condition),
		alert.TargetPrice.String(), currentPrice.String())

	payload, err := json.Marshal(alertPayload{
		AlertId:      alert.Id,
		GoldType:     alert.GoldType,
		TargetPrice:  alert.TargetPrice,
		CurrentPrice: currentPrice,
		Condition:    alert.Condition,
	})
	if err != nil {
		return fmt.Errorf("failed to encode alert payload: %w", err)
	}

	_, err = m.store.CreateNotification(ctx, store.NotificationParams{
		UserId:    alert.UserId,
		Message:   message,
		Kind:      models.NotificationPriceAlert,
		Payload:   string(payload),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if err := m.store.DeactivateAlert(ctx, alert.Id); err != nil {
		return fmt.Errorf("failed to deactivate alert: %w", err)
	}

	zap.L().Info("Price alert triggered",
		zap.String("alert_id", alert.Id),
		zap.String("user_id", alert.UserId),
		zap.String("gold_type", alert.GoldType),
		zap.String("target_price", alert.TargetPrice.String()),
		zap.String("current_price", currentPrice.String()),
		zap.String("condition", string(alert.Condition)))

	return nil
}
