package monitor

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/shopspring/decimal"
)

type fakeAlertStore struct {
	alerts        []models.PriceAlert
	deactivated   map[string]bool
	notifications []store.NotificationParams

	listErr       error
	notifyErrOnce error
}

func newFakeAlertStore(alerts ...models.PriceAlert) *fakeAlertStore {
	return &fakeAlertStore{
		alerts:      alerts,
		deactivated: make(map[string]bool),
	}
}

func (f *fakeAlertStore) ListActiveAlerts(ctx context.Context) ([]models.PriceAlert, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var active []models.PriceAlert
	for _, alert := range f.alerts {
		if !f.deactivated[alert.Id] {
			active = append(active, alert)
		}
	}
	return active, nil
}

func (f *fakeAlertStore) DeactivateAlert(ctx context.Context, alertId string) error {
	if f.deactivated[alertId] {
		return store.ErrAlertNotFound
	}
	f.deactivated[alertId] = true
	return nil
}

func (f *fakeAlertStore) CreateNotification(ctx context.Context, params store.NotificationParams) (*models.Notification, error) {
	if f.notifyErrOnce != nil {
		err := f.notifyErrOnce
		f.notifyErrOnce = nil
		return nil, err
	}
	f.notifications = append(f.notifications, params)
	return &models.Notification{Id: "n1", UserId: params.UserId, Message: params.Message}, nil
}

type fakePriceFeed struct {
	quotes []models.GoldPrice
	calls  int
	err    error
}

func (f *fakePriceFeed) FetchCurrentPrices(ctx context.Context) ([]models.GoldPrice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func quote(goldType, price string) models.GoldPrice {
	return models.GoldPrice{GoldType: goldType, Price: decimal.RequireFromString(price), Timestamp: time.Now().UTC()}
}

func alert(id, goldType, target string, condition models.AlertCondition) models.PriceAlert {
	return models.PriceAlert{
		Id:          id,
		UserId:      "user-1",
		GoldType:    goldType,
		TargetPrice: decimal.RequireFromString(target),
		Condition:   condition,
		Active:      true,
	}
}

func newTestMonitor(t *testing.T, alertStore *fakeAlertStore, feed *fakePriceFeed) *PriceMonitor {
	t.Helper()
	m, err := NewPriceMonitor(Config{Store: alertStore, Feed: feed, Interval: time.Minute})
	if err != nil {
		t.Fatalf("NewPriceMonitor() error = %v", err)
	}
	return m
}

func TestAboveAlertTriggersAtExactTarget(t *testing.T) {
	alertStore := newFakeAlertStore(alert("a1", "24K Gold", "2200", models.ConditionAbove))
	feed := &fakePriceFeed{quotes: []models.GoldPrice{quote("24K Gold", "2200")}}
	m := newTestMonitor(t, alertStore, feed)

	if err := m.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}

	if len(alertStore.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(alertStore.notifications))
	}
	if !alertStore.deactivated["a1"] {
		t.Error("expected alert to be deactivated after triggering")
	}

	n := alertStore.notifications[0]
	if n.UserId != "user-1" {
		t.Errorf("notification user = %q, want user-1", n.UserId)
	}
	if n.Kind != models.NotificationPriceAlert {
		t.Errorf("notification kind = %q, want %q", n.Kind, models.NotificationPriceAlert)
	}
	if !strings.Contains(n.Message, "24K Gold") || !strings.Contains(n.Message, "2200") {
		t.Errorf("notification message missing details: %q", n.Message)
	}

	var payload struct {
		AlertId      string          `json:"alertId"`
		GoldType     string          `json:"goldType"`
		TargetPrice  decimal.Decimal `json:"targetPrice"`
		CurrentPrice decimal.Decimal `json:"currentPrice"`
		Condition    string          `json:"condition"`
	}
	if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil {
		t.Fatalf("failed to decode notification payload: %v", err)
	}
	if payload.AlertId != "a1" || payload.GoldType != "24K Gold" || payload.Condition != "above" {
		t.Errorf("unexpected payload: %+v", payload)
	}
	if !payload.CurrentPrice.Equal(decimal.RequireFromString("2200")) {
		t.Errorf("payload current price = %s, want 2200", payload.CurrentPrice.String())
	}
}

func TestBelowAlertDoesNotTriggerAboveTarget(t *testing.T) {
	alertStore := newFakeAlertStore(alert("a1", "22K Gold", "100", models.ConditionBelow))
	feed := &fakePriceFeed{quotes: []models.GoldPrice{quote("22K Gold", "100.01")}}
	m := newTestMonitor(t, alertStore, feed)

	if err := m.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}

	if len(alertStore.notifications) != 0 {
		t.Errorf("expected no notifications, got %d", len(alertStore.notifications))
	}
	if alertStore.deactivated["a1"] {
		t.Error("alert should remain active when the condition is not met")
	}
}

func TestBelowAlertTriggersAtExactTarget(t *testing.T) {
	alertStore := newFakeAlertStore(alert("a1", "22K Gold", "100", models.ConditionBelow))
	feed := &fakePriceFeed{quotes: []models.GoldPrice{quote("22K Gold", "100")}}
	m := newTestMonitor(t, alertStore, feed)

	if err := m.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}

	if len(alertStore.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(alertStore.notifications))
	}
	if !alertStore.deactivated["a1"] {
		t.Error("expected alert to be deactivated")
	}
}

func TestNoActiveAlertsSkipsPriceFetch(t *testing.T) {
	alertStore := newFakeAlertStore()
	feed := &fakePriceFeed{quotes: []models.GoldPrice{quote("24K Gold", "2200")}}
	m := newTestMonitor(t, alertStore, feed)

	if err := m.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}

	if feed.calls != 0 {
		t.Errorf("expected no price fetch with zero active alerts, got %d calls", feed.calls)
	}
}

func TestAlertFiresExactlyOnce(t *testing.T) {
	alertStore := newFakeAlertStore(alert("a1", "24K Gold", "2000", models.ConditionAbove))
	feed := &fakePriceFeed{quotes: []models.GoldPrice{quote("24K Gold", "2100")}}
	m := newTestMonitor(t, alertStore, feed)

	for i := 0; i < 3; i++ {
		if err := m.RunPass(context.Background()); err != nil {
			t.Fatalf("RunPass() #%d error = %v", i+1, err)
		}
	}

	if len(alertStore.notifications) != 1 {
		t.Errorf("expected exactly 1 notification across passes, got %d", len(alertStore.notifications))
	}
}

func TestNotificationFailureLeavesAlertActive(t *testing.T) {
	alertStore := newFakeAlertStore(
		alert("a1", "24K Gold", "2000", models.ConditionAbove),
		alert("a2", "22K Gold", "1900", models.ConditionAbove),
	)
	alertStore.notifyErrOnce = context.DeadlineExceeded
	feed := &fakePriceFeed{quotes: []models.GoldPrice{
		quote("24K Gold", "2100"),
		quote("22K Gold", "1950"),
	}}
	m := newTestMonitor(t, alertStore, feed)

	// First pass: a1's notification fails, a2's succeeds.
	if err := m.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}
	if alertStore.deactivated["a1"] {
		t.Error("a1 should stay active after its notification failed")
	}
	if !alertStore.deactivated["a2"] {
		t.Error("a2 should be deactivated despite a1's failure")
	}

	// Second pass retries a1 and succeeds.
	if err := m.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}
	if !alertStore.deactivated["a1"] {
		t.Error("a1 should be deactivated after the retry")
	}
	if len(alertStore.notifications) != 2 {
		t.Errorf("expected 2 notifications total, got %d", len(alertStore.notifications))
	}
}

func TestMissingQuoteSkipsAlert(t *testing.T) {
	alertStore := newFakeAlertStore(alert("a1", "18K Gold", "1500", models.ConditionAbove))
	feed := &fakePriceFeed{quotes: []models.GoldPrice{quote("24K Gold", "2200")}}
	m := newTestMonitor(t, alertStore, feed)

	if err := m.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}

	if len(alertStore.notifications) != 0 {
		t.Errorf("expected no notifications for an unquoted gold type, got %d", len(alertStore.notifications))
	}
	if alertStore.deactivated["a1"] {
		t.Error("alert should remain active when its gold type has no quote")
	}
}

func TestPriceFetchFailureAbortsPass(t *testing.T) {
	alertStore := newFakeAlertStore(alert("a1", "24K Gold", "2000", models.ConditionAbove))
	feed := &fakePriceFeed{err: context.DeadlineExceeded}
	m := newTestMonitor(t, alertStore, feed)

	if err := m.RunPass(context.Background()); err == nil {
		t.Fatal("expected error when the price fetch fails")
	}
	if len(alertStore.notifications) != 0 {
		t.Errorf("expected no notifications on an aborted pass, got %d", len(alertStore.notifications))
	}
	if alertStore.deactivated["a1"] {
		t.Error("alert should remain active after an aborted pass")
	}
}

func TestStartStop(t *testing.T) {
	alertStore := newFakeAlertStore(alert("a1", "24K Gold", "2000", models.ConditionAbove))
	feed := &fakePriceFeed{quotes: []models.GoldPrice{quote("24K Gold", "2100")}}

	m, err := NewPriceMonitor(Config{Store: alertStore, Feed: feed, Interval: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewPriceMonitor() error = %v", err)
	}

	m.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	m.Stop()

	if len(alertStore.notifications) != 1 {
		t.Errorf("expected exactly 1 notification from the running monitor, got %d", len(alertStore.notifications))
	}
	if !alertStore.deactivated["a1"] {
		t.Error("expected alert to be deactivated by the running monitor")
	}
}

func TestNewPriceMonitorValidation(t *testing.T) {
	if _, err := NewPriceMonitor(Config{Feed: &fakePriceFeed{}}); err == nil {
		t.Error("expected error with nil store")
	}
	if _, err := NewPriceMonitor(Config{Store: newFakeAlertStore()}); err == nil {
		t.Error("expected error with nil price feed")
	}
}
