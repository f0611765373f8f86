package store

import (
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestTradingStoreInterfaceExists(t *testing.T) {
	// This test simply validates that the TradingStore interface compiles
	// and the sentinel errors are accessible.
	_ = ErrUserNotFound
	_ = ErrHoldingNotFound
	_ = ErrInsufficientHoldings
	_ = ErrConcurrentModification
	_ = TradeParams{}
	_ = AlertParams{}
	_ = NotificationParams{}

	// Ensure the interface is non-nil type.
	var _ TradingStore
}
