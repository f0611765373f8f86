package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Black179/Digi-gold/internal/models"

	"github.com/shopspring/decimal"
)

const testCatalog = `gold_types:
  - name: "24K Gold"
    purity: 24
    base_price: "185000"
  - name: "22K Gold"
    purity: 22
    base_price: "173500"
  - name: "18K Gold"
    purity: 18
    base_price: "138750"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	entries, err := LoadCatalog(writeCatalog(t, testCatalog))
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Name != "24K Gold" || entries[0].Purity != 24 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if !entries[1].BasePrice.Equal(decimal.NewFromInt(173500)) {
		t.Errorf("22K base price = %s, want 173500", entries[1].BasePrice.String())
	}
}

func TestLoadCatalogRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"empty file":     `gold_types: []`,
		"missing name":   "gold_types:\n  - purity: 24\n    base_price: \"100\"\n",
		"invalid purity": "gold_types:\n  - name: \"X\"\n    purity: 25\n    base_price: \"100\"\n",
		"bad price":      "gold_types:\n  - name: \"X\"\n    purity: 24\n    base_price: \"lots\"\n",
		"negative price": "gold_types:\n  - name: \"X\"\n    purity: 24\n    base_price: \"-1\"\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadCatalog(writeCatalog(t, content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSimulatedQuotesCoverCatalog(t *testing.T) {
	svc, err := NewService(models.PricesConfig{AssetsFile: writeCatalog(t, testCatalog)})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	quotes, err := svc.FetchCurrentPrices(context.Background())
	if err != nil {
		t.Fatalf("FetchCurrentPrices() error = %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}

	seen := make(map[string]bool)
	for _, quote := range quotes {
		seen[quote.GoldType] = true
		if !quote.Price.IsPositive() {
			t.Errorf("%s price = %s, want positive", quote.GoldType, quote.Price.String())
		}
		if quote.Volume < 200 || quote.Volume > 1200 {
			t.Errorf("%s volume = %d, want within [200, 1200]", quote.GoldType, quote.Volume)
		}
		if quote.Currency != "INR" {
			t.Errorf("%s currency = %q, want INR", quote.GoldType, quote.Currency)
		}
	}
	for _, name := range []string{"24K Gold", "22K Gold", "18K Gold"} {
		if !seen[name] {
			t.Errorf("no quote for %s", name)
		}
	}

	// Higher purity always quotes at least as high.
	byType := make(map[string]decimal.Decimal, len(quotes))
	for _, quote := range quotes {
		byType[quote.GoldType] = quote.Price
	}
	if byType["24K Gold"].LessThan(byType["22K Gold"]) || byType["22K Gold"].LessThan(byType["18K Gold"]) {
		t.Errorf("prices not ordered by purity: 24K=%s 22K=%s 18K=%s",
			byType["24K Gold"], byType["22K Gold"], byType["18K Gold"])
	}
}

func TestFetchCurrentPricesUsesSpotApi(t *testing.T) {
	var calls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("x-access-token"); got != "test-token" {
			t.Errorf("access token header = %q, want test-token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price": 185000, "currency": "INR"}`))
	}))
	defer upstream.Close()

	svc, err := NewService(models.PricesConfig{
		AssetsFile:  writeCatalog(t, testCatalog),
		ApiUrl:      upstream.URL,
		ApiToken:    "test-token",
		CacheMaxAge: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	quotes, err := svc.FetchCurrentPrices(context.Background())
	if err != nil {
		t.Fatalf("FetchCurrentPrices() error = %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}

	// Each grade is the spot scaled by purity/24, within the ±1% variation.
	for _, quote := range quotes {
		var purity int64
		switch quote.GoldType {
		case "24K Gold":
			purity = 24
		case "22K Gold":
			purity = 22
		case "18K Gold":
			purity = 18
		default:
			t.Fatalf("unexpected gold type %q", quote.GoldType)
		}
		base := decimal.NewFromInt(185000).Mul(decimal.NewFromInt(purity)).Div(decimal.NewFromInt(24))
		low := base.Mul(decimal.RequireFromString("0.98"))
		high := base.Mul(decimal.RequireFromString("1.02"))
		if quote.Price.LessThan(low) || quote.Price.GreaterThan(high) {
			t.Errorf("%s price %s outside [%s, %s]", quote.GoldType, quote.Price, low.Round(2), high.Round(2))
		}
	}

	// A second fetch inside the cache window must not hit the upstream.
	if _, err := svc.FetchCurrentPrices(context.Background()); err != nil {
		t.Fatalf("FetchCurrentPrices() error = %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1 (second fetch should be cached)", got)
	}
}

func TestFetchCurrentPricesFallsBackOnUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc, err := NewService(models.PricesConfig{
		AssetsFile: writeCatalog(t, testCatalog),
		ApiUrl:     upstream.URL,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	quotes, err := svc.FetchCurrentPrices(context.Background())
	if err != nil {
		t.Fatalf("FetchCurrentPrices() error = %v, want simulated fallback", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 simulated quotes, got %d", len(quotes))
	}
	for _, quote := range quotes {
		if !quote.Price.IsPositive() {
			t.Errorf("%s fallback price = %s, want positive", quote.GoldType, quote.Price.String())
		}
	}
}

func TestPriceHistory(t *testing.T) {
	svc, err := NewService(models.PricesConfig{AssetsFile: writeCatalog(t, testCatalog)})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	history := svc.PriceHistory("24K Gold", 24)
	if len(history) != 25 {
		t.Fatalf("expected 25 samples, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if !history[i].Timestamp.After(history[i-1].Timestamp) {
			t.Fatalf("history not in ascending time order at index %d", i)
		}
	}
	for _, point := range history {
		if !point.Price.IsPositive() {
			t.Errorf("history price = %s, want positive", point.Price.String())
		}
	}

	// Unknown grades still chart from the fallback base price.
	if got := svc.PriceHistory("Unknown Gold", 0); len(got) != 25 {
		t.Errorf("expected default 24h window (25 samples), got %d", len(got))
	}
}
