package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Black179/Digi-gold/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Service fetches live gold quotes from a spot-price API and derives one
// quote per catalog purity grade. When the upstream is unreachable (or no
// API is configured) it falls back to simulated quotes so the rest of the
// system keeps working in demo mode. Responses are cached briefly to bound
// upstream calls.
type Service struct {
	client   http.Client
	apiUrl   string
	apiToken string
	currency string
	catalog  []CatalogEntry

	cacheMaxAge time.Duration
	mu          sync.Mutex
	cached      []models.GoldPrice
	cachedAt    time.Time
}

// spotQuote is the subset of the upstream API response we consume.
type spotQuote struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

func NewService(cfg models.PricesConfig) (*Service, error) {
	catalog, err := LoadCatalog(cfg.AssetsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load gold catalog: %w", err)
	}

	httpClient, err := createCustomHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}
	cacheMaxAge := cfg.CacheMaxAge
	if cacheMaxAge <= 0 {
		cacheMaxAge = 30 * time.Second
	}

	return &Service{
		client:      httpClient,
		apiUrl:      cfg.ApiUrl,
		apiToken:    cfg.ApiToken,
		currency:    currency,
		catalog:     catalog,
		cacheMaxAge: cacheMaxAge,
	}, nil
}

func createCustomHttpClient() (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

// Catalog returns the configured gold purity grades.
func (s *Service) Catalog() []CatalogEntry {
	return s.catalog
}

// FetchCurrentPrices returns one quote per catalog gold type. The result is
// served from cache when fresh enough; otherwise the upstream API is asked
// for the spot price and per-purity quotes are derived from it, falling back
// to simulated quotes on any upstream failure.
func (s *Service) FetchCurrentPrices(ctx context.Context) ([]models.GoldPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cachedAt) < s.cacheMaxAge {
		quotes := make([]models.GoldPrice, len(s.cached))
		copy(quotes, s.cached)
		return quotes, nil
	}

	var quotes []models.GoldPrice
	if s.apiUrl != "" {
		spot, err := s.fetchSpotPrice(ctx)
		if err != nil {
			zap.L().Warn("Spot price fetch failed, using simulated quotes", zap.Error(err))
			quotes = s.simulatedQuotes()
		} else {
			quotes = s.deriveQuotes(spot)
		}
	} else {
		quotes = s.simulatedQuotes()
	}

	s.cached = quotes
	s.cachedAt = time.Now()

	result := make([]models.GoldPrice, len(quotes))
	copy(result, quotes)
	return result, nil
}

func (s *Service) fetchSpotPrice(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiUrl, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to build spot price request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiToken != "" {
		req.Header.Set("x-access-token", s.apiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("spot price request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("spot price API returned status %d", resp.StatusCode)
	}

	var quote spotQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return decimal.Zero, fmt.Errorf("unable to decode spot price response: %w", err)
	}
	if quote.Price <= 0 {
		return decimal.Zero, fmt.Errorf("spot price API returned non-positive price %v", quote.Price)
	}

	return decimal.NewFromFloat(quote.Price), nil
}

// deriveQuotes spreads the 24K spot price across the catalog by purity,
// with a small random variation per grade.
func (s *Service) deriveQuotes(spot decimal.Decimal) []models.GoldPrice {
	now := time.Now().UTC()
	quotes := make([]models.GoldPrice, 0, len(s.catalog))

	for _, entry := range s.catalog {
		multiplier := decimal.NewFromInt(int64(entry.Purity)).Div(decimal.NewFromInt(24))
		base := spot.Mul(multiplier)

		variation := decimal.NewFromFloat((rand.Float64() - 0.5) * 0.02) // within ±1%
		price := base.Mul(decimal.NewFromInt(1).Add(variation)).Round(2)

		change := price.Sub(base).Round(2)
		changePercent := decimal.Zero
		if base.IsPositive() {
			changePercent = change.Div(base).Mul(decimal.NewFromInt(100)).Round(2)
		}

		quotes = append(quotes, models.GoldPrice{
			GoldType:      entry.Name,
			Price:         price,
			Change:        change,
			ChangePercent: changePercent,
			Volume:        rand.Int63n(1000) + 200,
			Timestamp:     now,
			Currency:      s.currency,
		})
	}

	return quotes
}

// simulatedQuotes produces demo quotes from the catalog base prices with a
// slow time-based drift plus a little noise.
func (s *Service) simulatedQuotes() []models.GoldPrice {
	now := time.Now().UTC()
	quotes := make([]models.GoldPrice, 0, len(s.catalog))

	drift := math.Sin(float64(now.UnixMilli())/10000) * 0.01
	for _, entry := range s.catalog {
		noise := (rand.Float64() - 0.5) * 0.005
		factor := decimal.NewFromFloat(1 + drift + noise)
		price := entry.BasePrice.Mul(factor).Round(2)

		change := price.Sub(entry.BasePrice).Round(2)
		changePercent := change.Div(entry.BasePrice).Mul(decimal.NewFromInt(100)).Round(2)

		quotes = append(quotes, models.GoldPrice{
			GoldType:      entry.Name,
			Price:         price,
			Change:        change,
			ChangePercent: changePercent,
			Volume:        rand.Int63n(1000) + 200,
			Timestamp:     now,
			Currency:      s.currency,
		})
	}

	return quotes
}

// PriceHistory returns synthetic hourly samples for charting, newest last.
func (s *Service) PriceHistory(goldType string, hours int) []models.PricePoint {
	if hours <= 0 {
		hours = 24
	}

	base := s.basePriceFor(goldType)
	now := time.Now().UTC()

	history := make([]models.PricePoint, 0, hours+1)
	for i := hours; i >= 0; i-- {
		ts := now.Add(-time.Duration(i) * time.Hour)
		drift := math.Sin(float64(ts.UnixMilli())/10000) * 0.02
		noise := (rand.Float64() - 0.5) * 0.01
		price := base.Mul(decimal.NewFromFloat(1 + drift + noise)).Round(2)

		history = append(history, models.PricePoint{Timestamp: ts, Price: price})
	}

	return history
}

func (s *Service) basePriceFor(goldType string) decimal.Decimal {
	for _, entry := range s.catalog {
		if entry.Name == goldType {
			return entry.BasePrice
		}
	}
	// Unknown grade: middle-of-the-road fallback so charts still render.
	return decimal.NewFromInt(150000)
}
