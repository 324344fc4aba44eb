// README: Currency conversion into USD with cached live rates.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKey = "rates:usd"

// ErrUnknownCurrency is returned for currencies absent from both the live
// table and the fallback table.
var ErrUnknownCurrency = errors.New("unknown currency")

// fallbackRates approximate USD rates used when the live fetch fails.
var fallbackRates = map[string]float64{
	"USD": 1, "INR": 83.5, "EUR": 0.92, "JPY": 150.2, "GBP": 0.79, "CHF": 0.88,
}

// Service converts budgets into USD. Live rates come from an exchange-rate
// API and are cached in redis; the static table keeps conversion working
// when both are unavailable.
type Service struct {
	httpClient *http.Client
	cache      *redis.Client
	endpoint   string
	cacheTTL   time.Duration
	log        *zap.Logger
}

func NewService(endpoint string, cache *redis.Client, cacheTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		endpoint:   endpoint,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// ToUSD converts amount from the given currency into USD.
func (s *Service) ToUSD(ctx context.Context, amount float64, currency string) (float64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == "USD" {
		return amount, nil
	}

	table := s.rates(ctx)
	rate, ok := table[currency]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return amount / rate, nil
}

// rates returns the best available rate table: cache, then live fetch, then
// the static fallback.
func (s *Service) rates(ctx context.Context) map[string]float64 {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var table map[string]float64
			if json.Unmarshal([]byte(cached), &table) == nil && len(table) > 0 {
				return table
			}
		}
	}

	table, err := s.fetch(ctx)
	if err != nil {
		s.log.Warn("live rate fetch failed, using fallback table", zap.Error(err))
		return fallbackRates
	}

	if s.cache != nil {
		if raw, err := json.Marshal(table); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn("rate cache write failed", zap.Error(err))
			}
		}
	}
	return table
}

func (s *Service) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate api returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if len(body.Rates) == 0 {
		return nil, errors.New("rate api returned no rates")
	}
	return body.Rates, nil
}
