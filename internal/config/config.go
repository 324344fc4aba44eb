// README: Config loader with env defaults for HTTP, Redis, DB, caches, and API keys.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		// DSN is optional; when empty the trip history store is disabled.
		DSN string
	}
	Redis struct {
		Addr string
	}
	AI struct {
		GeminiKey string
		Model     string
	}
	Maps struct {
		APIKey string
	}
	Amadeus struct {
		APIKey    string
		APISecret string
		BaseURL   string
	}
	Rates struct {
		Endpoint string
		CacheTTL time.Duration
	}
	Artifacts struct {
		Dir    string
		MaxAge time.Duration
	}
	Session struct {
		TTL time.Duration
	}
	Planner struct {
		StageTimeout time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from the environment. A local .env file is applied
// first when present. Missing required credentials make Load fail so the
// process never starts serving without them.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("EXPEDITION_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("EXPEDITION_DB_DSN")
	cfg.Redis.Addr = envOrDefault("EXPEDITION_REDIS_ADDR", "localhost:6379")
	cfg.AI.Model = envOrDefault("EXPEDITION_GEMINI_MODEL", "gemini-2.0-flash")
	cfg.Amadeus.BaseURL = envOrDefault("AMADEUS_BASE_URL", "https://test.api.amadeus.com")
	cfg.Rates.Endpoint = envOrDefault("EXPEDITION_RATES_ENDPOINT", "https://open.er-api.com/v6/latest/USD")
	cfg.Rates.CacheTTL = envOrDefaultDuration("EXPEDITION_RATES_TTL", time.Hour)
	cfg.Artifacts.Dir = envOrDefault("EXPEDITION_ARTIFACT_DIR", os.TempDir())
	cfg.Artifacts.MaxAge = envOrDefaultDuration("EXPEDITION_ARTIFACT_MAX_AGE", time.Hour)
	cfg.Session.TTL = envOrDefaultDuration("EXPEDITION_SESSION_TTL", 30*time.Minute)
	cfg.Planner.StageTimeout = envOrDefaultDuration("EXPEDITION_STAGE_TIMEOUT", 10*time.Second)
	cfg.Log.Level = envOrDefault("EXPEDITION_LOG_LEVEL", "info")
	cfg.Log.Format = envOrDefault("EXPEDITION_LOG_FORMAT", "json")

	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.Maps.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.Amadeus.APIKey = os.Getenv("AMADEUS_API_KEY")
	cfg.Amadeus.APISecret = os.Getenv("AMADEUS_API_SECRET")

	required := []struct {
		key string
		val string
	}{
		{"GEMINI_API_KEY", cfg.AI.GeminiKey},
		{"GOOGLE_MAPS_API_KEY", cfg.Maps.APIKey},
		{"AMADEUS_API_KEY", cfg.Amadeus.APIKey},
		{"AMADEUS_API_SECRET", cfg.Amadeus.APISecret},
	}
	var missing []string
	for _, r := range required {
		if r.val == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
