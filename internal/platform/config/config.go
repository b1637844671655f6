package config

import (
	"encoding/json"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the Fintide site server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	LLMEndpoint   string
	LLMAPIKey     string
	LLMModels     []string
	SentryDSN     string
	Environment   string
	AdminToken    string
	SeedContent   bool
	ShutdownGrace time.Duration
	RateLimit     RateLimitConfig
}

// RateLimitConfig configures the per-client HTTP rate limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
	// TrustedProxies are addresses or CIDR ranges allowed to set X-Forwarded-For.
	TrustedProxies []string
}

const (
	defaultDBPath         = "./data/fintide.db"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 20
	defaultRateLimitTTL   = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:      getEnv("DB_PATH", defaultDBPath),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		LLMEndpoint: strings.TrimSpace(os.Getenv("LLM_ENDPOINT")),
		LLMAPIKey:   strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: getEnv("ENV", defaultEnvironment),
		AdminToken:  strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
	}

	if modelsJSON := os.Getenv("LLM_MODELS"); modelsJSON != "" {
		models, err := parseModels(modelsJSON)
		if err != nil {
			return nil, eris.Wrap(err, "parsing LLM_MODELS")
		}
		cfg.LLMModels = models
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	seedValue := getEnv("SEED_CONTENT", "true")
	seed, err := strconv.ParseBool(seedValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SEED_CONTENT value: %s", seedValue)
	}
	cfg.SeedContent = seed

	if cfg.ShutdownGrace, err = durationEnv("SHUTDOWN_GRACE", defaultShutdownGrace); err != nil {
		return nil, err
	}

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.FormatFloat(defaultRateLimitRPS, 'f', -1, 64))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	burstValue := getEnv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	burst, err := strconv.Atoi(burstValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", burstValue)
	}
	cfg.RateLimit.Burst = burst

	if cfg.RateLimit.ClientTTL, err = durationEnv("RATE_LIMIT_CLIENT_TTL", defaultRateLimitTTL); err != nil {
		return nil, err
	}

	if cfg.RateLimit.TrustedProxies, err = proxiesEnv("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LLMEnabled reports whether enough configuration is present to build the summarizer.
func (c *Config) LLMEnabled() bool {
	return c.LLMAPIKey != "" && len(c.LLMModels) > 0
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}

	return value, nil
}

// proxiesEnv reads a comma separated list of IP addresses or CIDR ranges.
func proxiesEnv(key string) ([]string, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil, nil
	}

	var proxies []string
	for _, part := range strings.Split(raw, ",") {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}

		var err error
		if strings.Contains(value, "/") {
			_, err = netip.ParsePrefix(value)
		} else {
			_, err = netip.ParseAddr(value)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "invalid %s value: %s", key, value)
		}

		proxies = append(proxies, value)
	}

	return proxies, nil
}

func parseModels(raw string) ([]string, error) {
	// Accept either a JSON array of strings or an object with a `models` field.
	var arrayInput []string
	if err := json.Unmarshal([]byte(raw), &arrayInput); err == nil {
		return arrayInput, nil
	}

	var objectInput struct {
		Models []string `json:"models"`
	}
	if err := json.Unmarshal([]byte(raw), &objectInput); err != nil {
		return nil, eris.Wrap(err, "decoding JSON")
	}

	if len(objectInput.Models) == 0 {
		return nil, eris.New("models list is empty")
	}

	return objectInput.Models, nil
}
