package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultPort             = "8080"
	defaultLoadingDelayMs   = 800
	defaultLiveKeyPrefix    = "live"
	defaultSessionIdleTTL   = 30 * time.Minute
	defaultRateLimitMax     = 600
	defaultRateLimitWindowS = 60

	LiveSourceMemory = "memory"
	LiveSourceRedis  = "redis"
	LiveSourcePubSub = "pubsub"
)

// Settings is the typed view of the process environment.
type Settings struct {
	Port             string        `validate:"required,numeric"`
	Env              string        `validate:"omitempty,oneof=development staging production test"`
	LoadingDelay     time.Duration `validate:"gte=0"`
	LiveSource       string        `validate:"oneof=memory redis pubsub"`
	RedisAddress     string        `validate:"required_if=LiveSource redis,required_if=RateLimitEnabled true"`
	LiveKeyPrefix    string        `validate:"required"`
	PubSubProjectId  string        `validate:"required_if=LiveSource pubsub"`
	LiveTopic        string        `validate:"required_if=LiveSource pubsub"`
	LiveSubscription string        `validate:"required_if=LiveSource pubsub"`
	AllowedOrigins   []string      `validate:"dive,url"`
	SessionIdleTTL   time.Duration `validate:"gt=0"`
	RateLimitEnabled bool
	RateLimitMax     int64         `validate:"gt=0"`
	RateLimitWindow  time.Duration `validate:"gt=0"`
}

func (s Settings) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

// LoadSettings reads and validates the environment. The returned error wraps
// validator.ValidationErrors when a field is invalid.
func LoadSettings() (Settings, error) {
	s := Settings{
		Port:             stringFromEnv("PORT", defaultPort),
		Env:              strings.ToLower(strings.TrimSpace(os.Getenv("GO_ENV"))),
		LoadingDelay:     time.Duration(intFromEnv("LOADING_DELAY_MS", defaultLoadingDelayMs)) * time.Millisecond,
		LiveSource:       strings.ToLower(stringFromEnv("LIVE_SOURCE", LiveSourceMemory)),
		RedisAddress:     strings.TrimSpace(os.Getenv("REDIS_ADDRESS")),
		LiveKeyPrefix:    stringFromEnv("LIVE_KEY_PREFIX", defaultLiveKeyPrefix),
		PubSubProjectId:  getPubSubProjectID(),
		LiveTopic:        strings.TrimSpace(os.Getenv("LIVE_PUBSUB_TOPIC")),
		LiveSubscription: strings.TrimSpace(os.Getenv("LIVE_PUBSUB_SUBSCRIPTION")),
		AllowedOrigins:   splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
		SessionIdleTTL:   durationFromEnv("SESSION_IDLE_TTL", defaultSessionIdleTTL),
		// Optional rate limiting, backed by redis.
		RateLimitEnabled: envBoolDefault("RATE_LIMIT_ENABLED", false),
		RateLimitMax:     int64(intFromEnv("RATE_LIMIT_MAX_REQUESTS", defaultRateLimitMax)),
		RateLimitWindow:  time.Duration(intFromEnv("RATE_LIMIT_WINDOW_SECONDS", defaultRateLimitWindowS)) * time.Second,
	}
	if err := validator.New().Struct(s); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func stringFromEnv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envBoolDefault(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
