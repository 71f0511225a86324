package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	// Shared secret required by the cron-triggered generation endpoint
	// and the push broadcast endpoint.
	CronSecret string

	// AI generation service (OpenAI-compatible chat completions).
	AIBaseURL          string
	AIAPIKey           string
	AIModel            string
	AIMaxAttempts      int
	AIQualityThreshold int
	AITargetDifficulty int
	AIRequestTimeout   int // seconds, per provider call

	// Gameplay.
	MaxGuessesPerDay int

	// Background work.
	LogWorkerCount  int
	LogQueueSize    int
	PushWorkerCount int
	PushQueueSize   int

	// Web push (VAPID).
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string

	// Per-IP rate limit on the guess-submission endpoint.
	RateLimitPerSecond float64
	RateLimitBurst     int

	CORSOrigins []string

	// In-process scheduler pre-generating the next day's puzzle.
	SchedulerEnabled bool
	SchedulerSpec    string
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:     envOr("ADDR", ":8080"),
		DBPath:   envOr("DB_PATH", "file:rebuzzle.db"),
		LogLevel: envOr("LOG_LEVEL", "INFO"),

		CronSecret: envOr("CRON_SECRET", ""),

		AIBaseURL:          envOr("AI_BASE_URL", "https://api.openai.com/v1"),
		AIAPIKey:           envOr("AI_API_KEY", ""),
		AIModel:            envOr("AI_MODEL", "gpt-4o-mini"),
		AIMaxAttempts:      envIntOr("AI_MAX_ATTEMPTS", 3),
		AIQualityThreshold: envIntOr("AI_QUALITY_THRESHOLD", 70),
		AITargetDifficulty: envIntOr("AI_TARGET_DIFFICULTY", 5),
		AIRequestTimeout:   envIntOr("AI_REQUEST_TIMEOUT", 30),

		MaxGuessesPerDay: envIntOr("MAX_GUESSES_PER_DAY", 3),

		LogWorkerCount:  envIntOr("LOG_WORKER_COUNT", 1),
		LogQueueSize:    envIntOr("LOG_QUEUE_SIZE", 64),
		PushWorkerCount: envIntOr("PUSH_WORKER_COUNT", 2),
		PushQueueSize:   envIntOr("PUSH_QUEUE_SIZE", 128),

		VAPIDPublicKey:  envOr("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: envOr("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber: envOr("VAPID_SUBSCRIBER", "mailto:admin@rebuzzle.com"),

		RateLimitPerSecond: envFloatOr("RATE_LIMIT_PER_SECOND", 2),
		RateLimitBurst:     envIntOr("RATE_LIMIT_BURST", 5),

		CORSOrigins: envListOr("CORS_ORIGINS", []string{"*"}),

		SchedulerEnabled: envBoolOr("SCHEDULER_ENABLED", true),
		SchedulerSpec:    envOr("SCHEDULER_SPEC", "5 0 * * *"),
	}
}

// Validate checks the loaded configuration and reports every problem at
// once so a misconfigured deployment fails fast with a complete list.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.AIMaxAttempts < 1 {
		problems = append(problems, "AI_MAX_ATTEMPTS must be at least 1")
	}
	if c.AIQualityThreshold < 0 || c.AIQualityThreshold > 100 {
		problems = append(problems, "AI_QUALITY_THRESHOLD must be between 0 and 100")
	}
	if c.AITargetDifficulty < 1 || c.AITargetDifficulty > 10 {
		problems = append(problems, "AI_TARGET_DIFFICULTY must be between 1 and 10")
	}
	if c.MaxGuessesPerDay < 1 {
		problems = append(problems, "MAX_GUESSES_PER_DAY must be at least 1")
	}
	if c.LogWorkerCount < 1 {
		problems = append(problems, "LOG_WORKER_COUNT must be at least 1")
	}
	if c.LogQueueSize < 1 {
		problems = append(problems, "LOG_QUEUE_SIZE must be at least 1")
	}
	if c.PushWorkerCount < 1 {
		problems = append(problems, "PUSH_WORKER_COUNT must be at least 1")
	}
	if c.PushQueueSize < 1 {
		problems = append(problems, "PUSH_QUEUE_SIZE must be at least 1")
	}
	if c.RateLimitPerSecond <= 0 {
		problems = append(problems, "RATE_LIMIT_PER_SECOND must be positive")
	}
	if c.RateLimitBurst < 1 {
		problems = append(problems, "RATE_LIMIT_BURST must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
