package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	StateBackend string // redis|mysql
	StateTTL     time.Duration
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string

	AssistantBase  string
	AssistantKey   string
	AssistantModel string
	AssistantRPS   int

	AMQPURL      string
	AMQPExchange string

	PaymentConfirmDelay time.Duration
}

func Load() Config {
	// .env is optional; real env always wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		StateBackend: env("STATE_BACKEND", "redis"),
		StateTTL:     time.Duration(atoi("STATE_TTL_SECONDS", 0)) * time.Second,
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/wanderlust?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		RedisPass:    env("REDIS_PASSWORD", ""),

		AssistantBase:  env("ASSISTANT_BASE_URL", "https://api.anthropic.com/v1"),
		AssistantKey:   env("ASSISTANT_API_KEY", ""),
		AssistantModel: env("ASSISTANT_MODEL", "claude-sonnet-4-20250514"),
		AssistantRPS:   atoi("ASSISTANT_RPS", 2),

		AMQPURL:      env("AMQP_URL", ""),
		AMQPExchange: env("AMQP_EXCHANGE", "wanderlust.events"),

		PaymentConfirmDelay: time.Duration(atoi("PAYMENT_CONFIRM_DELAY_MS", 1200)) * time.Millisecond,
	}
	if c.AssistantKey == "" {
		log.Warn().Msg("ASSISTANT_API_KEY is empty; assistant runs on local keyword matching only")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
