package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is layered: built-in defaults, then the YAML file named by
// CONFIG_PATH, then environment variables.
type Config struct {
	AppEnv      string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level"`
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	MySQLDSN    string `yaml:"mysql_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPass   string `yaml:"redis_password"`

	HotelbedsBase     string `yaml:"hotelbeds_base_url"`
	HotelbedsKey      string `yaml:"hotelbeds_api_key"`
	HotelbedsSecret   string `yaml:"hotelbeds_api_secret"`
	HotelbedsLanguage string `yaml:"hotelbeds_language"`
	ProviderRPS       int    `yaml:"provider_rps"`
	ProviderInFlight  int    `yaml:"provider_max_in_flight"`

	StaticBatchSize  int `yaml:"static_batch_size"`
	StaticTTLSeconds int `yaml:"static_cache_ttl_seconds"`
	SearchTimeoutSec int `yaml:"search_timeout_seconds"`
	DefaultTopN      int `yaml:"default_top_n"`
	MaxTopN          int `yaml:"max_top_n"`

	KafkaBrokers     []string `yaml:"kafka_brokers"`
	KafkaSearchTopic string   `yaml:"kafka_search_topic"`

	IngestWorkers    int      `yaml:"ingest_workers"`
	IngestHotelCodes []string `yaml:"ingest_hotel_codes"`
	IngestAttempts   int      `yaml:"ingest_attempts"`
}

func (c Config) StaticTTL() time.Duration { return time.Duration(c.StaticTTLSeconds) * time.Second }

func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSec) * time.Second
}

func Defaults() Config {
	return Config{
		AppEnv:            "prod",
		LogLevel:          "info",
		HTTPAddr:          ":8080",
		MetricsAddr:       ":9100",
		RedisAddr:         "",
		HotelbedsBase:     "https://api.test.hotelbeds.com",
		HotelbedsLanguage: "ENG",
		ProviderRPS:       8,
		ProviderInFlight:  45,
		StaticBatchSize:   100,
		StaticTTLSeconds:  3600,
		SearchTimeoutSec:  25,
		DefaultTopN:       3,
		MaxTopN:           10,
		KafkaSearchTopic:  "hotel-searches",
		IngestWorkers:     4,
		IngestAttempts:    3,
	}
}

func Load() Config {
	c, err := LoadWith(os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if c.HotelbedsKey == "" || c.HotelbedsSecret == "" {
		log.Warn().Msg("HOTELBEDS_API_KEY or HOTELBEDS_API_SECRET is empty")
	}
	return c
}

// LoadWith resolves the config using getenv for both CONFIG_PATH and the
// overrides.
func LoadWith(getenv func(string) string) (Config, error) {
	c := Defaults()
	if path := getenv("CONFIG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	str := func(k string, dst *string) {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}
	var bad []string
	atoi := func(k string, dst *int) {
		if v := getenv(k); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				bad = append(bad, k)
				return
			}
			*dst = n
		}
	}
	list := func(k string, dst *[]string) {
		if v := getenv(k); v != "" {
			*dst = splitList(v)
		}
	}

	str("APP_ENV", &c.AppEnv)
	str("LOG_LEVEL", &c.LogLevel)
	str("HTTP_ADDR", &c.HTTPAddr)
	str("METRICS_ADDR", &c.MetricsAddr)
	str("MYSQL_DSN", &c.MySQLDSN)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPass)
	atoi("REDIS_DB", &c.RedisDB)
	str("HOTELBEDS_BASE_URL", &c.HotelbedsBase)
	str("HOTELBEDS_API_KEY", &c.HotelbedsKey)
	str("HOTELBEDS_API_SECRET", &c.HotelbedsSecret)
	str("HOTELBEDS_LANGUAGE", &c.HotelbedsLanguage)
	atoi("PROVIDER_RPS", &c.ProviderRPS)
	atoi("PROVIDER_MAX_IN_FLIGHT", &c.ProviderInFlight)
	atoi("STATIC_BATCH_SIZE", &c.StaticBatchSize)
	atoi("STATIC_CACHE_TTL_SECONDS", &c.StaticTTLSeconds)
	atoi("SEARCH_TIMEOUT_SECONDS", &c.SearchTimeoutSec)
	atoi("DEFAULT_TOP_N", &c.DefaultTopN)
	atoi("MAX_TOP_N", &c.MaxTopN)
	list("KAFKA_BROKERS", &c.KafkaBrokers)
	str("KAFKA_SEARCH_TOPIC", &c.KafkaSearchTopic)
	atoi("INGEST_WORKERS", &c.IngestWorkers)
	list("INGEST_HOTEL_CODES", &c.IngestHotelCodes)
	atoi("INGEST_ATTEMPTS", &c.IngestAttempts)

	if len(bad) > 0 {
		return Config{}, fmt.Errorf("not an integer: %s", strings.Join(bad, ", "))
	}
	if c.DefaultTopN > c.MaxTopN {
		return Config{}, fmt.Errorf("DEFAULT_TOP_N %d exceeds MAX_TOP_N %d", c.DefaultTopN, c.MaxTopN)
	}
	return c, nil
}

// splitList accepts comma or whitespace separated values.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' })
}
