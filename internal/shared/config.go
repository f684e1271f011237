package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	MetricsAddr string

	PlayStoreCSV string
	ReviewsCSV   string
	CleanedCSV   string
	CombinedCSV  string

	CacheBackend  string // file|redis
	CacheFile     string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	RedisCacheKey string

	AppStoreBase    string
	AppStoreHost    string
	AppStoreKey     string
	AppStoreRPS     int
	AppStoreTimeout time.Duration
	UseMock         bool
	MockSeed        int64

	SamplePerCategory int
	SampleSeed        int64

	MySQLDSN string

	StubAddr   string
	StubAPIKey string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atoi64 := func(k string, def int64) int64 {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		MetricsAddr: env("METRICS_ADDR", ""),

		PlayStoreCSV: env("PLAYSTORE_CSV", "data/googleplaystore_apps.csv"),
		ReviewsCSV:   env("REVIEWS_CSV", "data/googleplaystore_apps_user_reviews.csv"),
		CleanedCSV:   env("CLEANED_CSV", "data/processed/googleplaystore_final_data.csv"),
		CombinedCSV:  env("COMBINED_CSV", "data/processed/googleplaystore_and_appstore_combined_data.csv"),

		CacheBackend:  strings.ToLower(env("CACHE_BACKEND", "file")),
		CacheFile:     env("CACHE_FILE", "data/processed/appstore_api_response.json"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisCacheKey: env("REDIS_CACHE_KEY", "appstore:records"),

		AppStoreBase:    env("APPSTORE_BASE_URL", "https://appstore-scrapper-api.p.rapidapi.com"),
		AppStoreHost:    env("APPSTORE_HOST", "appstore-scrapper-api.p.rapidapi.com"),
		AppStoreKey:     env("APPSTORE_API_KEY", ""),
		AppStoreRPS:     atoi("APPSTORE_RPS", 5),
		AppStoreTimeout: time.Duration(atoi("APPSTORE_TIMEOUT_SECONDS", 20)) * time.Second,
		UseMock:         boolEnv("USE_MOCK", true),
		MockSeed:        atoi64("MOCK_SEED", 0),

		SamplePerCategory: atoi("SAMPLE_PER_CATEGORY", 200),
		SampleSeed:        atoi64("SAMPLE_SEED", 42),

		MySQLDSN: env("MYSQL_DSN", ""),

		StubAddr:   env("STUB_ADDR", ":8090"),
		StubAPIKey: env("STUB_API_KEY", ""),
	}
	if !c.UseMock && c.AppStoreKey == "" {
		log.Warn().Msg("APPSTORE_API_KEY is empty while USE_MOCK=false")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
