package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port      string
	StaticDir string
	// Upstream
	Provider        string
	MetalPriceURL   string
	MetalPriceKey   string
	UpstreamTimeout time.Duration
	// Cache slot
	CacheTTL      time.Duration
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisCacheKey string
	// History
	Storage      string
	DatabaseURL  string
	HistoryLimit int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", "8080"),
		StaticDir:       getEnv("STATIC_DIR", "public"),
		Provider:        getEnv("PROVIDER", "metalpriceapi"),
		MetalPriceURL:   getEnv("METALPRICE_API_URL", "https://api.metalpriceapi.com/v1/latest"),
		MetalPriceKey:   getEnv("METALPRICE_API_KEY", ""),
		UpstreamTimeout: durMS("UPSTREAM_TIMEOUT_MS", 0),
		CacheTTL:        durMS("CACHE_TTL_MS", 60000),
		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisCacheKey:   getEnv("REDIS_CACHE_KEY", "metalprice:quote"),
		Storage:         getEnv("STORAGE", "none"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		HistoryLimit:    atoiDef(getEnv("HISTORY_LIMIT", "50"), 50),
	}
}
