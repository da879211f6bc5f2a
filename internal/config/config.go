// Package config collects runtime configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultPort            = "8080"
	defaultCatalogBaseURL  = "https://fakestoreapi.com"
	defaultSupplierBaseURL = "https://fakestoreapi.com"
	defaultCORSOrigins     = "http://localhost:5173,http://127.0.0.1:5173"
	defaultMarkupRate      = "1.20"
	defaultUpstreamMS      = 5000
	defaultShutdownSec     = 10
)

// Config holds the service's runtime knobs.
type Config struct {
	Port            string
	DatabaseURL     string
	CatalogBaseURL  string
	SupplierBaseURL string
	MarkupRate      decimal.Decimal
	CORSOrigins     []string
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, logging a warning for
// every default that kicks in. An empty DATABASE_URL selects the
// in-memory ledger.
func Load(logger *slog.Logger) Config {
	return Config{
		Port:            getenv(logger, "PORT", defaultPort),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CatalogBaseURL:  getenv(logger, "CATALOG_BASE_URL", defaultCatalogBaseURL),
		SupplierBaseURL: getenv(logger, "SUPPLIER_BASE_URL", defaultSupplierBaseURL),
		MarkupRate:      markupenv(logger, "MARKUP_RATE"),
		CORSOrigins:     splitCSV(getenv(logger, "CORS_ORIGINS", defaultCORSOrigins)),
		UpstreamTimeout: durenvms(logger, "UPSTREAM_TIMEOUT_MS", defaultUpstreamMS),
		ShutdownTimeout: durenvs(logger, "SHUTDOWN_TIMEOUT", defaultShutdownSec),
	}
}

func getenv(logger *slog.Logger, key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	logger.Warn("env not set, using default", "key", key, "default", def)
	return def
}

func markupenv(logger *slog.Logger, key string) decimal.Decimal {
	raw := getenv(logger, key, defaultMarkupRate)
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.LessThanOrEqual(decimal.Zero) {
		logger.Warn("invalid markup rate, using default", "key", key, "value", raw)
		rate = decimal.RequireFromString(defaultMarkupRate)
	}
	return rate
}

func durenvms(logger *slog.Logger, key string, defMS int) time.Duration {
	raw := getenv(logger, key, strconv.Itoa(defMS))
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		logger.Warn("invalid duration, using default", "key", key, "value", raw)
		ms = defMS
	}
	return time.Duration(ms) * time.Millisecond
}

func durenvs(logger *slog.Logger, key string, defSec int) time.Duration {
	raw := getenv(logger, key, strconv.Itoa(defSec))
	sec, err := strconv.Atoi(raw)
	if err != nil || sec <= 0 {
		logger.Warn("invalid duration, using default", "key", key, "value", raw)
		sec = defSec
	}
	return time.Duration(sec) * time.Second
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
