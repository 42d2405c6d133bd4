// Package config loads process configuration from the environment. A .env
// file is honored in development via godotenv; real deployments set the
// variables directly.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	RedisAddr       string
	RedisPassword   string
	JWTSecret       string
	ShareSecret     string
	TrustStorePath  string
	FrontendBaseURL string
}

// FromEnv reads configuration, loading .env first if present. JWT_SECRET and
// TRUST_STORE_PATH are required; without them the service cannot issue
// sessions or verify any document, so startup fails instead.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envOr("PORT", "8080"),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ShareSecret:     os.Getenv("SHARE_TOKEN_SECRET"),
		TrustStorePath:  os.Getenv("TRUST_STORE_PATH"),
		FrontendBaseURL: envOr("FRONTEND_BASE_URL", "http://localhost:3000"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.TrustStorePath == "" {
		return nil, fmt.Errorf("config: TRUST_STORE_PATH is required")
	}
	if cfg.ShareSecret == "" {
		cfg.ShareSecret = cfg.JWTSecret
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
