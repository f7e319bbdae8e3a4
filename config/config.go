package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// R2 holds the Cloudflare R2 credentials used to fetch the catalog override.
type R2 struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// Enabled reports whether enough is set to build a client.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.Bucket != ""
}

type Config struct {
	Port               string
	DatabaseURL        string
	GameServiceToken   string
	AllowedOrigins     []string
	Location           *time.Location
	CatalogObjectKey   string
	QuestRetentionDays int
	R2                 R2
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "5200"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GameServiceToken: os.Getenv("GAME_SERVICE_TOKEN"),
		CatalogObjectKey: os.Getenv("CATALOG_OBJECT_KEY"),
		R2: R2{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.GameServiceToken == "" {
		return nil, fmt.Errorf("GAME_SERVICE_TOKEN environment variable not set")
	}

	cfg.AllowedOrigins = splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"))

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	days, err := strconv.Atoi(getEnv("QUEST_RETENTION_DAYS", "30"))
	if err != nil || days <= 0 {
		return nil, fmt.Errorf("QUEST_RETENTION_DAYS must be a positive integer")
	}
	cfg.QuestRetentionDays = days

	if cfg.CatalogObjectKey != "" && !cfg.R2.Enabled() {
		return nil, fmt.Errorf("CATALOG_OBJECT_KEY is set but R2 credentials are missing")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
