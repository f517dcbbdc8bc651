package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"leaveledger/internal/registry"
)

type Config struct {
	Addr string

	SlackToken string

	GoogleSheetID      string
	ServiceAccountFile string
	SheetRange         string

	// Comma-separated broker list; resolution events stay in memory when
	// empty.
	KafkaBrokers []string

	RegistryCapacity int
	RegistryTTL      time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Defaults match the original deployment: port 3000 and
// the VACATION sheet range.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:               getenv("ADDR", ":3000"),
		SlackToken:         getenv("SLACK_API_TOKEN", ""),
		GoogleSheetID:      getenv("GOOGLE_SHEET_ID", ""),
		ServiceAccountFile: getenv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		SheetRange:         getenv("SHEET_RANGE", "VACATION!A2:E"),
		KafkaBrokers:       splitList(getenv("KAFKA_BROKERS", "")),
		RegistryCapacity:   getenvInt("REGISTRY_CAPACITY", registry.DefaultCapacity),
		RegistryTTL:        time.Duration(getenvInt("REGISTRY_TTL_HOURS", int(registry.DefaultTTL/time.Hour))) * time.Hour,
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
