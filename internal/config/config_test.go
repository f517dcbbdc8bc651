package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Addr)
	}
	if cfg.SheetRange != "VACATION!A2:E" {
		t.Errorf("SheetRange = %q", cfg.SheetRange)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want empty", cfg.KafkaBrokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":8080")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("REGISTRY_CAPACITY", "32")
	t.Setenv("REGISTRY_TTL_HOURS", "48")

	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker-1:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.RegistryCapacity != 32 {
		t.Errorf("RegistryCapacity = %d", cfg.RegistryCapacity)
	}
	if cfg.RegistryTTL != 48*time.Hour {
		t.Errorf("RegistryTTL = %v", cfg.RegistryTTL)
	}
}

func TestGetenvIntMalformed(t *testing.T) {
	t.Setenv("REGISTRY_CAPACITY", "lots")

	cfg := Load()
	if cfg.RegistryCapacity <= 0 {
		t.Errorf("RegistryCapacity = %d, want fallback default", cfg.RegistryCapacity)
	}
}
