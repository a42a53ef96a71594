package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "WEBHOOK_SECRET", "SIGNATURE_HEADER",
		"SIGNATURE_MAX_AGE", "REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %v, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.SignatureHeader != "Loculabs-Signature" {
		t.Errorf("SignatureHeader = %v, want Loculabs-Signature", cfg.SignatureHeader)
	}
	if cfg.SignatureMaxAge != 5*time.Minute {
		t.Errorf("SignatureMaxAge = %v, want 5m", cfg.SignatureMaxAge)
	}
	if cfg.RedisAddress != "" {
		t.Errorf("RedisAddress = %v, want empty", cfg.RedisAddress)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WEBHOOK_SECRET", "whsec_test")
	t.Setenv("SIGNATURE_MAX_AGE", "10m")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %v, want 9090", cfg.Port)
	}
	if cfg.WebhookSecret != "whsec_test" {
		t.Errorf("WebhookSecret = %v, want whsec_test", cfg.WebhookSecret)
	}
	if cfg.SignatureMaxAge != 10*time.Minute {
		t.Errorf("SignatureMaxAge = %v, want 10m", cfg.SignatureMaxAge)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %v, want 3", cfg.RedisDB)
	}
}

func TestLoadMaxAgeOptOut(t *testing.T) {
	t.Setenv("SIGNATURE_MAX_AGE", "0")

	cfg := Load()
	if cfg.SignatureMaxAge != 0 {
		t.Errorf("SignatureMaxAge = %v, want 0 (temporal check disabled)", cfg.SignatureMaxAge)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{Port: "8080", WebhookSecret: "whsec_test"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on valid config = %v, want nil", err)
	}

	missingSecret := &Config{Port: "8080"}
	if err := missingSecret.Validate(); err == nil {
		t.Error("Validate() should require WEBHOOK_SECRET")
	}

	badPort := &Config{Port: "http", WebhookSecret: "whsec_test"}
	if err := badPort.Validate(); err == nil {
		t.Error("Validate() should reject non-numeric port")
	}

	badDB := &Config{Port: "8080", WebhookSecret: "whsec_test", RedisDB: 42}
	if err := badDB.Validate(); err == nil {
		t.Error("Validate() should reject out-of-range Redis DB")
	}
}
