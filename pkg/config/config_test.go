package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Window.Duration != 15*time.Minute {
		t.Errorf("window duration = %v, want 15m", c.Window.Duration)
	}
	if c.Window.SweepInterval != time.Minute {
		t.Errorf("sweep interval = %v, want 1m", c.Window.SweepInterval)
	}
	if c.Binance.ReconnectDelay != 5*time.Second {
		t.Errorf("reconnect delay = %v, want 5s", c.Binance.ReconnectDelay)
	}
	if c.Redis.Host != "localhost" || c.Redis.Port != 6379 {
		t.Errorf("redis default = %s:%d, want localhost:6379", c.Redis.Host, c.Redis.Port)
	}
	if c.KafkaEnabled() {
		t.Error("kafka should be disabled without brokers")
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing environment")
	}
}

func TestLoadRejectsKafkaBrokersWithoutTopic(t *testing.T) {
	path := writeConfig(t, "environment: test\nkafka:\n  brokers: [\"localhost:9092\"]\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for brokers without topic")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("BINANCE_WS_URL", "wss://example.com/ws/!forceOrder@arr")
	t.Setenv("PORT", "9090")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Redis.Host != "redis.internal" || c.Redis.Port != 6380 {
		t.Errorf("redis = %s:%d, want redis.internal:6380", c.Redis.Host, c.Redis.Port)
	}
	if c.Binance.WebSocketURL != "wss://example.com/ws/!forceOrder@arr" {
		t.Errorf("ws url = %s", c.Binance.WebSocketURL)
	}
	if c.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", c.Server.Port)
	}
}
