// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable ParseFlags reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "JWT_SECRET",
		"STREAM_INTERVAL", "CAST_TIMEOUT", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("STREAM_INTERVAL", "500ms")
	t.Setenv("CAST_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_TOPIC", "votes")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("expected env secret, got %s", cfg.JWTSecret)
	}
	if cfg.StreamInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms interval, got %v", cfg.StreamInterval)
	}
	if cfg.CastTimeout != 3*time.Second {
		t.Errorf("expected 3s cast timeout, got %v", cfg.CastTimeout)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopic != "votes" {
		t.Errorf("expected topic votes, got %s", cfg.KafkaTopic)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-jwt-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.StreamInterval != 2*time.Second || cfg.CastTimeout != 5*time.Second {
		t.Errorf("unexpected default durations %v / %v", cfg.StreamInterval, cfg.CastTimeout)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopic != "ballot-events" {
		t.Errorf("expected default topic, got %s", cfg.KafkaTopic)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STREAM_INTERVAL", "10s")

	cfg, err := ParseFlags([]string{
		"-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1",
		"-stream-interval", "250ms", "-kafka-brokers", "localhost:9092",
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.StreamInterval != 250*time.Millisecond {
		t.Errorf("CLI should override env: expected 250ms, got %v", cfg.StreamInterval)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Errorf("unexpected brokers %v", cfg.KafkaBrokers)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", nil, []string{"-jwt-secret", "s1"}},
		{"missing jwt secret", nil, []string{"-d", "file:test.db"}},
		{"bad port env", map[string]string{"PORT": "abc"}, []string{"-d", "x", "-jwt-secret", "s1"}},
		{"port out of range", nil, []string{"-p", "70000", "-d", "x", "-jwt-secret", "s1"}},
		{"unknown database type", nil, []string{"-d", "x", "-t", "mysql", "-jwt-secret", "s1"}},
		{"bad interval env", map[string]string{"STREAM_INTERVAL": "soon"}, []string{"-d", "x", "-jwt-secret", "s1"}},
		{"negative timeout", nil, []string{"-d", "x", "-jwt-secret", "s1", "-cast-timeout", "-1s"}},
		{"unknown flag", nil, []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("LoadDotEnv() error = %v", err)
		}
	})

	t.Run("loads without overriding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "QV_TEST_FROM_FILE=file\nQV_TEST_PRESET=file\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		t.Setenv("QV_TEST_PRESET", "process")
		t.Cleanup(func() { os.Unsetenv("QV_TEST_FROM_FILE") })

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}
		if got := os.Getenv("QV_TEST_FROM_FILE"); got != "file" {
			t.Errorf("QV_TEST_FROM_FILE = %q", got)
		}
		if got := os.Getenv("QV_TEST_PRESET"); got != "process" {
			t.Errorf("existing variable overridden: %q", got)
		}
	})
}
