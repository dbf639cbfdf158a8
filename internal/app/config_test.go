package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("unexpected logger error: %v", err)
	}
	return log
}

func writeOverlay(t *testing.T, contents string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	t.Setenv("LEARNHUB_CONFIG", path)
}

func TestLoadConfigOverlay(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	writeOverlay(t, `
port: "9090"
jwt_secret_key: overlaysecret
access_token_ttl_seconds: 600
cors_allowed_origins:
  - https://app.example.com
  - https://staging.example.com
`)

	cfg := LoadConfig(testLogger(t))

	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: got=%q want=%q", cfg.Port, "9090")
	}
	if cfg.JWTSecretKey != "overlaysecret" {
		t.Fatalf("unexpected secret: got=%q", cfg.JWTSecretKey)
	}
	if cfg.AccessTokenTTL != 600*time.Second {
		t.Fatalf("unexpected access ttl: got=%v", cfg.AccessTokenTTL)
	}
	// No overlay value, so the default applies.
	if cfg.RefreshTokenTTL != 86400*time.Second {
		t.Fatalf("unexpected refresh ttl: got=%v", cfg.RefreshTokenTTL)
	}
	want := []string{"https://app.example.com", "https://staging.example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("unexpected cors origins: got=%v want=%v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoadConfigEnvWinsOverOverlay(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("JWT_SECRET_KEY", "envsecret")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://env.example.com, https://other.example.com")
	writeOverlay(t, `
port: "9090"
jwt_secret_key: overlaysecret
cors_allowed_origins:
  - https://file.example.com
`)

	cfg := LoadConfig(testLogger(t))

	if cfg.Port != "7070" {
		t.Fatalf("unexpected port: got=%q want=%q", cfg.Port, "7070")
	}
	if cfg.JWTSecretKey != "envsecret" {
		t.Fatalf("unexpected secret: got=%q", cfg.JWTSecretKey)
	}
	want := []string{"https://env.example.com", "https://other.example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("unexpected cors origins: got=%v want=%v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoadConfigDefaultsWithoutOverlay(t *testing.T) {
	t.Setenv("LEARNHUB_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := LoadConfig(testLogger(t))

	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: got=%q want=%q", cfg.Port, "8080")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("unexpected cors origins: got=%v want empty", cfg.CORSAllowedOrigins)
	}
}
