package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/learnhub/learnhub-backend/internal/platform/envutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
)

type Config struct {
	Port               string
	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	CORSAllowedOrigins []string
}

// fileConfig is the optional YAML overlay. Environment variables win over the
// file so container deployments can override single values without editing it.
type fileConfig struct {
	Port               string   `yaml:"port"`
	JWTSecretKey       string   `yaml:"jwt_secret_key"`
	AccessTokenTTL     int      `yaml:"access_token_ttl_seconds"`
	RefreshTokenTTL    int      `yaml:"refresh_token_ttl_seconds"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

func LoadConfig(log *logger.Logger) Config {
	fc := loadFileConfig(log)

	cfg := Config{
		Port:               envutil.String("PORT", firstNonEmpty(fc.Port, "8080")),
		JWTSecretKey:       envutil.String("JWT_SECRET_KEY", firstNonEmpty(fc.JWTSecretKey, "defaultsecret")),
		AccessTokenTTL:     time.Duration(envutil.Int("ACCESS_TOKEN_TTL", firstPositive(fc.AccessTokenTTL, 3600))) * time.Second,
		RefreshTokenTTL:    time.Duration(envutil.Int("REFRESH_TOKEN_TTL", firstPositive(fc.RefreshTokenTTL, 86400))) * time.Second,
		CORSAllowedOrigins: corsOrigins(fc.CORSAllowedOrigins),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set, using the insecure default")
	}
	return cfg
}

func loadFileConfig(log *logger.Logger) fileConfig {
	var fc fileConfig
	path := strings.TrimSpace(os.Getenv("LEARNHUB_CONFIG"))
	if path == "" {
		return fc
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("config file unreadable, using env only", "path", path, "error", err)
		return fc
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Warn("config file invalid, using env only", "path", path, "error", fmt.Errorf("parse yaml: %w", err))
		return fileConfig{}
	}
	return fc
}

// corsOrigins resolves the allowed origins: the CORS_ALLOWED_ORIGINS env var
// (comma-separated) wins over the overlay list. Empty means the middleware's
// local dev defaults.
func corsOrigins(fromFile []string) []string {
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return origins
	}
	var origins []string
	for _, o := range fromFile {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
