// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"zync/backend/internal/challenge"
	challengedomain "zync/backend/internal/challenge/domain"
	"zync/backend/internal/zyncconfig/domain"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP API listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address of the gRPC health endpoint; empty disables it.
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN shared with the host platform; empty selects the in-memory store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// DeployerURL, when set, overwrites the stored Instancer URL at startup.
	DeployerURL string `mapstructure:"ZYNC_DEPLOYER_URL"`
	// JWTSecret, when set, overwrites the stored Instancer signing secret at startup.
	JWTSecret string `mapstructure:"ZYNC_JWT_SECRET"`
	// SeedChallenges lists "id:category:name" entries, comma separated, that seed the in-memory
	// challenge directory when DatabaseURL is empty.
	SeedChallenges string `mapstructure:"ZYNC_SEED_CHALLENGES"`
	// ConfigCheckTimeout bounds the Instancer connectivity check on admin save (e.g. "5s").
	ConfigCheckTimeout string `mapstructure:"CONFIG_CHECK_TIMEOUT"`

	// HostJWTPublicKey is the PEM-encoded public key (or path) the host platform signs identity assertions with.
	HostJWTPublicKey string `mapstructure:"HOST_JWT_PUBLIC_KEY"`
	// HostJWTIssuer is the expected iss claim of host identity assertions.
	HostJWTIssuer string `mapstructure:"HOST_JWT_ISSUER"`
	// HostJWTAudience is the expected aud claim of host identity assertions.
	HostJWTAudience string `mapstructure:"HOST_JWT_AUDIENCE"`

	// OTelEndpoint is the OTLP gRPC collector endpoint; empty uses no-op providers.
	OTelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTelInsecure forces a plaintext OTLP connection even for https endpoints.
	OTelInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// LogLevel is the hclog level name (trace, debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// LogJSON switches log output to JSON lines.
	LogJSON bool `mapstructure:"LOG_JSON"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("GRPC_ADDR", ":8081")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ZYNC_DEPLOYER_URL", "")
	v.SetDefault("ZYNC_JWT_SECRET", "")
	v.SetDefault("ZYNC_SEED_CHALLENGES", "")
	v.SetDefault("CONFIG_CHECK_TIMEOUT", "5s")
	v.SetDefault("HOST_JWT_PUBLIC_KEY", "")
	v.SetDefault("HOST_JWT_ISSUER", "ctfd")
	v.SetDefault("HOST_JWT_AUDIENCE", "zync")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "zync-bridge")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.HostJWTIssuer == "" || cfg.HostJWTAudience == "" {
		return nil, errors.New("config: HOST_JWT_ISSUER and HOST_JWT_AUDIENCE must be set")
	}
	if u := strings.TrimSpace(cfg.DeployerURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return nil, errors.New("config: ZYNC_DEPLOYER_URL must be an http or https URL")
	}
	if _, err := cfg.Challenges(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CheckTimeout parses ConfigCheckTimeout as a time.Duration. Returns 5s if unset or invalid.
func (c *Config) CheckTimeout() time.Duration {
	d, err := time.ParseDuration(c.ConfigCheckTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// StartupOverride returns the Instancer fields supplied by the environment.
// Unset (empty) variables leave the corresponding stored field untouched.
func (c *Config) StartupOverride() domain.Update {
	var u domain.Update
	if c == nil {
		return u
	}
	if s := strings.TrimSpace(c.DeployerURL); s != "" {
		u.DeployerURL = &s
	}
	if s := c.JWTSecret; strings.TrimSpace(s) != "" {
		u.JWTSecret = &s
	}
	return u
}

// Challenges parses SeedChallenges. Entries are "id:category:name"; the name may contain colons.
func (c *Config) Challenges() ([]challengedomain.Challenge, error) {
	var out []challengedomain.Challenge
	for _, entry := range strings.Split(c.SeedChallenges, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("config: ZYNC_SEED_CHALLENGES entry %q must be id:category:name", entry)
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: ZYNC_SEED_CHALLENGES entry %q: invalid id", entry)
		}
		out = append(out, challengedomain.Challenge{ID: id, Category: parts[1], Name: parts[2], Type: challenge.ZyncTypeID})
	}
	return out, nil
}
