package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "IdeaBoard"
	defaultAppEnv        = EnvDevelopment
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second
	defaultSessionTTL    = 7 * 24 * time.Hour
	defaultResetTTL      = time.Hour
	defaultLoginPerMin   = 5
	defaultDevOrigins    = "http://localhost:3000"

	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	sessionTTLEnvVar       = "SESSION_TTL"
	resetTTLEnvVar         = "RESET_TOKEN_TTL"
	loginRateEnvVar        = "LOGIN_RATE_PER_MIN"
)

// Recognized values for APP_ENV.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	SessionTTL      time.Duration
	ResetTokenTTL   time.Duration
	AllowedOrigins  []string
	LoginRatePerMin int
	ShutdownPeriod  time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. Missing security-critical values outside development are a hard
// failure so the process never boots with a degraded policy.
func Load() (Config, error) {
	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SessionTTL:      defaultSessionTTL,
		ResetTokenTTL:   defaultResetTTL,
		LoginRatePerMin: defaultLoginPerMin,
		ShutdownPeriod:  defaultShutdownDelay,
	}

	switch cfg.AppEnv {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q", cfg.AppEnv)
	}

	if v := os.Getenv(sessionTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", sessionTTLEnvVar, err)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv(resetTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", resetTTLEnvVar, err)
		}
		cfg.ResetTokenTTL = d
	}

	if v := os.Getenv(loginRateEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", loginRateEnvVar, err)
		}
		cfg.LoginRatePerMin = n
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	cfg.AllowedOrigins = allowedOrigins(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		if cfg.AppEnv != EnvDevelopment {
			return Config{}, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.JWTSecret = "dev-only-insecure-secret"
	}

	if cfg.AppEnv != EnvDevelopment && len(cfg.AllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS allow-list must be set when APP_ENV=%s", cfg.AppEnv)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	return cfg, nil
}

// allowedOrigins returns the CORS allow-list scoped to the given environment.
// It is resolved exactly once at Load time and never re-read, so the process
// has a single immutable CORS authority.
func allowedOrigins(env string) []string {
	var raw string
	switch env {
	case EnvProduction:
		raw = os.Getenv("CORS_ALLOWED_ORIGINS_PROD")
	case EnvStaging:
		raw = os.Getenv("CORS_ALLOWED_ORIGINS_STAGING")
	default:
		raw = getEnv("CORS_ALLOWED_ORIGINS_DEV", defaultDevOrigins)
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// IsProduction reports whether the app runs with production security posture.
func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
