package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-curriculum/internal/platform/envutil"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       2 * time.Minute,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Database: DatabaseConfig{
			Driver:       DriverPostgres,
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Name:         "curriculum",
			SSLMode:      "disable",
			SQLitePath:   "curriculum.db",
			MaxOpenConns: 10,
			AutoMigrate:  true,
		},
		Auth: AuthConfig{
			JWTSecretKey: "defaultsecret",
			JWTIssuer:    "",
		},
		Telemetry: TelemetryConfig{
			MetricsAddr:    ":9090",
			OtelSampler:    0.1,
			ServiceName:    "curriculum",
			ServiceVersion: "dev",
		},
	}
}

// Load resolves configuration from defaults, an optional YAML file, a .env file
// and finally process environment variables (highest precedence).
func Load() (*Config, error) {
	cfg := defaultConfig()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfgPath := strings.TrimSpace(os.Getenv("CURRICULUM_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		if err := loadFile(cfgPath, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	cfg.HTTP.ReadHeaderTimeout = envutil.Duration("HTTP_READ_HEADER_TIMEOUT", cfg.HTTP.ReadHeaderTimeout)
	cfg.HTTP.IdleTimeout = envutil.Duration("HTTP_IDLE_TIMEOUT", cfg.HTTP.IdleTimeout)
	cfg.HTTP.ShutdownTimeout = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)
	cfg.HTTP.CORSOrigins = envutil.List("CORS_ALLOW_ORIGINS", cfg.HTTP.CORSOrigins)

	cfg.Database.Driver = strings.ToLower(envutil.String("DB_DRIVER", cfg.Database.Driver))
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)
	cfg.Database.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.AutoMigrate = envutil.Bool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Auth.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecretKey)
	cfg.Auth.JWTIssuer = envutil.String("JWT_ISSUER", cfg.Auth.JWTIssuer)

	cfg.Telemetry.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.Telemetry.MetricsEnabled)
	cfg.Telemetry.MetricsAddr = envutil.String("METRICS_ADDR", cfg.Telemetry.MetricsAddr)
	cfg.Telemetry.OtelEnabled = envutil.Bool("OTEL_ENABLED", cfg.Telemetry.OtelEnabled)
	cfg.Telemetry.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OtelEndpoint)
	cfg.Telemetry.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Telemetry.OtelInsecure)
	cfg.Telemetry.OtelSampler = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Telemetry.OtelSampler)
	cfg.Telemetry.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
	cfg.Telemetry.ServiceVersion = envutil.String("SERVICE_VERSION", cfg.Telemetry.ServiceVersion)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Env) == "" {
		c.Env = "development"
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 15 * time.Second
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.Name) == "" {
			return errors.New("postgres driver requires host and name")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			return errors.New("sqlite driver requires sqlite_path")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Telemetry.OtelSampler < 0 || c.Telemetry.OtelSampler > 1 {
		return fmt.Errorf("otel_sampler_ratio must be within [0,1], got %v", c.Telemetry.OtelSampler)
	}
	return nil
}

// PostgresDSN renders the URL form used by gorm's postgres driver.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
}
