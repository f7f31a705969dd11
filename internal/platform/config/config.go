package config

import "time"

type Config struct {
	Env       string          `yaml:"env"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type HTTPConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins       []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver"`

	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`

	// SQLitePath is a file path or ":memory:".
	SQLitePath string `yaml:"sqlite_path"`

	MaxOpenConns int  `yaml:"max_open_conns"`
	AutoMigrate  bool `yaml:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecretKey string `yaml:"jwt_secret_key"`
	JWTIssuer    string `yaml:"jwt_issuer"`
}

type TelemetryConfig struct {
	MetricsEnabled bool    `yaml:"metrics_enabled"`
	MetricsAddr    string  `yaml:"metrics_addr"`
	OtelEnabled    bool    `yaml:"otel_enabled"`
	OtelEndpoint   string  `yaml:"otel_endpoint"`
	OtelInsecure   bool    `yaml:"otel_insecure"`
	OtelSampler    float64 `yaml:"otel_sampler_ratio"`
	ServiceName    string  `yaml:"service_name"`
	ServiceVersion string  `yaml:"service_version"`
}
