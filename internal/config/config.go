package config

import (
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"taxmitra/internal/filing"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Engine EngineConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds the reporting engine's policy constants. The defaults
// mirror filing.DefaultOptions; they are configuration so operators can tune
// them to a different OCR engine's noise profile without a rebuild.
type EngineConfig struct {
	MismatchTolerance float64  `mapstructure:"mismatch_tolerance"`
	PayThreshold      float64  `mapstructure:"pay_threshold"`
	NoiseMarkers      []string `mapstructure:"noise_markers"`
}

// FilingOptions converts the engine settings into filing options.
func (e *EngineConfig) FilingOptions() filing.Options {
	return filing.Options{
		PayThreshold:      decimal.NewFromFloat(e.PayThreshold),
		MismatchTolerance: decimal.NewFromFloat(e.MismatchTolerance),
		NoiseMarkers:      e.NoiseMarkers,
	}
}

// Load reads configuration from environment variables with the TAXMITRA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXMITRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Engine defaults
	v.SetDefault("engine.mismatch_tolerance", 0.5)
	v.SetDefault("engine.pay_threshold", 0.0)
	v.SetDefault("engine.noise_markers", "rate,total")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "TAXMITRA_SERVER_PORT",
		"server.read_timeout":       "TAXMITRA_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "TAXMITRA_SERVER_WRITE_TIMEOUT",
		"server.environment":        "TAXMITRA_SERVER_ENVIRONMENT",
		"log.level":                 "TAXMITRA_LOG_LEVEL",
		"log.format":                "TAXMITRA_LOG_FORMAT",
		"engine.mismatch_tolerance": "TAXMITRA_ENGINE_MISMATCH_TOLERANCE",
		"engine.pay_threshold":      "TAXMITRA_ENGINE_PAY_THRESHOLD",
		"engine.noise_markers":      "TAXMITRA_ENGINE_NOISE_MARKERS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXMITRA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXMITRA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse noise markers from comma-separated string
	var markers []string
	for _, m := range strings.Split(v.GetString("engine.noise_markers"), ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			markers = append(markers, m)
		}
	}
	cfg.Engine = EngineConfig{
		MismatchTolerance: v.GetFloat64("engine.mismatch_tolerance"),
		PayThreshold:      v.GetFloat64("engine.pay_threshold"),
		NoiseMarkers:      markers,
	}

	return cfg, nil
}
