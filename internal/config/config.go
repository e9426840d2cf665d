package config

import (
	"os"
	"strconv"
	"strings"

	"survivalvolume/domain/survival"
	"survivalvolume/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Layout   LayoutConfig
	Report   ReportConfig
	Logging  LoggingConfig
}

// AnalysisConfig holds survival and interval settings
type AnalysisConfig struct {
	Endpoint  float64         // volume at which the endpoint event occurs
	Threshold int             // minimum individuals minus one per time point
	CI        float64         // confidence level of the interval band
	Alpha     float64         // type 1 error for log-rank comparisons
	Method    survival.Method // t or normal
}

// LayoutConfig holds spreadsheet layout settings
type LayoutConfig struct {
	PrismSheet        string
	AbsoluteSheet     string
	AbsoluteHeaderRow int
	FirstInterval     float64
	SecondInterval    float64
	StandardiseDays   bool
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	Format string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// LoadDotEnv loads variables from .env files when present. Missing files are
// not an error, a file that does not parse is; existing environment
// variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to load %s", p))
		}
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: loadAnalysisConfig(),
		Layout:   loadLayoutConfig(),
		Report:   ReportConfig{Format: strings.ToLower(getEnvOrDefault("SV_REPORT_FORMAT", "markdown"))},
		Logging:  LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Endpoint:  700,
			Threshold: 2,
			CI:        0.95,
			Alpha:     0.05,
			Method:    survival.MethodT,
		},
		Layout: LayoutConfig{
			PrismSheet:        "PrismRaw",
			AbsoluteSheet:     "Absolute_TV",
			AbsoluteHeaderRow: 5,
			FirstInterval:     3,
			SecondInterval:    4,
			StandardiseDays:   true,
		},
		Report:  ReportConfig{Format: "markdown"},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

func loadAnalysisConfig() AnalysisConfig {
	d := Default().Analysis
	return AnalysisConfig{
		Endpoint:  getEnvFloatOrDefault("SV_ENDPOINT", d.Endpoint),
		Threshold: getEnvIntOrDefault("SV_THRESHOLD", d.Threshold),
		CI:        getEnvFloatOrDefault("SV_CI", d.CI),
		Alpha:     getEnvFloatOrDefault("SV_ALPHA", d.Alpha),
		Method:    survival.Method(strings.ToLower(getEnvOrDefault("SV_INTERVAL_METHOD", string(d.Method)))),
	}
}

func loadLayoutConfig() LayoutConfig {
	d := Default().Layout
	return LayoutConfig{
		PrismSheet:        getEnvOrDefault("SV_PRISM_SHEET", d.PrismSheet),
		AbsoluteSheet:     getEnvOrDefault("SV_ABSOLUTE_SHEET", d.AbsoluteSheet),
		AbsoluteHeaderRow: getEnvIntOrDefault("SV_ABSOLUTE_HEADER_ROW", d.AbsoluteHeaderRow),
		FirstInterval:     getEnvFloatOrDefault("SV_FIRST_INTERVAL", d.FirstInterval),
		SecondInterval:    getEnvFloatOrDefault("SV_SECOND_INTERVAL", d.SecondInterval),
		StandardiseDays:   getEnvBoolOrDefault("SV_STANDARDISE_DAYS", d.StandardiseDays),
	}
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	if c.Analysis.CI <= 0 || c.Analysis.CI >= 1 {
		return errors.ConfigInvalid("SV_CI must be between 0 and 1")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("SV_ALPHA must be between 0 and 1")
	}
	if c.Analysis.Threshold < 0 {
		return errors.ConfigInvalid("SV_THRESHOLD must not be negative")
	}
	switch c.Analysis.Method {
	case survival.MethodT, survival.MethodNormal:
	default:
		return errors.ConfigInvalid("SV_INTERVAL_METHOD must be t or normal")
	}
	if c.Layout.AbsoluteHeaderRow < 0 {
		return errors.ConfigInvalid("SV_ABSOLUTE_HEADER_ROW must not be negative")
	}
	switch c.Report.Format {
	case "markdown", "html", "json", "yaml":
	default:
		return errors.ConfigInvalid("SV_REPORT_FORMAT must be markdown, html, json or yaml")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
