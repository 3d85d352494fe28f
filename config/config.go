package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for a report run
type Config struct {
	Target          float64
	MinAHT          float64
	MaxAHT          float64
	Output          string
	Format          string
	UnassignedLabel string
	Countries       []string
	Placeholder     string
	LogLevel        string
	MetricsAddr     string
	PushURL         string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Output:          getEnv("REPORT_OUTPUT", "Final_Performance_Report.xlsx"),
		Format:          getEnv("REPORT_FORMAT", "xlsx"),
		UnassignedLabel: strings.TrimSpace(os.Getenv("UNASSIGNED_LABEL")),
		Countries:       SplitList(os.Getenv("REPORT_COUNTRIES")),
		Placeholder:     getEnv("REPORT_PLACEHOLDER", "-"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		PushURL:         os.Getenv("PUSH_URL"),
	}

	var err error
	if config.Target, err = getFloat("AHT_TARGET", 450); err != nil {
		return nil, err
	}
	if config.MinAHT, err = getFloat("AHT_MIN", 0); err != nil {
		return nil, err
	}
	if config.MaxAHT, err = getFloat("AHT_MAX", 0); err != nil {
		return nil, err
	}

	return config, nil
}

// Bands returns the AHT color thresholds. Unset values default to the
// target (low) and 10% above the low threshold (high).
func (c *Config) Bands() (low, high float64) {
	low, high = c.MinAHT, c.MaxAHT
	if low <= 0 {
		low = c.Target
	}
	if high <= 0 {
		high = low * 1.1
	}
	return low, high
}

// Validate checks values that flags or the environment may have set.
func (c *Config) Validate() error {
	if c.Target <= 0 {
		return fmt.Errorf("target AHT must be positive (got %v)", c.Target)
	}
	if c.MinAHT < 0 || c.MaxAHT < 0 {
		return fmt.Errorf("AHT thresholds must not be negative")
	}
	if low, high := c.Bands(); low > high {
		return fmt.Errorf("min AHT %v is above max AHT %v", low, high)
	}
	validFormats := map[string]bool{"xlsx": true, "text": true, "json": true, "csv": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("format must be one of: xlsx, text, json, csv (got: %s)", c.Format)
	}
	return nil
}

// SplitList splits a comma-separated value, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
