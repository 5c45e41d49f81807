package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"gocompare/adapters/datareadiness/rows"
	"gocompare/internal/errors"
)

// DefaultOutputFile is where results go when OUTPUT_FILE is unset.
const DefaultOutputFile = "final_t_test_results.xlsx"

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Database DatabaseConfig
	Server   ServerConfig
	API      APIConfig
	Columns  ColumnConfig
	Workers  int
	LogLevel string
}

// DataConfig holds input and output paths
type DataConfig struct {
	InputFile  string
	OutputFile string
}

// DatabaseConfig holds database connection settings. An empty URL disables
// the Postgres result store.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// ServerConfig holds web UI settings
type ServerConfig struct {
	Port string
}

// APIConfig holds JSON API settings
type APIConfig struct {
	Port                string
	GinMode             string
	MaxConcurrentGroups int64
	MaxUploadBytes      int64
}

// ColumnConfig overrides input header names; empty fields keep the defaults.
type ColumnConfig struct {
	Group    string
	Approach string
	Mean     string
	StdDev   string
	Count    string

	// LenientNumbers accepts "1,234.5", "$80" and "(12)" in numeric cells.
	LenientNumbers bool
}

// Mapping merges the overrides with the default header names.
func (c ColumnConfig) Mapping() rows.ColumnMapping {
	return rows.DefaultColumnMapping().WithOverrides(c.Group, c.Approach, c.Mean, c.StdDev, c.Count)
}

// Load reads configuration from environment variables and validates it.
// Call godotenv.Load first to pick up a .env file.
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			InputFile:  getEnvOrDefault("INPUT_FILE", ""),
			OutputFile: getEnvOrDefault("OUTPUT_FILE", DefaultOutputFile),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		API: APIConfig{
			Port:                getEnvOrDefault("API_PORT", "8081"),
			GinMode:             getEnvOrDefault("GIN_MODE", "debug"),
			MaxConcurrentGroups: int64(getEnvIntOrDefault("API_MAX_CONCURRENT_GROUPS", 10000)),
			MaxUploadBytes:      int64(getEnvIntOrDefault("API_MAX_UPLOAD_BYTES", 32<<20)),
		},
		Columns: ColumnConfig{
			Group:    os.Getenv("COLUMN_GROUP"),
			Approach: os.Getenv("COLUMN_APPROACH"),
			Mean:     os.Getenv("COLUMN_MEAN"),
			StdDev:   os.Getenv("COLUMN_STDDEV"),
			Count:    os.Getenv("COLUMN_COUNT"),

			LenientNumbers: getEnvBoolOrDefault("LENIENT_NUMBERS", false),
		},
		Workers:  getEnvIntOrDefault("WORKERS", runtime.NumCPU()),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks values that cannot be defaulted.
func Validate(config *Config) error {
	if config.Workers < 1 {
		return errors.ConfigInvalid("WORKERS must be at least 1")
	}
	if config.API.MaxConcurrentGroups < 1 {
		return errors.ConfigInvalid("API_MAX_CONCURRENT_GROUPS must be at least 1")
	}
	if config.API.MaxUploadBytes < 1 {
		return errors.ConfigInvalid("API_MAX_UPLOAD_BYTES must be at least 1")
	}
	if out := config.Data.OutputFile; out != "" {
		ext := strings.ToLower(out[strings.LastIndex(out, ".")+1:])
		if ext != "xlsx" && ext != "csv" {
			return errors.ConfigInvalid("OUTPUT_FILE must end in .xlsx or .csv")
		}
	}
	switch config.API.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
