package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// Default values for configuration.
const (
	DefaultPrecision     = 1
	MaxPrecision         = 3
	DefaultPageSize      = 10
	MaxPageSize          = 100
	DefaultCacheTTL      = 10 * time.Minute
	DefaultThumbnailSize = 50
	MaxThumbnailSize     = 1024
	DefaultSpeedUnit     = units.KPH
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for every command.
// This struct is the "final, validated" config.
type Config struct {
	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	SpeedUnit  string
	PageSize   int
	CacheTTL   time.Duration
	Debug      bool

	PerRide        bool
	BinSize        int
	Page           int
	AccelThreshold float64
	DecelThreshold float64
	ThumbnailSize  int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RideBackend   schema.DatabaseBackend
	RideDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile     string `mapstructure:"output-file"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	SpeedUnit      string `mapstructure:"speed-unit"`
	PageSize       int    `mapstructure:"page-size"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	Debug          bool   `mapstructure:"debug"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RideBackend    string `mapstructure:"ride-backend"`
	RideDBConnect  string `mapstructure:"ride-db-connect"`
	Color          string `mapstructure:"color"`

	// --- Fields from monthsCmd.Flags() ---
	PerRide bool `mapstructure:"per-ride"`

	// --- Fields from speedsCmd.Flags() ---
	BinSize int `mapstructure:"bin-size"`

	// --- Fields from ridesListCmd.Flags() ---
	Page int `mapstructure:"page"`

	// --- Fields from ridesShowCmd.Flags() ---
	AccelThreshold float64 `mapstructure:"accel-threshold"`
	DecelThreshold float64 `mapstructure:"decel-threshold"`

	// --- Fields from ridesThumbnailCmd.Flags() ---
	Size int `mapstructure:"size"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateCommandInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends. The flag name is used in error messages.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string, flag string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s is required when using %s backend", flag, backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s is required when using %s backend", flag, backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend parses and validates a backend name. An empty name
// resolves to the fallback.
func ParseDatabaseBackend(name string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(name) == "" {
		return fallback, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(name))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and ride backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseDatabaseBackend(input.CacheBackend, schema.SQLiteBackend)
	if err != nil {
		return fmt.Errorf("invalid cache backend: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect, "cache-db-connect"); err != nil {
		return err
	}

	// --- Ride Backend Validation ---
	backend, err = ParseDatabaseBackend(input.RideBackend, schema.SQLiteBackend)
	if err != nil {
		return fmt.Errorf("invalid ride backend: %w", err)
	}
	cfg.RideBackend = backend
	cfg.RideDBConnect = input.RideDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RideBackend, cfg.RideDBConnect, "ride-db-connect"); err != nil {
		return err
	}

	// Cache and rides live in different tables, but clearing the cache deletes its SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RideBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		rideDBPath := cfg.RideDBConnect
		if rideDBPath == "" {
			rideDBPath = GetRideDBFilePath()
		}
		if cacheDBPath == rideDBPath {
			return fmt.Errorf("cache and ride storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the persistent flags.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Debug = input.Debug

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", input.Output)
	}

	// --- 3. Speed Unit Validation ---
	cfg.SpeedUnit = strings.ToLower(input.SpeedUnit)
	if cfg.SpeedUnit == "" {
		cfg.SpeedUnit = DefaultSpeedUnit
	}
	if !units.IsValid(cfg.SpeedUnit) {
		return fmt.Errorf("invalid speed unit '%s'. must be %s", input.SpeedUnit, units.GetValidUnitsString())
	}

	// --- 4. Page Size Validation ---
	if input.PageSize <= 0 || input.PageSize > MaxPageSize {
		return fmt.Errorf("page-size must be greater than 0 and cannot exceed %d (received %d)", MaxPageSize, input.PageSize)
	}
	cfg.PageSize = input.PageSize

	// --- 5. Cache TTL Validation ---
	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}

// validateCommandInputs processes and validates flags owned by single commands.
// Zero values fall back to defaults so commands without the flag still validate.
func validateCommandInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.PerRide = input.PerRide

	cfg.BinSize = input.BinSize
	if cfg.BinSize < 0 {
		return fmt.Errorf("bin-size must be positive (received %d)", input.BinSize)
	}

	cfg.Page = input.Page
	if cfg.Page == 0 {
		cfg.Page = 1
	}
	if cfg.Page < 0 {
		return fmt.Errorf("page must be at least 1 (received %d)", input.Page)
	}

	cfg.AccelThreshold = input.AccelThreshold
	if cfg.AccelThreshold < 0 {
		return fmt.Errorf("accel-threshold cannot be negative (received %g)", input.AccelThreshold)
	}
	cfg.DecelThreshold = input.DecelThreshold
	if cfg.DecelThreshold > 0 {
		return fmt.Errorf("decel-threshold cannot be positive (received %g)", input.DecelThreshold)
	}

	cfg.ThumbnailSize = input.Size
	if cfg.ThumbnailSize == 0 {
		cfg.ThumbnailSize = DefaultThumbnailSize
	}
	if cfg.ThumbnailSize < 0 || cfg.ThumbnailSize > MaxThumbnailSize {
		return fmt.Errorf("size must be between 1 and %d (received %d)", MaxThumbnailSize, input.Size)
	}

	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
