package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Content     ContentConfig `toml:"content"`
	Seed        SeedConfig    `toml:"seed"`
	Watch       WatchConfig   `toml:"watch"`
	Editor      EditorConfig  `toml:"editor"`
}

type StorageConfig struct {
	Type     string         `toml:"type"` // "badger" (default) or "postgres"
	Badger   BadgerConfig   `toml:"badger"`
	Postgres PostgresConfig `toml:"postgres"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// PostgresConfig represents the relational settings store connection
type PostgresConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Table           string `toml:"table"`             // Settings table name (default: "settings")
	MaxOpenConns    int    `toml:"max_open_conns"`    // Connection pool ceiling
	MaxIdleConns    int    `toml:"max_idle_conns"`    // Idle connections kept warm
	ConnMaxLifetime string `toml:"conn_max_lifetime"` // e.g., "5m"
	AutoMigrate     bool   `toml:"auto_migrate"`      // Create the settings table on startup
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
	Dir        string   `toml:"dir"`         // Log directory when file output is enabled
}

// ContentConfig points at the canonical default-content document
type ContentConfig struct {
	File  string `toml:"file"`  // TOML/YAML/JSON content document; empty uses the embedded default
	Actor string `toml:"actor"` // Actor recorded on CLI writes (empty = system)
}

// SeedConfig controls default-content seeding
type SeedConfig struct {
	OnStartup bool     `toml:"on_startup"` // Gap-fill when the daemon starts
	Overwrite bool     `toml:"overwrite"`  // Replace existing keys on startup seed
	Schedule  string   `toml:"schedule"`   // Cron schedule for gap-fill runs (empty = disabled)
	Groups    []string `toml:"groups"`     // Groups to seed (empty = all)
}

// WatchConfig controls reseeding when the content file changes
type WatchConfig struct {
	Enabled  bool   `toml:"enabled"`
	Debounce string `toml:"debounce"` // e.g., "500ms"
}

// EditorConfig controls structured-value editing
type EditorConfig struct {
	Format       string   `toml:"format"`        // "json" (default) or "yaml"
	HiddenFields []string `toml:"hidden_fields"` // Overrides the machine-owned sub-field list
	AssignIDs    bool     `toml:"assign_ids"`    // Give new object-list items an identifier on commit
}

// NewDefaultConfig returns the built-in configuration
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path:           "./data/dernek",
				ResetOnStartup: false,
			},
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				User:            "postgres",
				DBName:          "dernek",
				SSLMode:         "disable",
				Table:           "settings",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: "5m",
				AutoMigrate:     true,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
			Dir:        "logs",
		},
		Seed: SeedConfig{
			OnStartup: true,
			Overwrite: false,
			Schedule:  "",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: "500ms",
		},
		Editor: EditorConfig{
			Format:    "json",
			AssignIDs: true,
		},
	}
}

// LoadEnvFiles loads .env files into the process environment.
// DERNEK_ENV_FILE names an explicit file; otherwise .env.local then .env are tried.
// Missing files are ignored, existing variables are never overwritten.
func LoadEnvFiles() error {
	files := []string{".env.local", ".env"}
	if explicit := os.Getenv("DERNEK_ENV_FILE"); explicit != "" {
		files = []string{explicit}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DERNEK_ENV"); env != "" {
		config.Environment = env
	}

	// Storage configuration
	if storageType := os.Getenv("DERNEK_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if badgerPath := os.Getenv("DERNEK_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if host := os.Getenv("DERNEK_PG_HOST"); host != "" {
		config.Storage.Postgres.Host = host
	}
	if port := os.Getenv("DERNEK_PG_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Storage.Postgres.Port = p
		}
	}
	if user := os.Getenv("DERNEK_PG_USER"); user != "" {
		config.Storage.Postgres.User = user
	}
	if password := os.Getenv("DERNEK_PG_PASSWORD"); password != "" {
		config.Storage.Postgres.Password = password
	}
	if dbName := os.Getenv("DERNEK_PG_DBNAME"); dbName != "" {
		config.Storage.Postgres.DBName = dbName
	}
	if sslMode := os.Getenv("DERNEK_PG_SSLMODE"); sslMode != "" {
		config.Storage.Postgres.SSLMode = sslMode
	}

	// Logging configuration
	if level := os.Getenv("DERNEK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("DERNEK_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Content and seeding
	if file := os.Getenv("DERNEK_CONTENT_FILE"); file != "" {
		config.Content.File = file
	}
	if actor := os.Getenv("DERNEK_ACTOR"); actor != "" {
		config.Content.Actor = actor
	}
	if schedule := os.Getenv("DERNEK_SEED_SCHEDULE"); schedule != "" {
		config.Seed.Schedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, storageType, logLevel, contentFile string) {
	if storageType != "" {
		config.Storage.Type = storageType
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
	if contentFile != "" {
		config.Content.File = contentFile
	}
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "", "badger", "postgres":
	default:
		return fmt.Errorf("unsupported storage type: %s (expected 'badger' or 'postgres')", c.Storage.Type)
	}
	switch strings.ToLower(c.Editor.Format) {
	case "", "json", "yaml", "yml":
	default:
		return fmt.Errorf("unsupported editor format: %s", c.Editor.Format)
	}
	if c.Seed.Schedule != "" {
		if err := ValidateSeedSchedule(c.Seed.Schedule); err != nil {
			return fmt.Errorf("seed.schedule: %w", err)
		}
	}
	if _, err := c.WatchDebounce(); err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	return nil
}

// WatchDebounce parses the watcher debounce interval
func (c *Config) WatchDebounce() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Watch.Debounce)
}

// ValidateSeedSchedule validates a cron schedule expression and ensures minimum 5-minute interval
func ValidateSeedSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	if every, found := strings.CutPrefix(schedule, "@every "); found {
		interval, err := time.ParseDuration(strings.TrimSpace(every))
		if err == nil && interval < 5*time.Minute {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %s", interval)
		}
		return nil
	}
	// @hourly and coarser
	if strings.HasPrefix(schedule, "@") {
		return nil
	}

	minuteField := strings.Fields(schedule)[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}
	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
