package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Supported values for database.driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files, flags and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`          // current application environment (local, dev, prod etc)
	TelegramAPIToken string    `mapstructure:"-"`            // Telegram API token loaded from environment
	CatalogPath      string    `mapstructure:"catalog_path"` // path to YAML file with roles, courses and trophies
	DB               DB        `mapstructure:"database"`     // database configuration section
	Engine           Engine    `mapstructure:"engine"`       // progress and achievement engine tuning
	Redis            Redis     `mapstructure:"redis"`        // optional event publishing
	Advisor          Advisor   `mapstructure:"advisor"`      // career advice client
	Scheduler        Scheduler `mapstructure:"scheduler"`    // background jobs
}

// DB contains database-related configuration parameters.
type DB struct {
	Driver          string        `mapstructure:"driver"`            // postgres or sqlite
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	SQLitePath      string        `mapstructure:"sqlite_path"`       // database file used by the sqlite driver
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Engine configures the progress, streak and trophy pipeline.
type Engine struct {
	Timezone              string `mapstructure:"timezone"`               // calendar used for streak days and time-of-day trophies
	MaxRetries            int    `mapstructure:"max_retries"`            // optimistic update attempts per write
	EvaluationParallelism int    `mapstructure:"evaluation_parallelism"` // concurrent trophy rule checks
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // empty disables publishing
	Password string `mapstructure:"-"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// Enabled reports whether an address was configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Advisor struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"-"` // empty disables advice commands
}

type Scheduler struct {
	ReminderSpec string        `mapstructure:"reminder_spec"` // cron spec for streak reminders
	SweepSpec    string        `mapstructure:"sweep_spec"`    // cron spec for the reconciliation sweep
	SweepWindow  time.Duration `mapstructure:"sweep_window"`  // how far back the sweep looks for completions
	Workers      int           `mapstructure:"workers"`       // users processed concurrently by background jobs
}

// Load reads configuration from command-line flags, config files and environment variables.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("techquest", pflag.ContinueOnError)
	fs.String("config", "./config", "directory containing config.yaml")
	fs.String("env", "", "application environment (local, dev, production)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configDir, _ := fs.GetString("config")
	v.AddConfigPath(configDir)

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("advisor_api_key", "ADVISOR_API_KEY")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Flags win over everything else when set explicitly.
	if f := fs.Lookup("env"); f != nil && f.Changed {
		if err := v.BindPFlag("env", f); err != nil {
			return nil, fmt.Errorf("bind env flag: %w", err)
		}
	}

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	cfg.Advisor.APIKey = v.GetString("advisor_api_key")
	cfg.Redis.Password = v.GetString("redis_password")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("catalog_path", "assets/catalog.yaml")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "techquest.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("engine.timezone", "UTC")
	v.SetDefault("engine.max_retries", 5)
	v.SetDefault("engine.evaluation_parallelism", 4)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "techquest.events")

	v.SetDefault("advisor.base_url", "https://api.openai.com/v1")
	v.SetDefault("advisor.model", "gpt-4o-mini")
	v.SetDefault("advisor.timeout", "45s")

	v.SetDefault("scheduler.reminder_spec", "0 18 * * *")
	v.SetDefault("scheduler.sweep_spec", "*/15 * * * *")
	v.SetDefault("scheduler.sweep_window", "48h")
	v.SetDefault("scheduler.workers", 8)
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the %s driver", DriverSQLite)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DB.Driver)
	}

	if c.Engine.MaxRetries < 1 {
		return fmt.Errorf("engine.max_retries must be positive, got %d", c.Engine.MaxRetries)
	}

	return nil
}
