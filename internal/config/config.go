package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Storage drivers supported by the documents store.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env" validate:"required"`               // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`                                     // Telegram API token loaded from environment
	LearnerChatID    int64    `mapstructure:"-"`                                     // the only chat the bot talks to
	ContentJSONPath  string   `mapstructure:"content_json_path" validate:"required"` // path to JSON file with chapters and sections
	AudioDir         string   `mapstructure:"audio_dir" validate:"required"`         // directory with section audio files
	Storage          Storage  `mapstructure:"storage"`                               // documents storage section
	Quiz             Quiz     `mapstructure:"quiz"`                                  // vocabulary quiz section
	Reminder         Reminder `mapstructure:"reminder"`                              // daily reminder section
}

// Storage contains documents store configuration parameters.
type Storage struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=memory postgres sqlite"`
	URL             string        `mapstructure:"-"`                 // postgres connection string loaded from environment
	SQLitePath      string        `mapstructure:"sqlite_path"`       // database file for the sqlite driver
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Quiz contains vocabulary quiz parameters.
type Quiz struct {
	AutoAdvanceDelay time.Duration `mapstructure:"auto_advance_delay" validate:"gt=0"`
}

// Reminder contains daily reminder parameters. An empty schedule disables reminders.
type Reminder struct {
	Schedule string `mapstructure:"schedule"` // standard 5-field cron expression, UTC
}

// DSN returns the database connection string if it is configured.
func (s Storage) DSN() (string, error) {
	if s.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return s.URL, nil
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// Populate the process environment from .env when it exists.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("content_json_path", "assets/data/content.json")
	v.SetDefault("audio_dir", "assets/audio")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/stepwise.db")
	v.SetDefault("storage.max_connections", 5)
	v.SetDefault("storage.max_conn_lifetime", "30m")
	v.SetDefault("quiz.auto_advance_delay", "600ms")
	v.SetDefault("reminder.schedule", "0 18 * * *")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("learner_chat_id", "LEARNER_CHAT_ID")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

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

	cfg.LearnerChatID = v.GetInt64("learner_chat_id")
	if cfg.LearnerChatID == 0 {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Storage.URL = v.GetString("database_url")
	if cfg.Storage.Driver == DriverPostgres && cfg.Storage.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
