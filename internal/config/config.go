// Package config handles loading and validating the converso configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the converso client.
type Config struct {
	Assistant  AssistantConfig  `mapstructure:"assistant"`
	Capture    CaptureConfig    `mapstructure:"capture"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Playback   PlaybackConfig   `mapstructure:"playback"`
	Feedback   FeedbackConfig   `mapstructure:"feedback"`
	UI         UIConfig         `mapstructure:"ui"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AssistantConfig holds the remote assistant endpoint settings.
type AssistantConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	CommandPath  string `mapstructure:"command_path"`
	UploadPath   string `mapstructure:"upload_path"`
	FeedbackPath string `mapstructure:"feedback_path"`
	APIKey       string `mapstructure:"api_key"`
}

// CaptureConfig holds audio capture settings.
type CaptureConfig struct {
	// MaxDuration is the recording ceiling. A capture session that is not
	// stopped manually is stopped automatically after this long.
	MaxDuration time.Duration `mapstructure:"max_duration"`
	SampleRate  int           `mapstructure:"sample_rate"`
	Channels    int           `mapstructure:"channels"`
	// Input selects the recording device backend: "portaudio" or "off".
	Input string `mapstructure:"input"`
}

// RecognizerConfig configures the native speech-recognition strategy.
// An empty endpoint means the capability is unavailable and capture falls
// back to raw recording.
type RecognizerConfig struct {
	Endpoint string `mapstructure:"endpoint"` // websocket URL, e.g. ws://localhost:2700
}

// StorageConfig holds the durable client-side storage settings.
type StorageConfig struct {
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// PlaybackConfig configures the local audio playback sink.
// An empty command disables playback of assistant audio replies.
type PlaybackConfig struct {
	Command string `mapstructure:"command"` // e.g. "ffplay -nodisp -autoexit"
}

// FeedbackConfig holds the identity attached to feedback submissions.
type FeedbackConfig struct {
	User string `mapstructure:"user"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Language string `mapstructure:"language"` // session language code, e.g. "pt-BR"
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./converso.yaml, ./configs/converso.yaml,
// /etc/converso/converso.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("assistant.base_url", "http://localhost:8000")
	v.SetDefault("assistant.command_path", "/assistant/process")
	v.SetDefault("assistant.upload_path", "/assistant/process/upload")
	v.SetDefault("assistant.feedback_path", "/feedback/")
	v.SetDefault("capture.max_duration", 5*time.Second)
	v.SetDefault("capture.sample_rate", 16000)
	v.SetDefault("capture.channels", 1)
	v.SetDefault("capture.input", "portaudio")
	v.SetDefault("recognizer.endpoint", "")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.namespace", "converso.history")
	v.SetDefault("playback.command", "")
	v.SetDefault("feedback.user", "default")
	v.SetDefault("ui.language", "pt-BR")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("converso")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/converso")
	}

	// Environment variables: CONVERSO_ASSISTANT_BASE_URL, CONVERSO_UI_LANGUAGE, etc.
	v.SetEnvPrefix("CONVERSO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${CONVERSO_TOKEN}")
	cfg.Assistant.APIKey = resolveEnvRef(cfg.Assistant.APIKey)

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath()
	}

	return &cfg, nil
}

// defaultStoragePath places the history database under the user home
// directory, falling back to the working directory when home is unknown.
func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "converso.db"
	}
	return filepath.Join(home, ".converso", "converso.db")
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
