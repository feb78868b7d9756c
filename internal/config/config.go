package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Tiliavir/taskboard/internal/logger"
	"github.com/Tiliavir/taskboard/internal/storage"
)

// Config is the root configuration, read from ~/.taskboard/config.yaml and
// TASKBOARD_* environment variables.
type Config struct {
	// Admins are the user ids allowed to review (and, depending on
	// PublishPolicy, publish) tasks.
	Admins []string `mapstructure:"admins" validate:"dive,required"`
	// PublishPolicy is "anyone" or "admins-only".
	PublishPolicy string `mapstructure:"publish_policy" validate:"oneof=anyone admins-only"`
	// ReviewReward is the number of points credited per approved task.
	ReviewReward int `mapstructure:"review_reward" validate:"gt=0"`
	// LeaderboardSize is the number of entries shown by the leaderboard.
	LeaderboardSize int `mapstructure:"leaderboard_size" validate:"gt=0"`
	// DataDir holds tasks.json and points.json.
	DataDir string `mapstructure:"data_dir" validate:"required"`

	Log     logger.Config `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MetricsConfig controls the prometheus textfile export.
type MetricsConfig struct {
	// Textfile, when set, receives the command metrics after each run.
	Textfile string `mapstructure:"textfile"`
}

const (
	DefaultPublishPolicy   = "anyone"
	DefaultReviewReward    = 10
	DefaultLeaderboardSize = 10

	envPrefix = "TASKBOARD"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# taskboard configuration
#
# Every setting can also be given as an environment variable with the
# TASKBOARD_ prefix, e.g. TASKBOARD_ADMINS="123,456" or TASKBOARD_LOG_LEVEL=debug.

# User ids with admin rights. Admins review submitted tasks.
admins: []

# Who may publish tasks: "anyone" or "admins-only".
publish_policy: anyone

# Points credited to the claimant when a task passes review.
review_reward: 10

# Number of entries on the leaderboard.
leaderboard_size: 10

# Directory holding tasks.json and points.json. Empty = ~/.taskboard/data.
data_dir: ""

log:
  # debug, info, warn or error
  level: warn
  # console or json
  format: console

metrics:
  # Optional path of a prometheus textfile-collector file updated after each command.
  textfile: ""
`

// DefaultPath returns ~/.taskboard/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".taskboard", "config.yaml"), nil
}

// defaultDataDir returns ~/.taskboard/data, or a relative fallback when the
// home directory is unknown.
func defaultDataDir() string {
	dir, err := storage.BaseDir()
	if err != nil {
		return filepath.Join(".taskboard", "data")
	}
	return dir
}

// Load reads the config file at path (DefaultPath when empty), creating it
// with annotated defaults on first run. A .env file in the working
// directory, when present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("admins", []string{})
	v.SetDefault("publish_policy", DefaultPublishPolicy)
	v.SetDefault("review_reward", DefaultReviewReward)
	v.SetDefault("leaderboard_size", DefaultLeaderboardSize)
	v.SetDefault("data_dir", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics.textfile", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Admins = normalizeIDs(cfg.Admins)
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

// normalizeIDs trims ids, splits comma-joined entries and drops empties.
func normalizeIDs(ids []string) []string {
	out := []string{}
	for _, id := range ids {
		for _, part := range strings.Split(id, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// writeDefault creates the config directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
