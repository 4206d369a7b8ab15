package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultStateFileName  = "tasks.json"
	DefaultLogFileName    = "tasktrack.log"

	// DefaultReminderSecs is how often the due-today check runs.
	DefaultReminderSecs = 60
)

type Config struct {
	StatePath    string `toml:"state_path"`
	LogPath      string `toml:"log_path"`
	ReminderSecs int    `toml:"reminder_interval_secs"`
}

// ResolveConfigPath returns the config file location under the user
// config dir, falling back to the working directory.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, "tasktrack", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults first if
// no file exists yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.StatePath == "" {
		cfg.StatePath = filepath.Join(filepath.Dir(path), DefaultStateFileName)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(path), DefaultLogFileName)
	}
	if cfg.ReminderSecs <= 0 {
		cfg.ReminderSecs = DefaultReminderSecs
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		StatePath:    filepath.Join(dir, DefaultStateFileName),
		LogPath:      filepath.Join(dir, DefaultLogFileName),
		ReminderSecs: DefaultReminderSecs,
	}
}
