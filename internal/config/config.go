package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all csup configuration.
type Config struct {
	Notmuch  NotmuchConfig `toml:"notmuch"`
	UI       UIConfig      `toml:"ui"`
	Account  AccountConfig `toml:"account"`
	Contacts string        `toml:"contacts"`
	Database string        `toml:"database"`
}

// NotmuchConfig locates the external mail index.
type NotmuchConfig struct {
	Binary string `toml:"binary"`
}

// UIConfig holds display settings.
type UIConfig struct {
	InitialQuery string `toml:"initial_query"`
	PageSize     int    `toml:"page_size"`
	Theme        string `toml:"theme"`
}

// AccountConfig identifies the user for composing and display.
type AccountConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

func defaults() Config {
	return Config{
		Notmuch: NotmuchConfig{
			Binary: "notmuch",
		},
		UI: UIConfig{
			InitialQuery: "tag:inbox",
			PageSize:     50,
			Theme:        "default",
		},
		Contacts: filepath.Join(ConfigDir(), "contacts"),
		Database: filepath.Join(DataDir(), "csup.db"),
	}
}

// Load reads config from path. A missing file (or empty path) yields
// defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ConfigDir returns the csup config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "csup")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "csup")
}

// DataDir returns the csup data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "csup")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "csup")
}
