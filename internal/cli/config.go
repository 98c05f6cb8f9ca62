package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	keyBaseURL = "base_url"
	keyToken   = "token"

	defaultBaseURL = "http://localhost:8080"
)

// Settings is the persisted CLI state.
type Settings struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// loadViper reads cfgFile, or ~/.workspacectl/config.yaml when empty.
// Precedence: env (WORKSPACE_*) > config file > defaults.
func loadViper(cfgFile string) (*viper.Viper, string, error) {
	v := viper.New()
	v.SetEnvPrefix("WORKSPACE")
	v.AutomaticEnv()
	v.SetDefault(keyBaseURL, defaultBaseURL)
	v.SetDefault(keyToken, "")

	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, ".workspacectl", "config.yaml")
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil && !isMissingFile(path) {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	return v, path, nil
}

func isMissingFile(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

func settingsFrom(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// save sets key to value in the file at path and writes it back, creating
// the directory if needed. Only file-backed values are written, so
// WORKSPACE_* environment overrides never end up on disk.
func save(path, key, value string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil && !isMissingFile(path) {
		return fmt.Errorf("read config: %w", err)
	}
	if !file.IsSet(keyBaseURL) {
		file.Set(keyBaseURL, defaultBaseURL)
	}
	file.Set(key, value)

	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(path, 0o600)
}
