package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"apictl/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/apictl"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns the configuration directory,
// honoring APICTL_CONFIG_PATH.
func GetDefaultConfigPathOrPanic() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from the specified directory. A missing
// config.yaml yields the defaults; a malformed one is an error.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "no config.yaml at %s, using defaults", configFilePath)
			return config, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	if _, err := ParseAuthScheme(string(config.Auth.Scheme)); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", configFilePath, err)
	}
	logging.Debug("Config", "loaded configuration from %s", configFilePath)
	return config, nil
}

// ResolveAPIKey resolves the credential: flag first, then environment.
// Empty means no credential is available.
func ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvAPIKey)
}

// ResolveBaseURL resolves the request base URL with the standard
// precedence: flag, environment, config file, compiled tree.
func ResolveBaseURL(flagValue string, cfg Config, treeBaseURL string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvBaseURL); env != "" {
		return env
	}
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return treeBaseURL
}

// ResolveTreePath resolves the command tree file location: flag,
// environment, config file, then command_tree.json in the working
// directory, falling back to the configuration directory.
func ResolveTreePath(flagValue string, cfg Config, configPath string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvTree); env != "" {
		return env
	}
	if cfg.TreePath != "" {
		return cfg.TreePath
	}
	if _, err := os.Stat(DefaultTreeFilename); err == nil {
		return DefaultTreeFilename
	}
	return filepath.Join(configPath, DefaultTreeFilename)
}
