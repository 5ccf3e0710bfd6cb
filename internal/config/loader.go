package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// DefaultConfigPaths defines the default locations to search for configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/config.yaml",
	"./configs/config.yml",
	"/etc/greenhouse/config.yaml",
	"/etc/greenhouse/config.yml",
}

// Load loads the configuration from the specified file or default locations
func Load(configPath string) (*Config, error) {
	// Set default values
	config := &Config{
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "greenhouse",
				User:     "postgres",
				SSLMode:  "disable",
			},
		},
		Profile: ProfileConfig{
			URLTemplate:    "http://localhost:8080/members/{profileKey}",
			PictureBaseURL: "http://localhost:8080/resources",
		},
		Environment: "local",
	}

	// If no config path is provided, search in default locations
	if configPath == "" {
		configPath = findConfigFile()
	}

	// Load configuration from file if it exists
	if configPath != "" && fileExists(configPath) {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the config
		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// findConfigFile returns the first existing file from DefaultConfigPaths
func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// validate checks configuration invariants that would otherwise surface as
// runtime failures deep in the stack
func validate(config *Config) error {
	if config.Profile.URLTemplate == "" {
		return fmt.Errorf("profile.url_template is required")
	}
	if config.Profile.PictureBaseURL == "" {
		return fmt.Errorf("profile.picture_base_url is required")
	}
	if config.Environment != "local" && config.Security.EncryptionKey == "" {
		return fmt.Errorf("security.encryption_key is required in %s", config.Environment)
	}
	return nil
}
