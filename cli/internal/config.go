package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Context represents a named CLI configuration context (like kubectl
// contexts): which server config file to use and which environment label
// it belongs to
type Context struct {
	ConfigFile  string `yaml:"config_file"`
	Environment string `yaml:"environment"`
}

// Config represents the CLI configuration with multiple contexts
type Config struct {
	CurrentContext string              `yaml:"current-context"`
	Contexts       map[string]*Context `yaml:"contexts"`
}

// DefaultConfig returns the default configuration with a "local" context
func DefaultConfig() *Config {
	return &Config{
		CurrentContext: "local",
		Contexts: map[string]*Context{
			"local": {
				ConfigFile:  "",
				Environment: "local",
			},
		},
	}
}

// GetCurrentContext returns the current active context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}

	ctx, ok := c.Contexts[c.CurrentContext]
	if !ok {
		return nil, fmt.Errorf("current context %q not found", c.CurrentContext)
	}
	return ctx, nil
}

// SetCurrentContext switches the active context
func (c *Config) SetCurrentContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return nil
}

// AddContext adds or replaces a named context
func (c *Config) AddContext(name string, ctx *Context) {
	if c.Contexts == nil {
		c.Contexts = make(map[string]*Context)
	}
	c.Contexts[name] = ctx
}

// DeleteContext removes a named context. The current context cannot be
// deleted; switch away first.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	if name == c.CurrentContext {
		return fmt.Errorf("cannot delete the current context %q", name)
	}
	delete(c.Contexts, name)
	return nil
}

// configFilePath returns the CLI config location under the user config dir
func configFilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(configDir, "greenhouse", "cli.yaml"), nil
}

// LoadConfig loads the CLI configuration, falling back to defaults when no
// config file exists yet
func LoadConfig() (*Config, error) {
	path, err := configFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read CLI config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse CLI config: %w", err)
	}
	return config, nil
}

// SaveConfig writes the CLI configuration back to disk
func SaveConfig(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal CLI config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
