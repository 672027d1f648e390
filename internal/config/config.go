package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gitdemo.dev/gitdemo/internal/conflict"
)

// FileName is the per-directory configuration file looked up by default
const FileName = ".gitdemo.yaml"

// Author is the commit identity written into each demo repository
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Config holds the settings shared by all demos
type Config struct {
	InitialBranch  string          `yaml:"initialBranch"`
	Author         Author          `yaml:"author"`
	ConflictPolicy conflict.Policy `yaml:"conflictPolicy"`
	// RemoteURL is the remote used by the remote demo; empty means a local bare repository
	RemoteURL string `yaml:"remoteURL,omitempty"`
	LogFile   string `yaml:"logFile,omitempty"`

	path string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		InitialBranch:  "main",
		Author:         Author{Name: "Example User", Email: "example@example.com"},
		ConflictPolicy: conflict.DefaultPolicy,
	}
}

// Load reads the configuration for baseDir.
// explicitPath, when set, must exist; otherwise $GITDEMO_CONFIG and then
// baseDir/.gitdemo.yaml are tried and a missing file yields the defaults.
func Load(baseDir, explicitPath string) (*Config, error) {
	cfg := Default()

	path := explicitPath
	required := path != ""
	if path == "" {
		if envPath := os.Getenv("GITDEMO_CONFIG"); envPath != "" {
			path = envPath
			required = true
		} else {
			path = filepath.Join(baseDir, FileName)
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.path = path
	case errors.Is(err, os.ErrNotExist) && !required:
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with GITDEMO_* environment variables
func (c *Config) applyEnv() error {
	if v := os.Getenv("GITDEMO_CONFLICT_POLICY"); v != "" {
		policy, err := conflict.ParsePolicy(v)
		if err != nil {
			return fmt.Errorf("GITDEMO_CONFLICT_POLICY: %w", err)
		}
		c.ConflictPolicy = policy
	}
	if v := os.Getenv("GITDEMO_INITIAL_BRANCH"); v != "" {
		c.InitialBranch = v
	}
	if v := os.Getenv("GITDEMO_REMOTE_URL"); v != "" {
		c.RemoteURL = v
	}
	if v := os.Getenv("GITDEMO_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	branch := c.InitialBranch
	if branch == "" {
		return fmt.Errorf("initialBranch must not be empty")
	}
	if strings.ContainsAny(branch, " ~^:?*[\\") || strings.Contains(branch, "..") ||
		strings.HasPrefix(branch, "-") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("initialBranch %q is not a valid branch name", branch)
	}
	if !c.ConflictPolicy.Valid() {
		return fmt.Errorf("conflictPolicy %d is not a known policy", int(c.ConflictPolicy))
	}
	return nil
}

// Path returns the file the configuration was read from, or "" for defaults
func (c *Config) Path() string {
	return c.path
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration as YAML to path
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.path = path
	return nil
}
