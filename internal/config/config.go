package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for cxcheck
type Config struct {
	// ESLintCommand is the command line that runs ESLint
	ESLintCommand string `yaml:"eslint_command" env:"CXCHECK_ESLINT_COMMAND"`
	// ESLintConfig is passed to ESLint with --config when set
	ESLintConfig string `yaml:"eslint_config" env:"CXCHECK_ESLINT_CONFIG"`

	// Extensions limits which files are analysed
	Extensions []string `yaml:"extensions" env:"CXCHECK_EXTENSIONS"`
	// Exclude holds extra gitignore-style patterns
	Exclude []string `yaml:"exclude" env:"CXCHECK_EXCLUDE"`

	// Output
	ReportPath string `yaml:"report_path" env:"CXCHECK_REPORT_PATH"`
	SARIFPath  string `yaml:"sarif_path" env:"CXCHECK_SARIF_PATH"`
	TopN       int    `yaml:"top_n" env:"CXCHECK_TOP_N"`

	// Boundary cache
	CachePath string `yaml:"cache_path" env:"CXCHECK_CACHE_PATH"`
	CacheSize int    `yaml:"cache_size" env:"CXCHECK_CACHE_SIZE"`

	// Workers is how many files are analysed in parallel
	Workers int `yaml:"workers" env:"CXCHECK_WORKERS"`

	// CrossCheck adds the syntax tree count to every mismatch
	CrossCheck bool `yaml:"cross_check" env:"CXCHECK_CROSS_CHECK"`

	// Logging
	Verbose bool `yaml:"verbose" env:"CXCHECK_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ESLintCommand: "npx eslint",
		Extensions:    []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"},
		ReportPath:    "complexity-mismatches.json",
		TopN:          20,
		CachePath:     filepath.Join(".cxcheck", "boundaries.cache"),
		CacheSize:     2048,
		Workers:       4,
	}
}

// GlobalConfigFilePath returns the global config file path (~/.cxcheck/config.yaml)
func GlobalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cxcheck", "config.yaml")
	}
	return filepath.Join(home, ".cxcheck", "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path (./.cxcheck/config.yaml)
func ProjectConfigFilePath() string {
	return filepath.Join(".cxcheck", "config.yaml")
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.cxcheck/config.yaml)
// 3. Global config (~/.cxcheck/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	return loadLayers(GlobalConfigFilePath(), ProjectConfigFilePath())
}

func loadLayers(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return loadLayers(path)
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CXCHECK_ESLINT_COMMAND"); v != "" {
		cfg.ESLintCommand = v
	}
	if v := os.Getenv("CXCHECK_ESLINT_CONFIG"); v != "" {
		cfg.ESLintConfig = v
	}
	if v := os.Getenv("CXCHECK_EXTENSIONS"); v != "" {
		cfg.Extensions = splitList(v)
	}
	if v := os.Getenv("CXCHECK_EXCLUDE"); v != "" {
		cfg.Exclude = splitList(v)
	}
	if v := os.Getenv("CXCHECK_REPORT_PATH"); v != "" {
		cfg.ReportPath = v
	}
	if v := os.Getenv("CXCHECK_SARIF_PATH"); v != "" {
		cfg.SARIFPath = v
	}
	if v := os.Getenv("CXCHECK_TOP_N"); v != "" {
		if i, ok := parseInt(v); ok {
			cfg.TopN = i
		}
	}
	if v := os.Getenv("CXCHECK_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("CXCHECK_CACHE_SIZE"); v != "" {
		if i, ok := parseInt(v); ok {
			cfg.CacheSize = i
		}
	}
	if v := os.Getenv("CXCHECK_WORKERS"); v != "" {
		if i, ok := parseInt(v); ok {
			cfg.Workers = i
		}
	}
	if v := os.Getenv("CXCHECK_CROSS_CHECK"); v != "" {
		cfg.CrossCheck = parseBool(v)
	}
	if v := os.Getenv("CXCHECK_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ESLintCommand) == "" {
		return fmt.Errorf("eslint_command must not be empty")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one file extension")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension %q (must start with '.')", ext)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must be non-negative")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative")
	}
	if c.ReportPath == "" {
		return fmt.Errorf("report_path must not be empty")
	}
	return nil
}

// splitList splits a comma separated environment value
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// parseInt attempts to parse a string as int
func parseInt(s string) (int, bool) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, false
	}
	return i, true
}
