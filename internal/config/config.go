package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dshills/docfn-mcp/internal/emitter"
	"github.com/dshills/docfn-mcp/internal/parser"
)

// Environment variables that override file settings
const (
	EnvDBPath       = "DOCFN_DB_PATH"
	EnvSplitMode    = "DOCFN_SPLIT_MODE"
	EnvAnchorPrefix = "DOCFN_ANCHOR_PREFIX"
)

// DefaultDBPath is the default location for the function store
const DefaultDBPath = "~/.docfn/docfn.db"

// DefaultInclude matches documentation templates
const DefaultInclude = "*.tmpl"

// Files looked up in the working directory when no path is given
var DefaultFiles = []string{"docfn.yaml", "docfn.yml", "docfn.toml"}

var (
	// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML
	ErrUnsupportedFormat = errors.New("unsupported config format")
	// ErrInvalidConfig is returned by Validate
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds settings shared by the CLI, the documentation pass and the
// MCP server
type Config struct {
	DBPath       string   `yaml:"db_path" toml:"db_path"`
	Persist      bool     `yaml:"persist" toml:"persist"` // Save registries to DBPath after each pass
	Tag          string   `yaml:"tag" toml:"tag"`
	AnchorPrefix string   `yaml:"anchor_prefix" toml:"anchor_prefix"`
	SplitMode    string   `yaml:"split_mode" toml:"split_mode"`
	Include      []string `yaml:"include" toml:"include"`
	Exclude      []string `yaml:"exclude" toml:"exclude"`
	OutDir       string   `yaml:"out_dir" toml:"out_dir"`
	Workers      int      `yaml:"workers" toml:"workers"`
	CacheSize    int      `yaml:"cache_size" toml:"cache_size"`
	Verbose      bool     `yaml:"verbose" toml:"verbose"`

	// Source is the file the config was read from, empty for defaults
	Source string `yaml:"-" toml:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DBPath:       DefaultDBPath,
		Persist:      true,
		Tag:          emitter.DefaultTag,
		AnchorPrefix: emitter.DefaultAnchorPrefix,
		SplitMode:    string(parser.SplitNaive),
		Include:      []string{DefaultInclude},
	}
}

// Load reads path, or the first default file present when path is empty,
// over the defaults, then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, name := range DefaultFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
		cfg.Source = path
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(c); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.NewDecoder(f).Decode(c); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvSplitMode); v != "" {
		c.SplitMode = v
	}
	if v := os.Getenv(EnvAnchorPrefix); v != "" {
		c.AnchorPrefix = v
	}
}

// Validate checks values that would otherwise fail later
func (c *Config) Validate() error {
	if _, err := parser.ParseSplitMode(c.SplitMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative, got %d", ErrInvalidConfig, c.CacheSize)
	}
	if strings.ContainsAny(c.Tag, " <>\"'/=") {
		return fmt.Errorf("%w: tag %q is not a valid element name", ErrInvalidConfig, c.Tag)
	}
	return nil
}

// Split returns the configured argument split mode
func (c *Config) Split() parser.SplitMode {
	mode, err := parser.ParseSplitMode(c.SplitMode)
	if err != nil {
		return parser.SplitNaive
	}
	return mode
}

// ResolveDBPath expands a leading "~" and creates the parent directory.
// ":memory:" is returned unchanged.
func (c *Config) ResolveDBPath() (string, error) {
	path := c.DBPath
	if path == "" {
		path = DefaultDBPath
	}
	if path == ":memory:" {
		return path, nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return path, nil
}
