package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML schema. Every field is optional; Default() fills
// in what a missing or partial file leaves out.
type Config struct {
	Version int     `yaml:"version"`
	General General `yaml:"general"`
	Output  Output  `yaml:"output"`
	Network Network `yaml:"network"`
	Sources Sources `yaml:"sources"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

type General struct {
	DataRoot string `yaml:"data_root"` // state.db, lock file
	Record   bool   `yaml:"record"`    // record allocated filenames and fetched scripts in history
}

type Output struct {
	Dir       string `yaml:"dir"`       // directory probed for filename collisions
	Ext       string `yaml:"ext"`       // default extension, "png" when empty
	Timestamp string `yaml:"timestamp"` // "" | epoch | utc | local
}

type Network struct {
	// TimeoutSeconds bounds the script fetch. 0 means no timeout.
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type Sources struct {
	GitHub GitHubSource `yaml:"github"`
}

type GitHubSource struct {
	Enabled  bool   `yaml:"enabled"`
	TokenEnv string `yaml:"token_env"`
	// RawBaseURL overrides https://raw.githubusercontent.com (mirrors, tests).
	RawBaseURL string `yaml:"raw_base_url"`
}

type Logging struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // human|json
}

type Metrics struct {
	PrometheusTextfile PromTextfile `yaml:"prometheus_textfile"`
}

type PromTextfile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	dataRoot := ""
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		dataRoot = filepath.Join(h, ".local", "share", "shotscraper")
	}
	return &Config{
		Version: 1,
		General: General{DataRoot: dataRoot},
		Output:  Output{Dir: ".", Ext: "png"},
		Logging: Logging{Level: "info", Format: "human"},
	}
}

// DefaultPath is where the CLI looks when neither --config nor
// SHOTSCRAPER_CONFIG is set.
func DefaultPath() string {
	if env := strings.TrimSpace(os.Getenv("SHOTSCRAPER_CONFIG")); env != "" {
		return env
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, ".config", "shotscraper", "config.yml")
	}
	return ""
}

// Load reads, parses, expands, and validates a YAML config file. Values in
// the file override Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", expanded, err)
	}
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadOrDefault behaves like Load but returns Default() when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(expanded)
}

func (c *Config) expandPaths() error {
	var err error
	if c.General.DataRoot, err = expandTilde(c.General.DataRoot); err != nil {
		return err
	}
	if c.Output.Dir, err = expandTilde(c.Output.Dir); err != nil {
		return err
	}
	if c.Metrics.PrometheusTextfile.Path, err = expandTilde(c.Metrics.PrometheusTextfile.Path); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.Network.TimeoutSeconds < 0 {
		return errors.New("network.timeout_seconds must be >= 0")
	}
	switch strings.ToLower(c.Output.Timestamp) {
	case "", "epoch", "utc", "local":
		// ok
	default:
		return fmt.Errorf("output.timestamp invalid: %s", c.Output.Timestamp)
	}
	if strings.ContainsAny(c.Output.Ext, "/\\") || strings.HasPrefix(c.Output.Ext, ".") {
		return fmt.Errorf("output.ext invalid: %s", c.Output.Ext)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level invalid: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "human", "json":
		// ok
	default:
		return fmt.Errorf("logging.format invalid: %s", c.Logging.Format)
	}
	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		return errors.New("metrics.prometheus_textfile.path is required when enabled")
	}
	return nil
}

func expandTilde(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p[0] != '~' {
		return p, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return h, nil
	}
	return filepath.Join(h, p[2:]), nil
}

// EnsureDir creates path if it is set.
func EnsureDir(path string, perm fs.FileMode) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, perm)
}
