// Package config resolves client settings.
//
// Precedence, highest first: explicit overrides (flags), environment,
// a .env file in the working directory, the YAML config file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".coolsave"
	configFileName = "config.yaml"

	DefaultAPIURL       = "http://localhost:3000/"
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 10 * time.Second
	DefaultMinRefresh   = 2 * time.Second
	DefaultTheme        = "classic"
	DefaultLogFile      = "coolsave.log"
	DefaultLogLevel     = "info"
)

// Environment variables. API_URL and EXPO_PUBLIC_API_URL are read for
// compatibility with the mobile client's .env files.
const (
	EnvAPIURL       = "COOLSAVE_API_URL"
	EnvTimeout      = "COOLSAVE_TIMEOUT"
	EnvPollInterval = "COOLSAVE_POLL_INTERVAL"
	EnvTheme        = "COOLSAVE_THEME"
	EnvLogFile      = "COOLSAVE_LOG_FILE"
	EnvLogLevel     = "COOLSAVE_LOG_LEVEL"
)

var legacyAPIURLEnv = []string{"API_URL", "EXPO_PUBLIC_API_URL"}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the resolved client configuration.
type Config struct {
	APIURL       string        `yaml:"api_url"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MinRefresh   time.Duration `yaml:"min_refresh"`
	Theme        string        `yaml:"theme"`
	LogFile      string        `yaml:"log_file"`
	LogLevel     string        `yaml:"log_level"`
}

// Overrides carry flag values; empty fields leave the setting alone.
type Overrides struct {
	ConfigPath string
	APIURL     string
	Theme      string
	LogLevel   string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:       DefaultAPIURL,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		MinRefresh:   DefaultMinRefresh,
		Theme:        DefaultTheme,
		LogFile:      DefaultLogFile,
		LogLevel:     DefaultLogLevel,
	}
}

// Dir is the per-user settings directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is the YAML file read when no -config flag is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load resolves the configuration.
func Load(o Overrides) (Config, error) {
	cfg := Default()

	path := o.ConfigPath
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path, explicit); err != nil {
			return Config{}, err
		}
	}

	// .env never overrides variables already set in the process environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.mergeEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	cfg.mergeOverrides(o)
	cfg.APIURL = normaliseURL(cfg.APIURL)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.merge(file)
	return nil
}

func (c *Config) merge(o Config) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.PollInterval > 0 {
		c.PollInterval = o.PollInterval
	}
	if o.MinRefresh > 0 {
		c.MinRefresh = o.MinRefresh
	}
	if o.Theme != "" {
		c.Theme = o.Theme
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	var env Config
	for _, k := range legacyAPIURLEnv {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			env.APIURL = v
		}
	}
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		env.APIURL = v
	}
	for key, dst := range map[string]*time.Duration{
		EnvTimeout:      &env.Timeout,
		EnvPollInterval: &env.PollInterval,
	} {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		*dst = d
	}
	env.Theme = strings.TrimSpace(getenv(EnvTheme))
	env.LogFile = strings.TrimSpace(getenv(EnvLogFile))
	env.LogLevel = strings.TrimSpace(getenv(EnvLogLevel))
	c.merge(env)
	return nil
}

func (c *Config) mergeOverrides(o Overrides) {
	c.merge(Config{APIURL: o.APIURL, Theme: o.Theme, LogLevel: o.LogLevel})
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("%w: api_url %q must be http(s)", ErrInvalid, c.APIURL)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalid, c.Theme)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

func normaliseURL(u string) string {
	u = strings.TrimSpace(u)
	if u != "" && !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// Save writes cfg as YAML to path, creating the directory with 0700.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
