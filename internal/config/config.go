// Package config resolves tada's settings.
//
// Sources, lowest priority first:
//  1. Defaults
//  2. User config file ($XDG_CONFIG_HOME/tada/config.toml, or $TADA_CONFIG)
//  3. Project config file (tada.toml or .tada.toml in the working directory)
//  4. Environment variables (TADA_*)
//  5. Command-line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/tada/internal/model"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	DefaultBackend  = BackendFile
	DefaultDataDir  = "."
	DefaultDBFile   = "tada.db"
	DefaultTheme    = "classic"
	DefaultLogLevel = "warn"
)

// Config is the resolved configuration.
type Config struct {
	Backend         string         `toml:"backend"`
	DataDir         string         `toml:"data_dir"`
	DBFile          string         `toml:"db_file"`
	DefaultPriority model.Priority `toml:"default_priority"`
	Theme           string         `toml:"theme"`
	NoColor         bool           `toml:"no_color"`
	Group           bool           `toml:"group"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.DataDir = DefaultDataDir
	cfg.DBFile = DefaultDBFile
	cfg.DefaultPriority = model.PriorityMedium
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = "text"
}

// RegisterFlags adds the global flags to fs. Defaults are left blank so
// that only flags the user actually passed override lower sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("backend", "", "storage backend: file, sqlite or memory")
	fs.String("data-dir", "", "directory holding todos.json / tada.db")
	fs.String("default-priority", "", "priority preselected in the add form")
	fs.String("theme", "", "output theme: classic, neon or mono")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: text, json, logfmt")
	fs.String("log-file", "", "append logs to this file instead of stderr")
	fs.Bool("no-color", false, "disable colored output")
	fs.BoolP("group", "g", false, "group ls output by pending/done")
}

// Load resolves configuration. fs must already be parsed; only flags
// marked as changed are applied.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	if p := userConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := projectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	loadFromEnv(cfg)

	if fs != nil {
		if err := applyFlags(cfg, fs); err != nil {
			return nil, fmt.Errorf("applying flags: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes and checks enumerated fields.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want file, sqlite or memory)", c.Backend)
	}
	p, err := model.ParsePriority(string(c.DefaultPriority))
	if err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	c.DefaultPriority = p
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	c.DataDir = expandPath(c.DataDir)
	if c.LogFile != "" {
		c.LogFile = expandPath(c.LogFile)
	}
	return nil
}

// DBPath is the SQLite database location for the sqlite backend.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func userConfigFile() string {
	if p := os.Getenv("TADA_CONFIG"); p != "" {
		return expandPath(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "tada", "config.toml")
	if fileExists(p) {
		return p
	}
	return ""
}

func projectConfigFile() string {
	for _, name := range []string{"tada.toml", ".tada.toml"} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TADA_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TADA_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TADA_DEFAULT_PRIORITY"); v != "" {
		cfg.DefaultPriority = model.Priority(v)
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	// NO_COLOR is the cross-tool convention; any value disables color.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	str := func(name string, dst *string) error {
		if !fs.Changed(name) {
			return nil
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	boolean := func(name string, dst *bool) error {
		if !fs.Changed(name) {
			return nil
		}
		v, err := fs.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	prio := string(cfg.DefaultPriority)
	err := errors.Join(
		str("backend", &cfg.Backend),
		str("data-dir", &cfg.DataDir),
		str("default-priority", &prio),
		str("theme", &cfg.Theme),
		str("log-level", &cfg.LogLevel),
		str("log-format", &cfg.LogFormat),
		str("log-file", &cfg.LogFile),
		boolean("no-color", &cfg.NoColor),
		boolean("group", &cfg.Group),
	)
	cfg.DefaultPriority = model.Priority(prio)
	return err
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
