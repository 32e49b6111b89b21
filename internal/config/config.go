// Package config loads the optional .syntaxcore.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/syntaxcore/internal/lang"
	"github.com/DeusData/syntaxcore/internal/syntaxerr"
)

// FileName is the settings file looked up by Find.
const FileName = ".syntaxcore.yaml"

// Config holds user-overridable settings. Unset pointer fields fall back to
// the defaults reported by the Effective accessors.
type Config struct {
	Pool PoolConfig `yaml:"pool"`

	// GrammarPaths are searched for shared-library grammars, after the
	// project's .syntaxcore/grammars directory.
	GrammarPaths []string `yaml:"grammar_paths"`

	// QueryDirs hold <language>/<kind>.scm files that override the
	// built-in patterns. Earlier directories win.
	QueryDirs []string `yaml:"query_dirs"`

	// WatchQueries reloads patterns when files in QueryDirs change.
	// Default: false.
	WatchQueries *bool `yaml:"watch_queries"`

	Folding FoldingConfig `yaml:"folding"`
	Query   QueryConfig   `yaml:"query"`
	Cache   CacheConfig   `yaml:"cache"`

	// HighlightClasses maps capture names to highlight classes.
	HighlightClasses map[string]string `yaml:"highlight_classes"`

	// OutlineRules replaces the built-in rule table of a language.
	OutlineRules map[string][]lang.Rule `yaml:"outline_rules"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `yaml:"log_level"`

	dir string
}

// PoolConfig sizes the parser pool.
type PoolConfig struct {
	// Capacity is the number of idle parsers kept. Default: 4.
	Capacity *int `yaml:"capacity"`
	// MaxInFlight bounds leased parsers; 0 means unbounded. Default: 0.
	MaxInFlight *int `yaml:"max_in_flight"`
}

type FoldingConfig struct {
	// MinLineSpan is the smallest fold reported. Default: 1.
	MinLineSpan *uint `yaml:"min_line_span"`
}

type QueryConfig struct {
	// MatchLimit caps in-progress matches per execution; 0 is the engine
	// default.
	MatchLimit *uint `yaml:"match_limit"`
}

type CacheConfig struct {
	// Path of the outline cache database. Default: <user cache dir>/syntaxcore/outline.db.
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
	// MaxEntries bounds the cached results; 0 is unbounded. Default: 10000.
	MaxEntries *int `yaml:"max_entries"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// Load reads the file at path. A missing file yields the defaults; a file
// that does not parse or validate is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, syntaxerr.Configurationf("parse %s: %v", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, syntaxerr.Configurationf("%s: %v", path, err)
	}
	slog.Debug("config.loaded", "path", path)
	return cfg, nil
}

// Find looks for FileName in dir and its parents and returns the first
// path found, or "" if there is none.
func Find(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(abs, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}

// LoadDir loads the nearest settings file above dir, or the defaults.
func LoadDir(dir string) (*Config, error) {
	p := Find(dir)
	if p == "" {
		cfg := Default()
		cfg.dir = dir
		return cfg, nil
	}
	return Load(p)
}

func (c *Config) validate() error {
	if c.Pool.Capacity != nil && *c.Pool.Capacity < 1 {
		return fmt.Errorf("pool.capacity must be at least 1, got %d", *c.Pool.Capacity)
	}
	if c.Pool.MaxInFlight != nil && *c.Pool.MaxInFlight < 0 {
		return fmt.Errorf("pool.max_in_flight must not be negative, got %d", *c.Pool.MaxInFlight)
	}
	if c.Cache.MaxEntries != nil && *c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", *c.Cache.MaxEntries)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	seen := make(map[lang.Language]string, len(c.OutlineRules))
	for name := range c.OutlineRules {
		l, ok := lang.Parse(name)
		if !ok {
			return fmt.Errorf("outline_rules: unknown language %q", name)
		}
		if prev, dup := seen[l]; dup {
			a, b := prev, name
			if b < a {
				a, b = b, a
			}
			return fmt.Errorf("outline_rules: %q and %q both name %s", a, b, l)
		}
		seen[l] = name
	}
	return nil
}

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string { return c.dir }

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

func (c *Config) resolveAll(ps []string) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = c.resolve(p)
	}
	return out
}

// EffectivePoolCapacity returns the configured idle capacity, or 4.
func (c *Config) EffectivePoolCapacity() int {
	if c.Pool.Capacity != nil {
		return *c.Pool.Capacity
	}
	return 4
}

// EffectiveMaxInFlight returns the configured in-flight bound, or 0.
func (c *Config) EffectiveMaxInFlight() int {
	if c.Pool.MaxInFlight != nil {
		return *c.Pool.MaxInFlight
	}
	return 0
}

// EffectiveCacheMaxEntries returns the configured cache bound, or 10000.
func (c *Config) EffectiveCacheMaxEntries() int {
	if c.Cache.MaxEntries != nil {
		return *c.Cache.MaxEntries
	}
	return 10000
}

// EffectiveWatchQueries reports whether pattern hot reload is on.
func (c *Config) EffectiveWatchQueries() bool {
	if c.WatchQueries != nil {
		return *c.WatchQueries
	}
	return false
}

// EffectiveMinLineSpan returns the configured fold threshold, or 1.
func (c *Config) EffectiveMinLineSpan() uint {
	if c.Folding.MinLineSpan != nil {
		return *c.Folding.MinLineSpan
	}
	return 1
}

// EffectiveMatchLimit returns the configured match limit, or 0.
func (c *Config) EffectiveMatchLimit() uint {
	if c.Query.MatchLimit != nil {
		return *c.Query.MatchLimit
	}
	return 0
}

// EffectiveLogLevel returns the configured level, or info.
func (c *Config) EffectiveLogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// QueryDirPaths returns QueryDirs resolved against the config directory.
func (c *Config) QueryDirPaths() []string { return c.resolveAll(c.QueryDirs) }

// GrammarPathList returns GrammarPaths resolved against the config directory.
func (c *Config) GrammarPathList() []string { return c.resolveAll(c.GrammarPaths) }

// CachePath returns the outline cache location, or "" when the cache is
// disabled or no location can be determined.
func (c *Config) CachePath() string {
	if c.Cache.Disabled {
		return ""
	}
	if c.Cache.Path != "" {
		return c.resolve(c.Cache.Path)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "syntaxcore", "outline.db")
}

// Rules returns the outline rules for l: the configured table if there is
// one, else the built-in one. validate guarantees at most one key of
// OutlineRules resolves to l.
func (c *Config) Rules(l lang.Language) []lang.Rule {
	for name, rules := range c.OutlineRules {
		if parsed, ok := lang.Parse(name); ok && parsed == l {
			return rules
		}
	}
	if spec := lang.ForLanguage(l); spec != nil {
		return spec.OutlineRules
	}
	return nil
}
