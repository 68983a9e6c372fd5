package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is looked up from the schema directory upwards.
const FileName = "bgql.toml"

const (
	DefaultMaxDepth       = 128
	DefaultMaxTokens      = 1_000_000
	DefaultMaxModuleDepth = 32
	DefaultMaxDiagnostics = 500
)

// LintLevel switches an advisory diagnostic on or off.
type LintLevel string

const (
	LintWarn LintLevel = "warn"
	LintOff  LintLevel = "off"
)

type Config struct {
	Compat CompatConfig `toml:"compat"`
	Limits LimitsConfig `toml:"limits"`
	Lint   LintConfig   `toml:"lint"`

	// Path is the file the values came from; empty for defaults.
	Path string `toml:"-"`
}

type CompatConfig struct {
	// NullableDefault makes bare types nullable and `!` meaningful, as in GraphQL.
	NullableDefault bool `toml:"nullable_default"`
}

type LimitsConfig struct {
	MaxDepth       int `toml:"max_depth"`
	MaxTokens      int `toml:"max_tokens"`
	MaxModuleDepth int `toml:"max_module_depth"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type LintConfig struct {
	DeprecatedUsage LintLevel `toml:"deprecated_usage"`
	RedundantBang   LintLevel `toml:"redundant_bang"`
}

// Default returns the configuration used when no bgql.toml exists.
func Default() Config {
	return Config{
		Limits: LimitsConfig{
			MaxDepth:       DefaultMaxDepth,
			MaxTokens:      DefaultMaxTokens,
			MaxModuleDepth: DefaultMaxModuleDepth,
			MaxDiagnostics: DefaultMaxDiagnostics,
		},
		Lint: LintConfig{
			DeprecatedUsage: LintWarn,
			RedundantBang:   LintWarn,
		},
	}
}

// Parse decodes TOML text; keys that are not set keep their defaults.
func Parse(data string) (Config, error) {
	var cfg Config
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return finish(cfg, meta)
}

// Load reads and validates a bgql.toml file.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg, err = finish(cfg, meta)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func finish(cfg Config, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	def := Default()
	if !meta.IsDefined("limits", "max_depth") {
		cfg.Limits.MaxDepth = def.Limits.MaxDepth
	}
	if !meta.IsDefined("limits", "max_tokens") {
		cfg.Limits.MaxTokens = def.Limits.MaxTokens
	}
	if !meta.IsDefined("limits", "max_module_depth") {
		cfg.Limits.MaxModuleDepth = def.Limits.MaxModuleDepth
	}
	if !meta.IsDefined("limits", "max_diagnostics") {
		cfg.Limits.MaxDiagnostics = def.Limits.MaxDiagnostics
	}
	if !meta.IsDefined("lint", "deprecated_usage") {
		cfg.Lint.DeprecatedUsage = def.Lint.DeprecatedUsage
	}
	if !meta.IsDefined("lint", "redundant_bang") {
		cfg.Lint.RedundantBang = def.Lint.RedundantBang
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	positive := func(key string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("[limits].%s must be positive, got %d", key, v))
		}
	}
	positive("max_depth", c.Limits.MaxDepth)
	positive("max_tokens", c.Limits.MaxTokens)
	positive("max_module_depth", c.Limits.MaxModuleDepth)
	if c.Limits.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("[limits].max_diagnostics must not be negative, got %d", c.Limits.MaxDiagnostics))
	}
	level := func(key string, v LintLevel) {
		if v != LintWarn && v != LintOff {
			errs = append(errs, fmt.Errorf("[lint].%s must be %q or %q, got %q", key, LintWarn, LintOff, v))
		}
	}
	level("deprecated_usage", c.Lint.DeprecatedUsage)
	level("redundant_bang", c.Lint.RedundantBang)
	return errors.Join(errs...)
}

// Find walks from startDir to the filesystem root looking for bgql.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest bgql.toml above startDir, or the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Encode writes c as TOML; `bgql init` uses it for the starter file.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Fingerprint identifies every setting that changes a ParseResult.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("nd=%t;d=%d;t=%d;m=%d;n=%d;dep=%s;bang=%s",
		c.Compat.NullableDefault,
		c.Limits.MaxDepth, c.Limits.MaxTokens, c.Limits.MaxModuleDepth, c.Limits.MaxDiagnostics,
		c.Lint.DeprecatedUsage, c.Lint.RedundantBang)
}
