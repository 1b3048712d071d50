package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// Config is the merged project configuration.
type Config struct {
	// Root is the directory of the manifest, or "" without one.
	Root     string
	Manifest string

	Header    bool
	Indent    int
	Jobs      int
	OutDir    string
	Extension string

	MethodMutation bool
	NonConsuming   []string
	Duplicable     []string

	CacheEnabled bool
	CacheDir     string

	// Trace is the trace output from HIGHRUST_TRACE, "" when unset.
	Trace string
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Header:         true,
		Indent:         4,
		OutDir:         "out",
		Extension:      ".hr",
		MethodMutation: true,
		CacheEnabled:   true,
	}
}

// ErrInvalidConfig wraps every semantic problem found in a manifest.
var ErrInvalidConfig = errors.New("invalid configuration")

type manifest struct {
	Transpile struct {
		Header    bool   `toml:"header"`
		Indent    int    `toml:"indent"`
		Jobs      int    `toml:"jobs"`
		OutDir    string `toml:"out_dir"`
		Extension string `toml:"extension"`
	} `toml:"transpile"`
	Ownership struct {
		MethodMutation bool     `toml:"method_mutation"`
		NonConsuming   []string `toml:"non_consuming"`
		Duplicable     []string `toml:"duplicable"`
	} `toml:"ownership"`
	Cache struct {
		Enabled bool   `toml:"enabled"`
		Dir     string `toml:"dir"`
	} `toml:"cache"`
}

// LoadFile decodes a manifest over the defaults. Keys absent from the file
// keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	cfg.Manifest = path
	cfg.Root = filepath.Dir(path)

	if meta.IsDefined("transpile", "header") {
		cfg.Header = m.Transpile.Header
	}
	if meta.IsDefined("transpile", "indent") {
		cfg.Indent = m.Transpile.Indent
	}
	if meta.IsDefined("transpile", "jobs") {
		cfg.Jobs = m.Transpile.Jobs
	}
	if meta.IsDefined("transpile", "out_dir") {
		cfg.OutDir = m.Transpile.OutDir
	}
	if meta.IsDefined("transpile", "extension") {
		cfg.Extension = m.Transpile.Extension
	}
	if meta.IsDefined("ownership", "method_mutation") {
		cfg.MethodMutation = m.Ownership.MethodMutation
	}
	cfg.NonConsuming = m.Ownership.NonConsuming
	cfg.Duplicable = m.Ownership.Duplicable
	if meta.IsDefined("cache", "enabled") {
		cfg.CacheEnabled = m.Cache.Enabled
	}
	cfg.CacheDir = m.Cache.Dir

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load finds the manifest above startDir, decodes it when present and
// applies environment overrides.
func Load(startDir string) (Config, error) {
	cfg := Default()
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return cfg, err
	}
	if ok {
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overlays HIGHRUST_* environment variables.
func (c *Config) ApplyEnv() {
	if env.Has("HIGHRUST_JOBS") {
		c.Jobs = env.Int("HIGHRUST_JOBS", c.Jobs)
	}
	if env.Bool("HIGHRUST_NO_CACHE") {
		c.CacheEnabled = false
	}
	c.CacheDir = env.Str("HIGHRUST_CACHE_DIR", c.CacheDir)
	c.Trace = env.Str("HIGHRUST_TRACE", c.Trace)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Indent < 1 || c.Indent > 16 {
		errs = append(errs, fmt.Errorf("%w: transpile.indent must be within 1..16, got %d", ErrInvalidConfig, c.Indent))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("%w: transpile.jobs must not be negative, got %d", ErrInvalidConfig, c.Jobs))
	}
	if c.Extension == "" || !strings.HasPrefix(c.Extension, ".") {
		errs = append(errs, fmt.Errorf("%w: transpile.extension must start with '.', got %q", ErrInvalidConfig, c.Extension))
	}
	if slices.Contains(c.NonConsuming, "") || slices.Contains(c.Duplicable, "") {
		errs = append(errs, fmt.Errorf("%w: ownership name lists must not contain empty names", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Set turns a name list into a lookup set.
func Set(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// OutputPath maps a source file below the project root into OutDir with
// the .rs extension.
func (c Config) OutputPath(src string) string {
	rel := src
	if c.Root != "" {
		if r, err := filepath.Rel(c.Root, src); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".rs"
	out := c.OutDir
	if !filepath.IsAbs(out) && c.Root != "" {
		out = filepath.Join(c.Root, out)
	}
	return filepath.Join(out, rel)
}
