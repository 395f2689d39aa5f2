// Package config holds the mirror configuration assembled from CLI flags
// and the optional TOML config file. A Config is immutable once validated;
// every pass reads the same values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/twinsync/twin/internal/filter"
)

// Config is the resolved configuration for the mirror loop.
type Config struct {
	Source      string
	Replica     string
	Interval    int // seconds between passes
	LogFile     string
	DryRun      bool
	Excludes    []string
	ExcludeFrom string
	Once        bool
	Verify      bool
	BWLimit     string // human size, e.g. "10M"; empty = unlimited
	LogMaxSize  string // human size; empty = default
	LogBackups  int    // rotated backups to keep; -1 = default
}

// File mirrors the TOML config file. Pointer fields distinguish "unset"
// from zero values so file values only fill in flags the user didn't pass.
type File struct {
	Source     *string  `toml:"source"`
	Replica    *string  `toml:"replica"`
	Interval   *int     `toml:"interval"`
	Log        *string  `toml:"log"`
	DryRun     *bool    `toml:"dry_run"`
	Exclude    []string `toml:"exclude"`
	Verify     *bool    `toml:"verify"`
	BWLimit    *string  `toml:"bwlimit"`
	LogMaxSize *string  `toml:"log_max_size"`
	LogBackups *int     `toml:"log_backups"`
}

// LoadFile reads a TOML config file. The file must exist: unlike an
// XDG-style implicit config, --config names it explicitly.
func LoadFile(path string) (File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("config file %s: unknown keys: %s",
			path, strings.Join(keys, ", "))
	}
	return f, nil
}

// Apply fills cfg with file values for flags not explicitly set on the
// command line. changed reports whether the named flag was set.
func (f File) Apply(cfg *Config, changed func(flag string) bool) {
	if !changed("source") && f.Source != nil {
		cfg.Source = *f.Source
	}
	if !changed("replica") && f.Replica != nil {
		cfg.Replica = *f.Replica
	}
	if !changed("interval") && f.Interval != nil {
		cfg.Interval = *f.Interval
	}
	if !changed("log") && f.Log != nil {
		cfg.LogFile = *f.Log
	}
	if !changed("dry-run") && f.DryRun != nil {
		cfg.DryRun = *f.DryRun
	}
	if !changed("exclude") && len(f.Exclude) > 0 {
		cfg.Excludes = f.Exclude
	}
	if !changed("verify") && f.Verify != nil {
		cfg.Verify = *f.Verify
	}
	if !changed("bwlimit") && f.BWLimit != nil {
		cfg.BWLimit = *f.BWLimit
	}
	if !changed("log-max-size") && f.LogMaxSize != nil {
		cfg.LogMaxSize = *f.LogMaxSize
	}
	if !changed("log-backups") && f.LogBackups != nil {
		cfg.LogBackups = *f.LogBackups
	}
}

// Validate checks the resolved configuration. It does not touch the
// filesystem; a missing source root is detected at pass start instead,
// since the source may appear or vanish between passes.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("--source is required")
	}
	if c.Replica == "" {
		return errors.New("--replica is required")
	}
	if c.LogFile == "" {
		return errors.New("--log is required")
	}
	if !c.Once && c.Interval <= 0 {
		return errors.New("--interval must be a positive number of seconds")
	}

	src, err := filepath.Abs(c.Source)
	if err != nil {
		return fmt.Errorf("source path: %w", err)
	}
	dst, err := filepath.Abs(c.Replica)
	if err != nil {
		return fmt.Errorf("replica path: %w", err)
	}
	if src == dst {
		return errors.New("source and replica must be different directories")
	}
	if isUnder(dst, src) {
		return errors.New("replica must not be inside the source tree")
	}
	if isUnder(src, dst) {
		return errors.New("source must not be inside the replica tree")
	}

	if c.BWLimit != "" {
		if _, err := filter.ParseSize(c.BWLimit); err != nil {
			return fmt.Errorf("--bwlimit: %w", err)
		}
	}
	if c.LogMaxSize != "" {
		if _, err := filter.ParseSize(c.LogMaxSize); err != nil {
			return fmt.Errorf("--log-max-size: %w", err)
		}
	}

	return nil
}

// CompileExcludes compiles the configured patterns, including the
// exclude-from file when set. A malformed pattern fails here, before any
// pass runs.
func (c *Config) CompileExcludes() (*filter.Set, error) {
	set, err := filter.Compile(c.Excludes)
	if err != nil {
		return nil, err
	}
	if c.ExcludeFrom != "" {
		if err := set.LoadFile(c.ExcludeFrom); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// isUnder reports whether path is strictly inside root. Both must be
// absolute and cleaned.
func isUnder(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." &&
		!strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
