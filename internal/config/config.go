// Package config loads the layered JSONC configuration of shofi.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/shofi/internal/fs"
	"github.com/calvinalkan/shofi/internal/registry"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir     string              `json:"data_dir"`
	LogFile     string              `json:"log_file,omitempty"`
	LogLevel    string              `json:"log_level,omitempty"`
	Terminal    []string            `json:"terminal,omitempty"`
	Sources     []registry.Location `json:"sources,omitempty"`
	HistoryFile string              `json:"history_file,omitempty"`

	// Files tracks which config files were loaded (for diagnostics)
	Files Files `json:"-"`
}

// Files tracks which config files were loaded.
type Files struct {
	Global   string // Path to global config if loaded, empty otherwise
	Explicit string // Path to -c/--config file if given, empty otherwise
}

// Default returns the configuration used when no file sets anything.
func Default(env map[string]string) Config {
	cfg := Config{
		LogLevel: "info",
		Terminal: DefaultTerminal(env),
		Sources:  DefaultLocations(env),
	}

	if dataHome := DataHome(env); dataHome != "" {
		cfg.DataDir = filepath.Join(dataHome, AppName)
	}

	if stateHome := StateHome(env); stateHome != "" {
		cfg.LogFile = filepath.Join(stateHome, AppName, AppName+".log")
		cfg.HistoryFile = filepath.Join(stateHome, AppName, "history")
	}

	return cfg
}

// UsagePath returns the path of the usage file.
func (c Config) UsagePath() string {
	return filepath.Join(c.DataDir, "usage.json")
}

// Level returns the parsed log level.
func (c Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}

	return level, nil
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	FS               fs.FS             // where config files are read from
	ConfigPath       string            // -c/--config flag value
	DataDirOverride  string            // --data-dir flag value; empty means no override
	LogFileOverride  string            // --log-file flag value
	LogLevelOverride string            // --log-level flag value
	Env              map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/shofi/config.json or ~/.config/shofi/config.json)
// 3. Explicit config file via ConfigPath (if non-empty, must exist)
// 4. CLI overrides.
//
// A leading "~/" in any path is expanded. Relative paths are kept as is.
func Load(input LoadInput) (Config, error) {
	fsys := input.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	cfg := Default(input.Env)

	globalPath := GlobalConfigPath(input.Env)
	if globalPath != "" {
		globalCfg, loaded, err := loadFile(fsys, globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Files.Global = globalPath
			cfg = merge(cfg, globalCfg)
		}
	}

	if input.ConfigPath != "" {
		path := expandHome(input.ConfigPath, input.Env)

		explicitCfg, _, err := loadFile(fsys, path, true)
		if err != nil {
			return Config{}, err
		}

		cfg.Files.Explicit = path
		cfg = merge(cfg, explicitCfg)
	}

	if input.DataDirOverride != "" {
		cfg.DataDir = input.DataDirOverride
	}

	if input.LogFileOverride != "" {
		cfg.LogFile = input.LogFileOverride
	}

	if input.LogLevelOverride != "" {
		cfg.LogLevel = input.LogLevelOverride
	}

	cfg.DataDir = expandHome(cfg.DataDir, input.Env)
	cfg.LogFile = expandHome(cfg.LogFile, input.Env)
	cfg.HistoryFile = expandHome(cfg.HistoryFile, input.Env)

	for i := range cfg.Sources {
		cfg.Sources[i].Dir = expandHome(cfg.Sources[i].Dir, input.Env)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// fileConfig is the on-disk shape. Pointers distinguish an absent key from
// an explicitly empty one.
type fileConfig struct {
	DataDir     *string             `json:"data_dir"`
	LogFile     *string             `json:"log_file"`
	LogLevel    *string             `json:"log_level"`
	Terminal    []string            `json:"terminal"`
	Sources     []registry.Location `json:"sources"`
	HistoryFile *string             `json:"history_file"`
}

// loadFile loads a config file. If mustExist is false, a missing file
// returns a zero config and loaded=false.
func loadFile(fsys fs.FS, path string, mustExist bool) (fileConfig, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if mustExist {
				return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}

			return fileConfig{}, false, nil
		}

		return fileConfig{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if cfg.DataDir != nil && *cfg.DataDir == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDataDirEmpty)
	}

	return cfg, true, nil
}

func parse(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.DataDir != nil {
		base.DataDir = *overlay.DataDir
	}

	if overlay.LogFile != nil {
		base.LogFile = *overlay.LogFile
	}

	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}

	if overlay.Terminal != nil {
		base.Terminal = overlay.Terminal
	}

	if overlay.Sources != nil {
		base.Sources = overlay.Sources
	}

	if overlay.HistoryFile != nil {
		base.HistoryFile = *overlay.HistoryFile
	}

	return base
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return ErrDataDirEmpty
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	for i, loc := range cfg.Sources {
		if loc.Dir == "" {
			return fmt.Errorf("%w: sources[%d]: dir is empty", ErrInvalidSource, i)
		}
	}

	return nil
}
