package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/romfs/internal/util"
	"gopkg.in/yaml.v3"
)

// NameEncoding selects how entry and volume names are turned into strings
type NameEncoding = string

const (
	// StrictEncoding rejects names that are not valid UTF-8
	StrictEncoding NameEncoding = "strict"
	// ReplaceEncoding substitutes U+FFFD for invalid UTF-8 sequences
	ReplaceEncoding NameEncoding = "replace"
	// Latin1Encoding decodes every name byte as ISO-8859-1
	Latin1Encoding NameEncoding = "latin1"
)

// CLI verbosity levels accepted by [ConfigOverride.LogLvl]
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	// DefaultMaxEntries bounds the number of entries decoded from one image.
	// Corrupt images can chain entries in ways no visited-set catches quickly.
	DefaultMaxEntries = 1 << 20

	DefaultNameEncoding = StrictEncoding

	// DefaultExtractWorkers is the number of concurrent file writers during extraction
	DefaultExtractWorkers = 4

	DefaultDirPerm  = 0o755
	DefaultFilePerm = 0o644
)

// Config contains runtime configuration values for parsing and extraction.
type Config struct {
	LogLvl         util.LogLevel // Internal log level (Default info)
	MaxEntries     int           // Maximum entries decoded per image; <= 0 disables the limit (Default 1048576)
	NameEncoding   NameEncoding  // Name decoding policy: strict, replace or latin1 (Default strict)
	ExtractWorkers int           // Concurrent file writers during extraction (Default 4)
	DirPerm        uint32        // Permission bits for extracted directories (Default 0755)
	FilePerm       uint32        // Permission bits for extracted files (Default 0644)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is the CLI verbosity between 1 (error) and 5 (trace); clamped when merged
	LogLvl         *int          `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	MaxEntries     *int          `yaml:"max_entries,omitempty" json:"max_entries,omitempty"`
	NameEncoding   *NameEncoding `yaml:"name_encoding,omitempty" json:"name_encoding,omitempty"`
	ExtractWorkers *int          `yaml:"extract_workers,omitempty" json:"extract_workers,omitempty"`
	DirPerm        *uint32       `yaml:"dir_perm,omitempty" json:"dir_perm,omitempty"`
	FilePerm       *uint32       `yaml:"file_perm,omitempty" json:"file_perm,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:         DefaultLogLvl,
		MaxEntries:     DefaultMaxEntries,
		NameEncoding:   DefaultNameEncoding,
		ExtractWorkers: DefaultExtractWorkers,
		DirPerm:        DefaultDirPerm,
		FilePerm:       DefaultFilePerm,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.MaxEntries != nil {
		c.MaxEntries = *override.MaxEntries
	}
	if override.NameEncoding != nil {
		c.NameEncoding = *override.NameEncoding
	}
	if override.ExtractWorkers != nil {
		c.ExtractWorkers = *override.ExtractWorkers
	}
	if override.DirPerm != nil {
		c.DirPerm = *override.DirPerm
	}
	if override.FilePerm != nil {
		c.FilePerm = *override.FilePerm
	}
}

// Validate reports configuration values that cannot be used
func (c *Config) Validate() error {
	switch c.NameEncoding {
	case StrictEncoding, ReplaceEncoding, Latin1Encoding:
	default:
		return fmt.Errorf("unknown name encoding: %q", c.NameEncoding)
	}
	if c.ExtractWorkers < 1 {
		return fmt.Errorf("extract workers must be at least 1, got %d", c.ExtractWorkers)
	}
	return nil
}

// VerboseToLogLevel maps CLI verbosity 1 (error) through 5 (trace) to a
// [util.LogLevel], clamping values outside that range.
func VerboseToLogLevel(verbose int) util.LogLevel {
	verbose = max(ErrorVerbose, min(verbose, TraceVerbose))
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return logLvls[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
