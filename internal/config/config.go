package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file picked up from the working directory when
// no --config flag is given.
const DefaultPath = ".crank.yaml"

// DefaultStyle is the code style for files without generated regions.
const DefaultStyle = "tabular"

// Config is the content of a crank config file.
type Config struct {
	Files   []string `mapstructure:"files"`
	Style   string   `mapstructure:"style"`
	Debug   bool     `mapstructure:"debug"`
	Verbose bool     `mapstructure:"verbose"`
	Quiet   bool     `mapstructure:"quiet"`
	Backup  *bool    `mapstructure:"backup"` // nil when unset
}

// Flags are the command-line switches that override a Config.
type Flags struct {
	Files    []string
	Style    string
	Debug    bool
	Verbose  bool
	Quiet    bool
	NoBackup bool
}

// Settings are the effective options after merging.
type Settings struct {
	Files   []string
	Style   string
	Debug   bool
	Verbose bool
	Quiet   bool
	Backup  bool
}

// Load reads a YAML or JSON config file, chosen by extension.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := make(map[string]any)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if cfg.Verbose && cfg.Quiet {
		return nil, fmt.Errorf("%s: verbose and quiet are mutually exclusive", path)
	}
	return &cfg, nil
}

// Discover loads path when it is set. Otherwise it loads DefaultPath if it
// exists, and returns an empty Config if not.
func Discover(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return Load(DefaultPath)
}

// Merge combines a config file with command-line flags.
// Debug is enabled by either source. A verbosity flag overrides the opposite
// setting of the file. Files are the ordered union, flags first. Style and
// backup come from the flags, then the file, then the defaults.
func Merge(file *Config, flags Flags) Settings {
	if file == nil {
		file = &Config{}
	}
	s := Settings{
		Debug:   file.Debug || flags.Debug,
		Verbose: flags.Verbose || (file.Verbose && !flags.Quiet),
		Quiet:   flags.Quiet || (file.Quiet && !flags.Verbose),
		Style:   DefaultStyle,
		Backup:  true,
	}

	seen := make(map[string]bool)
	for _, f := range append(append([]string(nil), flags.Files...), file.Files...) {
		if !seen[f] {
			seen[f] = true
			s.Files = append(s.Files, f)
		}
	}

	switch {
	case flags.Style != "":
		s.Style = flags.Style
	case file.Style != "":
		s.Style = file.Style
	}

	switch {
	case flags.NoBackup:
		s.Backup = false
	case file.Backup != nil:
		s.Backup = *file.Backup
	}
	return s
}
