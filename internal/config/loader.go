package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	"cssfmt.yml",
	"cssfmt.yaml",
	".cssfmt.yml",
	".cssfmt.yaml",
	"cssfmt.toml",
	".cssfmt.toml",
}

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadOptions reads a flat options mapping from a YAML or TOML file. The
// format is chosen by extension; anything other than .toml is YAML.
func LoadOptions(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	opts := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &opts); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		return opts, nil
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if opts == nil {
		opts = map[string]any{}
	}
	return opts, nil
}

// Load resolves the configuration for a run. If configPath is non-empty,
// that file is loaded directly. Otherwise, Load searches the current working
// directory using Discover. Overrides (typically CLI flags) take precedence
// over file options. Load returns the path of the file used, or "" when
// only defaults and overrides apply.
func Load(configPath string, overrides map[string]any) (*Config, string, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}

	opts := map[string]any{}
	if configPath != "" {
		fileOpts, err := LoadOptions(configPath)
		if err != nil {
			return nil, "", err
		}
		opts = fileOpts
	}
	maps.Copy(opts, overrides)

	cfg, err := Resolve(opts)
	if err != nil {
		if configPath != "" {
			return nil, "", fmt.Errorf("%s: %w", configPath, err)
		}
		return nil, "", err
	}
	return cfg, configPath, nil
}
