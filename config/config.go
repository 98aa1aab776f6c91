package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Query  QueryConfig  `json:"query" yaml:"query"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// SearchConfig holds repository discovery options.
type SearchConfig struct {
	MaxDepth int      `json:"maxDepth" yaml:"maxDepth"` // Default: 5
	Exclude  []string `json:"exclude" yaml:"exclude"`   // Doublestar globs relative to the root
}

// QueryConfig holds commit query options.
type QueryConfig struct {
	Workers       int    `json:"workers" yaml:"workers"`             // 0 uses GOMAXPROCS
	AuthorMatch   string `json:"authorMatch" yaml:"authorMatch"`     // exact or substring
	Order         string `json:"order" yaml:"order"`                 // discovery or newest
	LookbackHours int    `json:"lookbackHours" yaml:"lookbackHours"` // Default since when none is given
	Backend       string `json:"backend" yaml:"backend"`             // go-git or cli
}

// LogConfig holds diagnostic logging options.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxDepth: 5,
			Exclude:  []string{},
		},
		Query: QueryConfig{
			Workers:       0,
			AuthorMatch:   "exact",
			Order:         "discovery",
			LookbackHours: 24,
			Backend:       "go-git",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

var candidateNames = []string{".gitwalk.json", ".gitwalk.yaml", ".gitwalk.yml"}

// LoadConfig loads configuration from a file, merging with defaults.
// With an empty path the working directory and then the home directory are
// searched for .gitwalk.json, .gitwalk.yaml or .gitwalk.yml.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Search.MaxDepth < 0 {
		return nil, fmt.Errorf("parse %s: search.maxDepth must be non-negative", path)
	}

	return cfg, nil
}

func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}

	for _, dir := range dirs {
		for _, name := range candidateNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveConfig saves configuration to a file, as YAML when the extension asks for it.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
