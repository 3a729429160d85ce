package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kfeurstein/flexion/core/metrics"
)

// Config is the root configuration of a simulation run.
type Config struct {
	Project   ProjectConfig   `json:"project"`
	Execution ExecutionConfig `json:"execution"`
	Metrics   metrics.Config  `json:"metrics"`
}

// Load reads the configuration file (yaml or json) and applies optional
// FLEXION_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FLEXION_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "flexion_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Execution.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("project.name must not be empty")
	}
	if c.Project.Path == "" {
		return fmt.Errorf("project.path must not be empty")
	}
	return c.Execution.Validate()
}
