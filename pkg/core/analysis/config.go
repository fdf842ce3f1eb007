package analysis

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// ToolSettings overrides provider and model for one tool.
type ToolSettings struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// ToolsConfig is the optional config/models.yaml layout.
type ToolsConfig struct {
	ActiveProvider string                  `yaml:"active_provider"`
	Tools          map[string]ToolSettings `yaml:"tools"`
}

// DefaultToolsConfig routes everything to the openai provider.
func DefaultToolsConfig() *ToolsConfig {
	return &ToolsConfig{
		ActiveProvider: "openai",
		Tools:          map[string]ToolSettings{},
	}
}

// LoadToolsConfig reads the YAML tool routing file. A missing file is not an
// error; defaults apply.
func LoadToolsConfig(path string) (*ToolsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultToolsConfig(), nil
		}
		return nil, fmt.Errorf("analysis: reading %s: %w", path, err)
	}
	cfg := DefaultToolsConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analysis: parsing %s: %w", path, err)
	}
	if cfg.ActiveProvider == "" {
		cfg.ActiveProvider = "openai"
	}
	if cfg.Tools == nil {
		cfg.Tools = map[string]ToolSettings{}
	}
	return cfg, nil
}

// ModelFor returns the configured model override for a tool, if any.
func (c *ToolsConfig) ModelFor(toolName string) string {
	return c.Tools[toolName].Model
}
