package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

type MappingConfig struct {
	Name   string `mapstructure:"name"`
	Path   string `mapstructure:"path"`
	Sheet  string `mapstructure:"sheet"`
	Mode   string `mapstructure:"mode"`
	Active bool   `mapstructure:"active"`
}

// GetActiveMappingConfig returns the currently active mapping profile.
func GetActiveMappingConfig() (*MappingConfig, error) {
	var configs []MappingConfig

	if err := viper.UnmarshalKey("mappings", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse mappings config: %w", err)
	}

	var activeConfig *MappingConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active mapping found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active mappings found (only one can be active)")
	}

	return activeConfig, nil
}
