package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// BaseSettingsDir returns the directory holding the settings file. Log and
// history files with relative names live next to it.
func BaseSettingsDir() string {
	// config.path overrides the lookup (used by tests)
	if configPath := viper.GetString("config.path"); configPath != "" {
		return configPath
	}

	if currentConfig := viper.ConfigFileUsed(); currentConfig != "" {
		return filepath.Dir(currentConfig)
	}
	if Global != nil && Global.ConfigFile != "" {
		return filepath.Dir(Global.ConfigFile)
	}
	return ".vaultchat"
}

func BuildSettingsPath(target string) string {
	return filepath.Join(BaseSettingsDir(), target)
}
