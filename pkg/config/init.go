package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DocumentSetting is one processed document as listed in the settings file
type DocumentSetting struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// Settings holds all configuration values
type Settings struct {
	// Server connection
	Server struct {
		URL string
	}

	// UI behavior that differs between single-file and vault deployments
	UI struct {
		PreviewPlacement     string
		SourceLabel          string
		RelocateStreamBubble bool
	}

	Documents []DocumentSetting

	// Logging configuration
	Logging struct {
		LogFile string
		Persist bool
		Level   string
	}

	// Chat transcript
	History struct {
		Enabled bool
		File    string
	}

	// Development replay server
	Replay struct {
		Addr   string
		Script string
	}

	// ConfigFile stores the path to the config file used
	ConfigFile string
}

// Global settings instance
var Global *Settings

// Init initializes the configuration system
func Init(cfgFile string) error {
	Global = &Settings{}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		Global.ConfigFile = cfgFile
	} else {
		viper.AddConfigPath("./.vaultchat")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
		Global.ConfigFile = ".vaultchat/settings.yaml"
	}

	setDefaults()

	viper.SetEnvPrefix("vaultchat")
	viper.AutomaticEnv()
	viper.BindEnv("server.url", "VAULTCHAT_SERVER_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Load()
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("server.url", "ws://localhost:5000/ws")

	viper.SetDefault("ui.preview_placement", "prepend")
	viper.SetDefault("ui.source_label", "file")
	viper.SetDefault("ui.relocate_stream_bubble", true)

	viper.SetDefault("logging.log_file", "system.log")
	viper.SetDefault("logging.persist", false)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.file", "chat.history")

	viper.SetDefault("replay.addr", ":5000")
	viper.SetDefault("replay.script", "")
}

// Load loads configuration from viper into the Settings struct
func Load() error {
	if Global == nil {
		Global = &Settings{}
	}

	Global.Server.URL = viper.GetString("server.url")

	Global.UI.PreviewPlacement = viper.GetString("ui.preview_placement")
	Global.UI.SourceLabel = viper.GetString("ui.source_label")
	Global.UI.RelocateStreamBubble = viper.GetBool("ui.relocate_stream_bubble")

	var docs []DocumentSetting
	if err := viper.UnmarshalKey("documents", &docs); err != nil {
		return fmt.Errorf("invalid documents setting: %w", err)
	}
	Global.Documents = docs

	Global.Logging.LogFile = viper.GetString("logging.log_file")
	Global.Logging.Persist = viper.GetBool("logging.persist")
	Global.Logging.Level = viper.GetString("logging.level")

	Global.History.Enabled = viper.GetBool("history.enabled")
	Global.History.File = viper.GetString("history.file")

	Global.Replay.Addr = viper.GetString("replay.addr")
	Global.Replay.Script = viper.GetString("replay.script")

	return nil
}

// WriteDefaultConfig writes the current configuration to disk, preserving existing settings
func WriteDefaultConfig() error {
	if Global == nil || Global.ConfigFile == "" {
		return fmt.Errorf("config file path not set")
	}

	configDir := filepath.Dir(Global.ConfigFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(Global.ConfigFile); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

// Get returns the global settings instance
func Get() *Settings {
	if Global == nil {
		panic("config not initialized - call Init() first")
	}
	return Global
}
