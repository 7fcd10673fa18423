// Package config loads the application settings.
//
// Sources, lowest precedence first: built-in defaults, the global file
// ~/.chaoscaptain/config.yaml, the project file .chaoscaptain/config.yaml and
// CHAOS_* environment variables (CHAOS_RELAY_URL, CHAOS_SESSION_USER_ID, ...).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DirName is the per-user and per-project configuration directory.
const DirName = ".chaoscaptain"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHAOS"

// Config is the full application configuration.
type Config struct {
	// DataDir is where notes, exports and local preferences live.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	Relay   RelayConfig   `yaml:"relay" mapstructure:"relay"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	OpenAI  OpenAIConfig  `yaml:"openai" mapstructure:"openai"`
	Notion  NotionConfig  `yaml:"notion" mapstructure:"notion"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
}

// RelayConfig configures both the relay client and `relay serve`.
type RelayConfig struct {
	URL    string `yaml:"url" mapstructure:"url"`
	Addr   string `yaml:"addr" mapstructure:"addr"`
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
}

// SessionConfig identifies the signed-in user. An empty UserID disables the
// remote preference mirror.
type SessionConfig struct {
	UserID string `yaml:"user_id" mapstructure:"user_id"`
}

// OpenAIConfig is used by the relay for transcription.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// NotionConfig is used by the relay for page creation.
type NotionConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ExportConfig tunes the export pipeline.
type ExportConfig struct {
	HandoffSettle time.Duration `yaml:"handoff_settle" mapstructure:"handoff_settle"`
}

// PreferencesPath is the local preference file inside DataDir.
func (c *Config) PreferencesPath() string {
	return filepath.Join(c.DataDir, DirName, "preferences.yaml")
}

// DefaultConfig returns the defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DataDir: filepath.Join(home, "ChaosCaptain"),
		Relay: RelayConfig{
			URL:    "http://localhost:8787",
			Addr:   ":8787",
			DBPath: filepath.Join(home, DirName, "relay.db"),
		},
		OpenAI: OpenAIConfig{BaseURL: "https://api.openai.com/v1"},
		Notion: NotionConfig{BaseURL: "https://api.notion.com/v1"},
		Export: ExportConfig{HandoffSettle: 500 * time.Millisecond},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DirName, "config.yaml")
}

// ProjectConfigPath returns the path to the project config file.
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, DirName, "config.yaml")
}

// Load reads the configuration. When explicit is set it replaces the global
// and project files.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		return LoadFiles(explicit)
	}
	return LoadFiles(GlobalConfigPath(), ProjectConfigPath())
}

// LoadFiles merges the given files over the defaults, in order. Missing
// files are skipped. Environment variables are applied last.
func LoadFiles(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The conventional OpenAI variable works too.
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Relay.DBPath = expandHome(cfg.Relay.DBPath)
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("relay.url", d.Relay.URL)
	v.SetDefault("relay.addr", d.Relay.Addr)
	v.SetDefault("relay.db_path", d.Relay.DBPath)
	v.SetDefault("session.user_id", d.Session.UserID)
	v.SetDefault("openai.api_key", d.OpenAI.APIKey)
	v.SetDefault("openai.base_url", d.OpenAI.BaseURL)
	v.SetDefault("notion.base_url", d.Notion.BaseURL)
	v.SetDefault("export.handoff_settle", d.Export.HandoffSettle)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
