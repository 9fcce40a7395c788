// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Fixtures FixturesConfig `mapstructure:"fixtures" yaml:"fixtures"`
	Wizard   WizardConfig   `mapstructure:"wizard" yaml:"wizard"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig controls the managed Chrome instance and page-level timing.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors   bool          `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// FixturesConfig points at the directory named fixtures resolve from.
type FixturesConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// WizardConfig describes the dataset-creation wizard flow under check: where
// it lives, which elements the flow touches, and what gets entered. Selector
// strategy lives here, never in the simulator.
type WizardConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	NameSelector        string `mapstructure:"name_selector" yaml:"name_selector"`
	DescriptionSelector string `mapstructure:"description_selector" yaml:"description_selector"`
	URLSelector         string `mapstructure:"url_selector" yaml:"url_selector"`
	NextSelector        string `mapstructure:"next_selector" yaml:"next_selector"`
	DropZoneSelector    string `mapstructure:"drop_zone_selector" yaml:"drop_zone_selector"`
	StatusSelector      string `mapstructure:"status_selector" yaml:"status_selector"`

	DatasetName        string `mapstructure:"dataset_name" yaml:"dataset_name"`
	DatasetDescription string `mapstructure:"dataset_description" yaml:"dataset_description"`
	DatasetURL         string `mapstructure:"dataset_url" yaml:"dataset_url"`
	Fixture            string `mapstructure:"fixture" yaml:"fixture"`

	AssertTimeout time.Duration `mapstructure:"assert_timeout" yaml:"assert_timeout"`
	PollInterval  time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// SetDefaults registers every default value on the given viper instance.
// Flags and environment variables override these with viper's usual
// precedence.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "dropsim")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigation_timeout", 90*time.Second)
	v.SetDefault("browser.post_load_wait", 1500*time.Millisecond)

	v.SetDefault("fixtures.dir", "fixtures")

	v.SetDefault("wizard.name_selector", `input[name="dataset-name"]`)
	v.SetDefault("wizard.description_selector", `textarea[name="dataset-description"]`)
	v.SetDefault("wizard.url_selector", `input[name="dataset-url"]`)
	v.SetDefault("wizard.next_selector", `button[type="submit"]`)
	v.SetDefault("wizard.drop_zone_selector", `[data-testid="file-drop-zone"]`)
	v.SetDefault("wizard.status_selector", `[data-testid="upload-status"]`)
	v.SetDefault("wizard.dataset_name", "Base dataset")
	v.SetDefault("wizard.dataset_url", "https://example.com/datasets/base")
	v.SetDefault("wizard.fixture", "base.csv")
	v.SetDefault("wizard.assert_timeout", 10*time.Second)
	v.SetDefault("wizard.poll_interval", 250*time.Millisecond)
}

// Load reads configuration from the optional file, the environment
// (DROPSIM_ prefix) and defaults, and unmarshals it.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DROPSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
