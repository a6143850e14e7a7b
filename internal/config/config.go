package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/msdrg/batchgroup/internal/codec"
)

// Config carries everything outside the codec itself: where the grouper
// software lives, how batch files are written and cleaned up, and the HTTP
// surface. The codec never reads process-wide state; whatever needs a
// setting receives it from here explicitly.
type Config struct {
	Env              string `mapstructure:"ENV"`
	Port             string `mapstructure:"PORT"`
	GrouperDir       string `mapstructure:"GROUPER_DIR"`
	GrouperCommand   string `mapstructure:"GROUPER_COMMAND"`
	WorkDir          string `mapstructure:"WORK_DIR"`
	OutputMode       string `mapstructure:"OUTPUT_MODE"`
	BatchSeparator   string `mapstructure:"BATCH_SEPARATOR"`
	DeleteInputFile  bool   `mapstructure:"DELETE_INPUT_FILE"`
	DeleteOutputFile bool   `mapstructure:"DELETE_OUTPUT_FILE"`
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("GROUPER_COMMAND", "msgmce.bat")
	v.SetDefault("WORK_DIR", os.TempDir())
	v.SetDefault("OUTPUT_MODE", "single-line")
	v.SetDefault("BATCH_SEPARATOR", "none")
	v.SetDefault("DELETE_INPUT_FILE", true)
	v.SetDefault("DELETE_OUTPUT_FILE", true)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("PORT")
	v.BindEnv("GROUPER_DIR")
	v.BindEnv("GROUPER_COMMAND")
	v.BindEnv("WORK_DIR")
	v.BindEnv("OUTPUT_MODE")
	v.BindEnv("BATCH_SEPARATOR")
	v.BindEnv("DELETE_INPUT_FILE")
	v.BindEnv("DELETE_OUTPUT_FILE")

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Separator returns the configured batch join convention.
func (c *Config) Separator() (codec.Separator, error) {
	return codec.ParseSeparator(c.BatchSeparator)
}

// Validate checks that the configuration is internally consistent. The
// grouper directory is only required by the commands that actually invoke
// the grouper; those callers should also check RequireGrouper.
func (c *Config) Validate() error {
	if _, err := codec.ParseSeparator(c.BatchSeparator); err != nil {
		return fmt.Errorf("BATCH_SEPARATOR: %w", err)
	}
	switch c.OutputMode {
	case "single-line", "formatted":
	default:
		return fmt.Errorf("OUTPUT_MODE must be \"single-line\" or \"formatted\", got %q", c.OutputMode)
	}
	if c.GrouperCommand == "" {
		return fmt.Errorf("GROUPER_COMMAND must not be empty")
	}
	return nil
}

// RequireGrouper checks the settings needed to invoke the external grouper.
func (c *Config) RequireGrouper() error {
	if c.GrouperDir == "" {
		return fmt.Errorf("GROUPER_DIR is required to run the grouper")
	}
	if info, err := os.Stat(c.GrouperDir); err != nil || !info.IsDir() {
		return fmt.Errorf("GROUPER_DIR %q is not a directory", c.GrouperDir)
	}
	return nil
}

// GrouperPath returns the full path of the grouper executable.
func (c *Config) GrouperPath() string {
	return filepath.Join(c.GrouperDir, c.GrouperCommand)
}

// IsDev reports whether the tool runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
