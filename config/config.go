package config

import (
	"fmt"
	"time"

	"github.com/kbukum/cliproc/logger"
	"github.com/kbukum/cliproc/observability"
	"github.com/kbukum/cliproc/process"
	"github.com/kbukum/cliproc/validation"
)

// Config is the complete cliproc configuration.
type Config struct {
	Name          string               `yaml:"name" mapstructure:"name"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Command       CommandConfig        `yaml:"command" mapstructure:"command"`
	Launcher      process.Config       `yaml:"launcher" mapstructure:"launcher"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// CommandConfig holds the settings applied to every command.
type CommandConfig struct {
	// Silence suppresses the execution report.
	Silence bool `yaml:"silence" mapstructure:"silence"`
	// NoCapture lets the child write straight to the parent's streams.
	NoCapture bool `yaml:"no_capture" mapstructure:"no_capture"`
	// Posix selects POSIX tokenizing. Unset means the platform default.
	Posix *bool `yaml:"posix,omitempty" mapstructure:"posix"`
	// Encoding decodes both streams. Empty means detect from the locale.
	Encoding string `yaml:"encoding,omitempty" mapstructure:"encoding" validate:"omitempty,encoding"`

	Dir         string        `yaml:"dir,omitempty" mapstructure:"dir"`
	Env         []string      `yaml:"env,omitempty" mapstructure:"env"`
	Timeout     time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()

	if c.Launcher.Name == "" {
		c.Launcher.Name = c.Name
	}
	if c.Launcher.GracePeriod == 0 {
		c.Launcher.GracePeriod = process.DefaultGracePeriod
	}

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all failures together.
func (c *Config) Validate() error {
	v := validation.New().
		Required("name", c.Name).
		Nested("logging", c.Logging.Validate()).
		Nested("command", validation.Validate(c.Command)).
		Nested("observability", c.Observability.Validate())
	if c.Launcher.Timeout < 0 {
		v.Custom(false, "launcher.timeout", "must not be negative")
	}
	if c.Launcher.GracePeriod < 0 {
		v.Custom(false, "launcher.grace_period", "must not be negative")
	}
	if err := v.Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
