package config

import (
	"github.com/spf13/viper"

	"github.com/kbukum/cliproc/process"
)

const (
	// DefaultName names the service in logs and telemetry.
	DefaultName = "cliproc"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CLIPROC"
)

// SetDefaults registers default values. Every key that may be overridden
// from the environment must be registered here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("name", DefaultName)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.no_color", false)
	v.SetDefault("logging.timestamp", true)
	v.SetDefault("logging.caller", false)
	v.SetDefault("logging.service_name", "")

	v.SetDefault("command.silence", true)
	v.SetDefault("command.no_capture", false)
	v.SetDefault("command.encoding", "")
	v.SetDefault("command.dir", "")
	v.SetDefault("command.env", []string{})
	v.SetDefault("command.timeout", "0s")
	v.SetDefault("command.grace_period", "0s")

	v.SetDefault("launcher.name", DefaultName)
	v.SetDefault("launcher.timeout", "0s")
	v.SetDefault("launcher.grace_period", process.DefaultGracePeriod.String())

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", "")
	v.SetDefault("observability.service_version", "")
	v.SetDefault("observability.endpoint", "localhost:4318")
	v.SetDefault("observability.insecure", true)
	v.SetDefault("observability.sample_rate", 1.0)
	v.SetDefault("observability.interval", "15s")
}
