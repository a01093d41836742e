// Package config loads cliproc settings.
//
// Values come from, in increasing priority: built-in defaults, a YAML
// config file, a .env file, CLIPROC_ environment variables and bound
// command-line flags. Nested keys map to environment variables by
// upper-casing and replacing dots with underscores:
//
//	command.grace_period  ->  CLIPROC_COMMAND_GRACE_PERIOD
//	logging.level         ->  CLIPROC_LOGGING_LEVEL
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile("cliproc.yml"))
package config
