// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including circuit breaker thresholds, demo loop settings, and logging levels.
package config
