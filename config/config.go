package config

import (
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

type BreakerConfig struct {
	FailureThreshold  int    `mapstructure:"failure_threshold"`
	CallTimeout       string `mapstructure:"call_timeout"`
	RecoveryTime      string `mapstructure:"recovery_time"`
	HalfOpenSuccesses int    `mapstructure:"half_open_successes"`
}

type DemoConfig struct {
	Calls    int    `mapstructure:"calls"`
	Interval string `mapstructure:"interval"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Breaker BreakerConfig `mapstructure:"breaker"`
	Demo    DemoConfig    `mapstructure:"demo"`
	Logging LoggingConfig `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("app.environment", EnvDev)
	viper.SetDefault("breaker.failure_threshold", 3)
	viper.SetDefault("breaker.call_timeout", "1s")
	viper.SetDefault("breaker.recovery_time", "5s")
	viper.SetDefault("breaker.half_open_successes", 2)
	viper.SetDefault("demo.calls", 10)
	viper.SetDefault("demo.interval", "1s")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Warn("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.App,
			validation.Required,
			validation.By(func(value interface{}) error {
				ac, ok := value.(AppConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an AppConfig")
				}
				return validation.ValidateStruct(&ac,
					validation.Field(&ac.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
				)
			}),
		),
		validation.Field(&c.Breaker,
			validation.Required,
			validation.By(validateBreakerConfig),
		),
		validation.Field(&c.Demo,
			validation.Required,
			validation.By(func(value interface{}) error {
				dc, ok := value.(DemoConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a DemoConfig")
				}
				return validation.ValidateStruct(&dc,
					validation.Field(&dc.Calls,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&dc.Interval,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}

func validateBreakerConfig(value interface{}) error {
	bc, ok := value.(BreakerConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a BreakerConfig")
	}

	// Zero thresholds are legal: they make the breaker maximally strict
	// or maximally lenient. Only negatives are rejected.
	if bc.FailureThreshold < 0 {
		return validation.NewError("validation_negative_threshold", "failure_threshold cannot be negative")
	}

	if bc.HalfOpenSuccesses < 0 {
		return validation.NewError("validation_negative_threshold", "half_open_successes cannot be negative")
	}

	return validation.ValidateStruct(&bc,
		validation.Field(&bc.CallTimeout,
			validation.Required,
			validation.By(validateDuration),
		),
		validation.Field(&bc.RecoveryTime,
			validation.Required,
			validation.By(validateDuration),
		),
	)
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 200ms, 2s, 5m)")
	}

	return nil
}
