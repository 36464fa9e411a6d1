package config

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
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

// defaultUserAgents is the built-in User-Agent pool. Each ping picks one of
// these uniformly at random.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko)",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko)",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko)",
	"curl/7.85.0",
	"Wget/1.21.3 (linux-gnu)",
}

// defaultQueryKeys is the built-in pool of query-parameter names used when a
// ping URL gets a randomized cache-busting parameter appended.
var defaultQueryKeys = []string{"t", "v", "rand", "token", "src"}

type TargetConfig struct {
	URL string `mapstructure:"url"`
}

type ScheduleConfig struct {
	MinInterval string  `mapstructure:"min_interval"`
	MaxInterval string  `mapstructure:"max_interval"`
	Jitter      float64 `mapstructure:"jitter"`
}

type DeliveryConfig struct {
	Timeout     string `mapstructure:"timeout"`
	MaxRetries  int    `mapstructure:"max_retries"`
	BaseBackoff string `mapstructure:"base_backoff"`
}

type RequestConfig struct {
	UserAgents []string `mapstructure:"user_agents"`
	QueryKeys  []string `mapstructure:"query_keys"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	Environment string         `mapstructure:"environment"`
	Targets     []TargetConfig `mapstructure:"targets"`
	Schedule    ScheduleConfig `mapstructure:"schedule"`
	Delivery    DeliveryConfig `mapstructure:"delivery"`
	Request     RequestConfig  `mapstructure:"request"`
	Logging     LoggingConfig  `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("environment", EnvDev)
	viper.SetDefault("schedule.min_interval", "10m")
	viper.SetDefault("schedule.max_interval", "25m")
	viper.SetDefault("schedule.jitter", 0.15)
	viper.SetDefault("delivery.timeout", "30s")
	viper.SetDefault("delivery.max_retries", 3)
	viper.SetDefault("delivery.base_backoff", "5s")
	viper.SetDefault("request.user_agents", defaultUserAgents)
	viper.SetDefault("request.query_keys", defaultQueryKeys)
	viper.SetDefault("logging.level", LogLevelInfo)
	viper.SetDefault("logging.file", "/var/log/keepwarm.log")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Servers without root commonly relocate the log file through this
	// variable instead of shipping a config file.
	_ = viper.BindEnv("logging.file", "KEEPWARM_LOGFILE", "LOGGING_FILE")

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
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Targets,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateTargetConfig)),
		),
		validation.Field(&c.Schedule,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ScheduleConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ScheduleConfig")
				}
				if err := validation.ValidateStruct(&sc,
					validation.Field(&sc.MinInterval,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&sc.MaxInterval,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&sc.Jitter,
						validation.Min(0.0),
						validation.Max(1.0).Exclusive(),
					),
				); err != nil {
					return err
				}
				minInterval, _ := time.ParseDuration(sc.MinInterval)
				maxInterval, _ := time.ParseDuration(sc.MaxInterval)
				if maxInterval < minInterval {
					return validation.NewError("validation_invalid_interval", "max_interval must not be below min_interval")
				}
				return nil
			}),
		),
		validation.Field(&c.Delivery,
			validation.Required,
			validation.By(func(value interface{}) error {
				dc, ok := value.(DeliveryConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a DeliveryConfig")
				}
				return validation.ValidateStruct(&dc,
					validation.Field(&dc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&dc.MaxRetries,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&dc.BaseBackoff,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Request,
			validation.Required,
			validation.By(func(value interface{}) error {
				rc, ok := value.(RequestConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a RequestConfig")
				}
				return validation.ValidateStruct(&rc,
					validation.Field(&rc.UserAgents,
						validation.Required,
						validation.Length(1, 0),
					),
					validation.Field(&rc.QueryKeys,
						validation.Required,
						validation.Length(1, 0),
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

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 30s, 10m)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be a positive duration")
	}

	return nil
}

func validateTargetConfig(value interface{}) error {
	target, ok := value.(TargetConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a TargetConfig")
	}

	if target.URL == "" {
		return validation.NewError("validation_empty_url", "target URL cannot be empty")
	}

	parsedURL, err := url.Parse(target.URL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	if err := is.Host.Validate(parsedURL.Hostname()); err != nil {
		return validation.NewError("validation_invalid_host", "invalid host")
	}

	return nil
}
