// Package config loads and validates the keepalive daemon configuration.
//
// Configuration is read from a config.yaml file (searched in ./config and
// the working directory), with environment variable overrides via viper's
// AutomaticEnv support (e.g. SCHEDULE_MIN_INTERVAL, LOGGING_LEVEL). The log
// file location additionally honours KEEPWARM_LOGFILE. Every value except
// the target list has a sensible default, so the only thing a deployment
// must supply is the set of URLs to keep warm.
package config
