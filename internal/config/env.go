package config

import (
	"os"
	"strconv"
)

// Environment variables that override the config file.
const (
	EnvDBPath      = "TRIPCAST_DB"
	EnvDefaultTrip = "TRIPCAST_TRIP"
	EnvLogLevel    = "TRIPCAST_LOG_LEVEL"
	EnvLogPretty   = "TRIPCAST_LOG_PRETTY"
	EnvDaemonAddr  = "TRIPCAST_ADDR"
)

func applyEnv(cfg *Config) {
	cfg.General.DBPath = getEnv(EnvDBPath, cfg.General.DBPath)
	cfg.General.DefaultTrip = getEnv(EnvDefaultTrip, cfg.General.DefaultTrip)
	cfg.Log.Level = getEnv(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Pretty = getEnvAsBool(EnvLogPretty, cfg.Log.Pretty)
	cfg.Daemon.Addr = getEnv(EnvDaemonAddr, cfg.Daemon.Addr)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
