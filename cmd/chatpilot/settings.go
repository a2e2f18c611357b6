package main

import (
	"time"

	"github.com/spf13/viper"
)

// settings are the process-level knobs, bound to CHATPILOT_* environment
// variables. Per-platform behavior lives in the selector config instead.
type settings struct {
	CacheDir     string
	SessionDir   string
	ResponderURL string
	ResponderKey string
	LogLevel     string
	PollInterval time.Duration
	Headless     bool
}

func initSettings() {
	viper.SetEnvPrefix("chatpilot")
	viper.AutomaticEnv()

	viper.SetDefault("cache_dir", "platform_cache")
	viper.SetDefault("session_dir", "sessions")
	viper.SetDefault("responder_url", "")
	viper.SetDefault("responder_key", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("poll_interval", "10s")
	viper.SetDefault("headless", true)
}

func loadSettings() settings {
	return settings{
		CacheDir:     viper.GetString("cache_dir"),
		SessionDir:   viper.GetString("session_dir"),
		ResponderURL: viper.GetString("responder_url"),
		ResponderKey: viper.GetString("responder_key"),
		LogLevel:     viper.GetString("log_level"),
		PollInterval: viper.GetDuration("poll_interval"),
		Headless:     viper.GetBool("headless"),
	}
}
