package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServerAddr string
	ClientName string
	APIBaseURL string

	PingIntervalSec int
	DialTimeoutSec  int

	Username   string
	Password   string
	GuestToken string

	LogLevel  string
	LogFormat string
	LogFile   string

	SeekSize      int
	SeekTime      int
	SeekIncrement int
	SeekColor     string
	SeekHalfKomi  int
}

// Load builds the configuration from defaults, the environment, and an
// optional YAML file, in that order. path may be empty, in which case
// TAKBOT_CONFIG names the file; no file at all is fine.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{
		ServerAddr:      "playtak.com:10000",
		ClientName:      "Tak-PlayTak-bot",
		APIBaseURL:      "https://api.playtak.com/v1",
		PingIntervalSec: 30,
		DialTimeoutSec:  10,
		LogLevel:        "info",
		LogFormat:       "console",
		SeekTime:        1200,
		SeekIncrement:   20,
		SeekColor:       "random",
	}

	if v := strings.TrimSpace(os.Getenv("PLAYTAK_SERVER")); v != "" {
		cfg.ServerAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("TAKBOT_CLIENT_NAME")); v != "" {
		cfg.ClientName = v
	}
	if v := strings.TrimSpace(os.Getenv("TAKBOT_API_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TAKBOT_PING_INTERVAL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PingIntervalSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TAKBOT_DIAL_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DialTimeoutSec = n
		}
	}

	cfg.Username = strings.TrimSpace(os.Getenv("PLAYTAK_USER"))
	cfg.Password = strings.TrimSpace(os.Getenv("PLAYTAK_PASS"))
	cfg.GuestToken = strings.TrimSpace(os.Getenv("PLAYTAK_GUEST_TOKEN"))

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	cfg.LogFile = strings.TrimSpace(os.Getenv("LOG_FILE"))

	if path == "" {
		path = strings.TrimSpace(os.Getenv("TAKBOT_CONFIG"))
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fileConfig struct {
	Server       string `yaml:"server"`
	ClientName   string `yaml:"client_name"`
	APIBaseURL   string `yaml:"api_url"`
	PingInterval int    `yaml:"ping_interval"`
	DialTimeout  int    `yaml:"dial_timeout"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	GuestToken   string `yaml:"guest_token"`
	Log          struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
	Seek struct {
		Size      int    `yaml:"size"`
		Time      int    `yaml:"time"`
		Increment int    `yaml:"increment"`
		Color     string `yaml:"color"`
		HalfKomi  int    `yaml:"half_komi"`
	} `yaml:"seek"`
}

// applyFile overlays the values a YAML file sets; fields the file
// leaves out keep their current values.
func (cfg *AppConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.Server != "" {
		cfg.ServerAddr = file.Server
	}
	if file.ClientName != "" {
		cfg.ClientName = file.ClientName
	}
	if file.APIBaseURL != "" {
		cfg.APIBaseURL = file.APIBaseURL
	}
	if file.PingInterval > 0 {
		cfg.PingIntervalSec = file.PingInterval
	}
	if file.DialTimeout > 0 {
		cfg.DialTimeoutSec = file.DialTimeout
	}
	if file.Username != "" {
		cfg.Username = file.Username
	}
	if file.Password != "" {
		cfg.Password = file.Password
	}
	if file.GuestToken != "" {
		cfg.GuestToken = file.GuestToken
	}
	if file.Log.Level != "" {
		cfg.LogLevel = file.Log.Level
	}
	if file.Log.Format != "" {
		cfg.LogFormat = file.Log.Format
	}
	if file.Log.File != "" {
		cfg.LogFile = file.Log.File
	}
	if file.Seek.Size > 0 {
		cfg.SeekSize = file.Seek.Size
	}
	if file.Seek.Time > 0 {
		cfg.SeekTime = file.Seek.Time
	}
	if file.Seek.Increment > 0 {
		cfg.SeekIncrement = file.Seek.Increment
	}
	if file.Seek.Color != "" {
		cfg.SeekColor = file.Seek.Color
	}
	if file.Seek.HalfKomi > 0 {
		cfg.SeekHalfKomi = file.Seek.HalfKomi
	}
	return nil
}

func (cfg *AppConfig) validate() error {
	if cfg.ServerAddr == "" {
		return errors.New("PLAYTAK_SERVER is required")
	}
	if cfg.Username != "" && cfg.Password == "" {
		return errors.New("PLAYTAK_PASS is required when PLAYTAK_USER is set")
	}
	if cfg.Username == "" && cfg.Password != "" {
		return errors.New("PLAYTAK_USER is required when PLAYTAK_PASS is set")
	}
	return nil
}
