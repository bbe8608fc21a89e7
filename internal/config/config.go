package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Timezone string         `yaml:"timezone"`
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type SessionConfig struct {
	Secret string `yaml:"secret"`
}

// Load reads the YAML config file (if present) and applies environment
// overrides on top of the defaults.
func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 8080, GinMode: "debug"},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{Driver: "mysql", Host: "localhost", Port: "3306", User: "worklog", Password: "worklog", Name: "worklog"},
		Redis:    RedisConfig{Host: "localhost", Port: "6379"},
		Session:  SessionConfig{Secret: "default-secret-key-change-me"},
		Timezone: "Asia/Tehran",
	}

	paths := []string{"etc/config.yaml", "/etc/worklog/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Server.GinMode, "GIN_MODE")
	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.Port, "DB_PORT")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASSWORD")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Redis.Host, "REDIS_HOST")
	envOverride(&c.Redis.Port, "REDIS_PORT")
	envOverride(&c.Session.Secret, "SESSION_SECRET")
	envOverride(&c.Timezone, "APP_TIMEZONE")

	return c
}

// ApplyTimezone sets the process-local timezone used by every lock and
// "today" computation. Falls back to the system default on bad input.
func (c *Config) ApplyTimezone() error {
	if c.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
