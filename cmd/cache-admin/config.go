package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	cacheadmin "github.com/huykn/cache-admin"
)

// FileConfig is the YAML configuration for the daemon.
type FileConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// HostName overrides the OS host name in notifications.
	HostName string `yaml:"host_name"`

	// SigningKey is the HMAC key validating bearer tokens.
	SigningKey string `yaml:"signing_key"`

	LocalCache struct {
		// Policy is "lru" or "lfu".
		Policy  string `yaml:"policy"`
		MaxSize int    `yaml:"max_size"`
	} `yaml:"local_cache"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	PubSub struct {
		Namespace        string `yaml:"namespace"`
		CacheChannel     string `yaml:"cache_channel"`
		ConfigChannel    string `yaml:"config_channel"`
		CacheManagement  bool   `yaml:"cache_management"`
		ConfigManagement bool   `yaml:"config_management"`
	} `yaml:"pubsub"`
}

// defaultFileConfig returns the daemon defaults applied before the file.
func defaultFileConfig() *FileConfig {
	fc := &FileConfig{
		Listen:   ":8080",
		LogLevel: "info",
	}
	fc.LocalCache.Policy = cacheadmin.PolicyLRU
	fc.Redis.Addr = "localhost:6379"
	return fc
}

// loadConfig reads the YAML file over the defaults. An empty path returns
// the defaults unchanged.
func loadConfig(path string) (*FileConfig, error) {
	fc := defaultFileConfig()
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if fc.SigningKey == "" {
		return nil, fmt.Errorf("config: signing_key is required")
	}
	return fc, nil
}

// systemConfig converts the file configuration into the library Config.
func (fc *FileConfig) systemConfig() cacheadmin.Config {
	cfg := cacheadmin.DefaultConfig()
	cfg.HostName = fc.HostName
	cfg.LocalCachePolicy = fc.LocalCache.Policy
	if fc.LocalCache.MaxSize > 0 {
		cfg.LocalCacheConfig.MaxSize = fc.LocalCache.MaxSize
	}
	cfg.RedisAddr = fc.Redis.Addr
	cfg.RedisPassword = fc.Redis.Password
	cfg.RedisDB = fc.Redis.DB
	if fc.PubSub.Namespace != "" {
		cfg.Namespace = fc.PubSub.Namespace
	}
	if fc.PubSub.CacheChannel != "" {
		cfg.CacheChannel = fc.PubSub.CacheChannel
	}
	if fc.PubSub.ConfigChannel != "" {
		cfg.ConfigChannel = fc.PubSub.ConfigChannel
	}
	cfg.CacheManagementEnabled = fc.PubSub.CacheManagement
	cfg.ConfigManagementEnabled = fc.PubSub.ConfigManagement
	return cfg
}
