package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/sumup/rack-rpc/pkg/sets"
)

const DefaultHome = "~/.rackrpcd"
const DefaultConfigFile = "rackrpcd.toml"

const (
	FlagHome    = "home"
	FlagRPCPort = "rpc_port"
	FlagRPCPath = "rpc_path"
)

type Config struct {
	Home                string            `mapstructure:"home"`
	RPCPort             int               `mapstructure:"rpc_port"`
	RPCPath             string            `mapstructure:"rpc_path"`
	LogLevel            string            `mapstructure:"log_level"`
	DefaultErrorMessage string            `mapstructure:"default_error_message"`
	BatchConcurrency    int               `mapstructure:"batch_concurrency"`
	ExposedMethods      []string          `mapstructure:"exposed_methods"`
	EnablePrometheus    bool              `mapstructure:"enable_prometheus"`
	LogAuditorConfig    *LogAuditorConfig `mapstructure:"log_auditor"`
	RedisConfig         *RedisConfig      `mapstructure:"redis"`
	CacheConfig         *CacheConfig      `mapstructure:"cache"`
}

type LogAuditorConfig struct {
	LogFile string `mapstructure:"log_file"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig names the methods whose successful results may be served from
// the result cache, and for how long.
type CacheConfig struct {
	Methods []string `mapstructure:"methods"`
	TTLSecs int      `mapstructure:"ttl_secs"`
}

func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSecs) * time.Second
}

func init() {
	viper.SetDefault(FlagHome, mustExpand(DefaultHome))
	viper.SetDefault(FlagRPCPort, 8080)
	viper.SetDefault(FlagRPCPath, "rpc")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("batch_concurrency", 1)
}

func ReadConfig(allowDefaults bool) (Config, error) {
	var cfg Config
	cfgFile := path.Join(viper.GetString(FlagHome), DefaultConfigFile)
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if allowDefaults {
			viper.Unmarshal(&cfg)
			return cfg, nil
		} else {
			return cfg, errors.New("config file not found")
		}
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return cfg, err
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	viper.Set(FlagHome, mustExpand(viper.GetString(FlagHome)))

	return cfg, nil
}

func ValidateConfig(cfg *Config) error {
	if cfg.RPCPort <= 0 || cfg.RPCPort > 65535 {
		return validationError(fmt.Sprintf("invalid rpc port: %d", cfg.RPCPort))
	}

	if cfg.RPCPath == "" {
		return validationError("rpc path must be defined")
	}

	if cfg.BatchConcurrency < 0 {
		return validationError("batch concurrency cannot be negative")
	}

	if cfg.CacheConfig != nil {
		if cfg.RedisConfig == nil {
			return validationError("result cache requires a redis config")
		}
		if len(cfg.CacheConfig.Methods) == 0 {
			return validationError("result cache must name at least one method")
		}
		if cfg.CacheConfig.TTLSecs <= 0 {
			return validationError("result cache ttl must be positive")
		}
		if len(cfg.ExposedMethods) > 0 {
			exposed := sets.NewStringSet(cfg.ExposedMethods)
			if !exposed.ContainsAll(cfg.CacheConfig.Methods) {
				return validationError("cannot cache a method that is not exposed")
			}
		}
	}

	if cfg.LogAuditorConfig != nil && cfg.LogAuditorConfig.LogFile == "" {
		return validationError("log auditor requires a log file")
	}

	return nil
}

func validationError(msg string) error {
	return errors.Errorf("invalid config: %s", msg)
}

func mustExpand(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		fmt.Println("Failed to find home directory on this system. Exiting.")
		os.Exit(1)
	}

	return expanded
}
