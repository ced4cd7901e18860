package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	dc "github.com/ncobase/screener/data/config"
	lc "github.com/ncobase/screener/logging/logger/config"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "SCREENER"

var (
	config *Config
	path   string
	mu     sync.RWMutex
	v      *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName   string
	RunMode   string
	Server    *Server
	Logger    *lc.Config
	Data      *dc.Config
	Messaging *dc.Messaging
	Market    *Market
	Screening *Screening
	Observes  *Observes
	Viper     *viper.Viper
}

// IsProd reports whether the application runs in production mode
func (c *Config) IsProd() bool {
	return c.RunMode == "production"
}

// Init loads the configuration from configPath and installs it as the
// process configuration returned by GetConfig.
func Init(configPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	path = configPath
	v = cfg.Viper
	config = cfg
	return cfg, nil
}

// GetConfig returns the configuration installed by Init.
func GetConfig() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if config == nil {
		return nil, errors.New("config is not initialized")
	}
	return config, nil
}

// LoadConfig loads the configuration from the file. An empty path searches
// for config.yaml in the working directory, ./configs, $HOME/.screener and
// /etc/screener; a missing file is not an error in that case.
func LoadConfig(configPath string) (*Config, error) {
	vp := viper.New()
	setDefaults(vp)

	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if configPath != "" {
		vp.SetConfigFile(configPath)
		if err := vp.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		vp.SetConfigName("config")
		vp.SetConfigType("yaml")
		vp.AddConfigPath(".")
		vp.AddConfigPath("./configs")
		vp.AddConfigPath("$HOME/.screener")
		vp.AddConfigPath("/etc/screener")
		if err := vp.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return fromViper(vp), nil
}

func fromViper(vp *viper.Viper) *Config {
	return &Config{
		AppName:   vp.GetString("app_name"),
		RunMode:   vp.GetString("run_mode"),
		Server:    getServerConfig(vp),
		Logger:    lc.GetConfig(vp),
		Data:      dc.GetConfig(vp),
		Messaging: dc.GetMessagingConfig(vp),
		Market:    getMarketConfig(vp),
		Screening: getScreeningConfig(vp),
		Observes:  getObservesConfig(vp),
		Viper:     vp,
	}
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.Lock()
	defer mu.Unlock()

	if v == nil {
		return errors.New("config is not initialized")
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	config = fromViper(v)
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
// Reload failures are passed to onError when given.
func Watch(callback func(*Config), onError ...func(error)) {
	mu.RLock()
	vp := v
	mu.RUnlock()
	if vp == nil {
		return
	}

	vp.OnConfigChange(func(fsnotify.Event) {
		if err := Reload(); err != nil {
			if len(onError) > 0 {
				onError[0](err)
			}
			return
		}
		cfg, _ := GetConfig()
		callback(cfg)
	})
	vp.WatchConfig()
}
