// Package config loads tool configuration from the environment and an
// optional TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

type PagerConfig struct {
	Command string `mapstructure:"command"`
}

type RenderConfig struct {
	Style string `mapstructure:"style"` // glamour style name, "" = auto
	Width int    `mapstructure:"width"` // fixed width, 0 = detect
}

type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Pager  PagerConfig  `mapstructure:"pager"`
	Render RenderConfig `mapstructure:"render"`
}

// defaultStoreDir returns the base store directory.
// Checks XDG_DATA_HOME, then ~/.local/share, then /tmp/oxidoc as fallback.
func defaultStoreDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "oxidoc")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "oxidoc")
	}
	return filepath.Join(os.TempDir(), "oxidoc")
}

func initializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "oxidoc"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "oxidoc"))
	}

	viper.SetDefault("store.dir", defaultStoreDir())
	viper.SetDefault("pager.command", "")
	viper.SetDefault("render.style", "")
	viper.SetDefault("render.width", 0)

	viper.SetEnvPrefix("OXIDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// expandHomeHookFunc expands a leading "~" in path-valued strings so
// config files can say dir = "~/docs".
func expandHomeHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.String {
			return data, nil
		}
		s := data.(string)
		if !strings.HasPrefix(s, "~"+string(filepath.Separator)) {
			return data, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return data, nil
		}
		return filepath.Join(home, s[2:]), nil
	}
}

func Load() (*Config, error) {
	if err := initializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: expandHomeHookFunc(),
		Result:     &config,
		TagName:    "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}
	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.Store.Dir == "" {
		config.Store.Dir = defaultStoreDir()
	}
	return &config, nil
}
