package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	MaxBodySize     int64         `mapstructure:"maxBodySize"`
}

// Address returns the host:port the server listens on.
func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type ReadOptions struct {
	// File is an optional config file. "~" is expanded to the home directory.
	File string

	// Overrides are applied after the config file and environment variables.
	Overrides map[string]interface{}
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8421,
			ReadTimeout:     time.Second * 30,
			WriteTimeout:    time.Second * 30,
			IdleTimeout:     time.Minute * 2,
			ShutdownTimeout: time.Second * 10,
			MaxBodySize:     10 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func ReadConfig(opts *ReadOptions) (*Config, error) {
	var config Config
	v := viper.New()

	if opts == nil {
		opts = &ReadOptions{}
	}

	// Bind to environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	s := structs.New(Default())
	s.TagName = "mapstructure"

	if err := v.MergeConfigMap(s.Map()); err != nil {
		return nil, merry.Wrap(err)
	}

	if opts.File != "" {
		path, err := homedir.Expand(opts.File)

		if err != nil {
			return nil, merry.Wrap(err)
		}

		v.SetConfigFile(path)

		if err := v.MergeInConfig(); err != nil {
			return nil, merry.Prependf(err, "failed to read config file %s", path)
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, merry.Wrap(err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return merry.Errorf("invalid server port %d", c.Server.Port)
	}

	if c.Server.MaxBodySize < 0 {
		return merry.Errorf("invalid max body size %d", c.Server.MaxBodySize)
	}

	timeouts := map[string]time.Duration{
		"read":     c.Server.ReadTimeout,
		"write":    c.Server.WriteTimeout,
		"idle":     c.Server.IdleTimeout,
		"shutdown": c.Server.ShutdownTimeout,
	}

	for name, d := range timeouts {
		if d < 0 {
			return merry.Errorf("invalid %s timeout %s", name, d)
		}
	}

	switch c.Log.Format {
	case "", LogFormatJSON, LogFormatConsole:
	default:
		return merry.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}
