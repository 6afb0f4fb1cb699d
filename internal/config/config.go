package config

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vvakame/gamereview/internal/dataset"
)

const EnvPrefix = "GAMEREVIEW"

// Config is the resolved configuration of the gamereview commands.
// Values come from flags, GAMEREVIEW_* environment variables, an optional
// config file and the defaults, in that order of precedence.
type Config struct {
	Port          int    `mapstructure:"port"`
	DatasetFile   string `mapstructure:"dataset-file"`
	DatasetURL    string `mapstructure:"dataset-url"`
	Playground    bool   `mapstructure:"playground"`
	Introspection bool   `mapstructure:"introspection"`
	Verbosity     int    `mapstructure:"verbosity"`
	ConfigFile    string `mapstructure:"config"`
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", 4000)
	v.SetDefault("dataset-file", "")
	v.SetDefault("dataset-url", "")
	v.SetDefault("playground", true)
	v.SetDefault("introspection", true)
	v.SetDefault("verbosity", 0)
	v.SetDefault("config", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// PORT is honoured for compatibility with common hosting platforms.
	_ = v.BindEnv("port", EnvPrefix+"_PORT", "PORT")

	return v
}

// BindFlags makes flags take precedence over every other source.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	return errors.Wrap(v.BindPFlags(flags), "binding flags")
}

// Load reads the config file if one is given and decodes the result.
func Load(v *viper.Viper) (*Config, error) {
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", configFile)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.DatasetFile != "" && cfg.DatasetURL != "" {
		return errors.New("dataset-file and dataset-url are mutually exclusive")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return errors.Errorf("invalid port: %d", cfg.Port)
	}

	return nil
}

// DatasetSource returns the source of the seed dataset.
func (cfg *Config) DatasetSource() dataset.Source {
	switch {
	case cfg.DatasetFile != "":
		return &dataset.FileSource{Path: cfg.DatasetFile}
	case cfg.DatasetURL != "":
		return &dataset.RemoteSource{URL: cfg.DatasetURL, Client: http.DefaultClient}
	default:
		return dataset.Default()
	}
}
