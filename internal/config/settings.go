package config

import (
	"github.com/spf13/viper"
)

// Settings are optional user defaults loaded from a settings file.
// Command-line flags always take precedence; settings only fill in
// values the user did not pass.
type Settings struct {
	Mode        string
	UnknownName string `mapstructure:"unknown_name"`
	Log         string
	Workers     int
	Logging     struct {
		Level string
		File  string
	}
}

// LoadSettings reads organizador settings from config.yaml in
// $HOME/.organizador, the working directory, or /etc/organizador.
// A missing file is not an error; defaults are returned.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("$HOME/.organizador")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/organizador")

	v.SetDefault("mode", string(ModeMove))
	v.SetDefault("unknown_name", DefaultUnknownName)
	v.SetDefault("workers", 1)
	v.SetDefault("logging.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
