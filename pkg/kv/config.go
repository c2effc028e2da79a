package kv

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config describes where and how the logs are stored.
type Config interface {
	BasePath() string
	Backend() string
	Verbose() bool
}

// LoadConfig reads .fastlog.yaml and FASTLOG_* environment variables.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.fastlog")
	viper.SetDefault("backend", string(BackendDisk))
	viper.SetDefault("verbose", false)
	viper.SetConfigName(".fastlog") // .yaml is implicit
	viper.SetEnvPrefix("FASTLOG")
	viper.AutomaticEnv()

	if override := os.Getenv("FASTLOG_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{
		Path:        path,
		BackendName: viper.GetString("backend"),
		Debug:       viper.GetBool("verbose"),
	}, nil
}

type fileConfig struct {
	Path        string `json:"path"`
	BackendName string `json:"backend"`
	Debug       bool   `json:"verbose"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	return f.BackendName
}

func (f *fileConfig) Verbose() bool {
	return f.Debug
}

// StaticConfig is a Config with fixed values.
type StaticConfig struct {
	Path        string
	BackendName string
	Debug       bool
}

func (s StaticConfig) BasePath() string { return s.Path }
func (s StaticConfig) Backend() string { return s.BackendName }
func (s StaticConfig) Verbose() bool { return s.Debug }
