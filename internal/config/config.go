package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"salesdash/internal/errors"
)

// EnvPrefix namespaces every setting in the environment
const EnvPrefix = "SALESDASH"

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig `mapstructure:"server"`
	Data         DataConfig   `mapstructure:"data"`
	RegistryFile string       `mapstructure:"registry_file" validate:"omitempty,file"`
	LogLevel     string       `mapstructure:"log_level" validate:"omitempty,oneof=ERROR WARN INFO DEBUG error warn info debug"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `mapstructure:"port" validate:"required,numeric"`
	GinMode string `mapstructure:"gin_mode" validate:"oneof=debug release test"`
}

// DataConfig locates the precomputed dashboard resources. Dir is served
// locally under /dashboard_data; BaseURL points at an existing host.
type DataConfig struct {
	Dir     string `mapstructure:"dir" validate:"required_without=BaseURL,omitempty,dir"`
	BaseURL string `mapstructure:"base_url" validate:"required_without=Dir,omitempty,url"`
}

// UsesLocalDir reports whether resources are read from Dir
func (d DataConfig) UsesLocalDir() bool {
	return d.Dir != ""
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it. Environment wins over the file.
// Unprefixed PORT, GIN_MODE, DATASET_DIR, DATASET_BASE_URL, REGISTRY_FILE and
// LOG_LEVEL are honoured as well.
func Load(cfgFile string) (*Config, error) {
	return LoadWithOverrides(cfgFile, nil)
}

// LoadWithOverrides is Load with explicit values, such as command line
// flags, taking precedence over every other source. Keys use the dotted
// form ("data.dir").
func LoadWithOverrides(cfgFile string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("data.dir", "")
	v.SetDefault("data.base_url", "")
	v.SetDefault("registry_file", "")
	v.SetDefault("log_level", "INFO")

	bindings := map[string]string{
		"server.port":     "PORT",
		"server.gin_mode": "GIN_MODE",
		"data.dir":        "DATASET_DIR",
		"data.base_url":   "DATASET_BASE_URL",
		"registry_file":   "REGISTRY_FILE",
		"log_level":       "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, EnvPrefix+"_"+env, env); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read config file")
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to unmarshal config")
	}

	if err := Validate(&c); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

var validate = validator.New()

// Validate checks struct constraints
func Validate(c *Config) error {
	if err := validate.Struct(c); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}
