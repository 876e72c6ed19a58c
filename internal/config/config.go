// Package config loads plantmcp settings from defaults, an optional YAML
// file and PLANTMCP_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/nwater/plantmcp/internal/journal"
)

// EnvPrefix is prepended to every environment override, e.g.
// PLANTMCP_LOG_LEVEL.
const EnvPrefix = "PLANTMCP"

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = "plantmcp.yaml"

// Config is the resolved process configuration.
type Config struct {
	// DataFile is the plant document. Empty selects the embedded plant.
	DataFile string `mapstructure:"data_file"`
	// DataDir holds the tool-call journal database.
	DataDir string `mapstructure:"data_dir" validate:"required"`
	// Journal enables the SQLite tool-call journal.
	Journal  bool   `mapstructure:"journal"`
	LogJSON  bool   `mapstructure:"log_json"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	// MetricsAddr is the Prometheus listen address. Empty disables it.
	MetricsAddr string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

// SetDefaults registers the default value of every key. Keys without a
// default are invisible to AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("data_file", "")
	v.SetDefault("data_dir", filepath.Join(home, ".plantmcp"))
	v.SetDefault("journal", true)
	v.SetDefault("log_json", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")
}

// Load resolves the configuration. A non-empty path must exist; an empty
// path reads plantmcp.yaml from the working directory if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "reading config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validating config")
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return errors.Newf("invalid config: %s", strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)",
			fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port (got %q)", fe.Field(), fe.Value())
	default:
		return fe.Field() + " failed " + fe.Tag()
	}
}

// JournalConfig returns the journal settings derived from c.
func (c *Config) JournalConfig() journal.Config {
	jc := journal.DefaultConfig()
	jc.DataDir = c.DataDir
	return jc
}
