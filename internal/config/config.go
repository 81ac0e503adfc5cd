// Package config loads styleserver configuration from a YAML file and
// OC_-prefixed environment variables, and builds the zap logger from it.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables.
// When configPath is empty, a styleserver.yaml is searched for in the
// working directory, ./configs, and /etc/openchart. A missing config
// file is not an error; defaults apply.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.read_only", false)
	v.SetDefault("storage.path", "./data/openchart-styles.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("presets.max_recently_used", 10)
	v.SetDefault("presets.backup_retention", 5)
	v.SetDefault("presets.default_mode", "merge")
	v.SetDefault("share.signing_key", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("styleserver")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/openchart")
	}

	// Environment variable support: OC_SERVER_PORT=9090
	v.SetEnvPrefix("OC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}

// Addr returns the configured listen address as host:port.
func Addr(v *viper.Viper) string {
	return fmt.Sprintf("%s:%d", v.GetString("server.host"), v.GetInt("server.port"))
}
