package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"medialink/core/database"
	"medialink/core/logger"
	"medialink/core/reconcile"
	"medialink/core/server"
	"medialink/core/storage"
	"medialink/feature/watch"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "MEDIALINK_CONFIG"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for manifest publishing.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the link journal.
	Database database.Config `mapstructure:"database"`
	// Watch holds configuration for the filesystem watcher.
	Watch watch.Config `mapstructure:"watch"`
	// Organize is the ordered list of link rule sets.
	Organize []reconcile.Entry `mapstructure:"organize" validate:"dive"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// LoadConfig loads configuration from the .env file, a config file and
// environment variables, then validates it.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// 2. Register defaults from struct tags
	bindValues(v, Config{}, "")

	// 3. Locate the config file
	file, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	// 4. Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.File = file

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the struct tag rules of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// findConfigFile looks for config.{yaml,yml,json,toml} in dir, then the file
// named by MEDIALINK_CONFIG, then medialink/config.yaml on the XDG search path.
// No file at all is not an error.
func findConfigFile(dir string) (string, error) {
	for _, ext := range []string{"yaml", "yml", "json", "toml"} {
		candidate := filepath.Join(dir, "config."+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if env := os.Getenv(EnvConfigPath); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%s: %w", EnvConfigPath, err)
		}
		return env, nil
	}

	if found, err := xdg.SearchConfigFile(filepath.Join("medialink", "config.yaml")); err == nil {
		return found, nil
	}
	return "", nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" || tag == "-" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			// If it's a nested struct, recurse
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Slice, reflect.Map:
			// Lists only come from the config file
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
