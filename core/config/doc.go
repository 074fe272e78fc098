// Package config provides configuration management for medialink.
//
// It utilizes Viper for loading configuration from a .env file, environment
// variables and a config file (config.yaml), and validates the result with
// go-playground/validator.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key and lock file
//   - Log: logging level and format
//   - Database: optional link journal (sqlite or mysql)
//   - Storage: optional S3/MinIO manifest publishing
//   - Watch: filesystem watcher settings
//   - Organize: the ordered list of link rule sets
//
// # Config File Lookup
//
// The first existing file wins: config.{yaml,yml,json,toml} in the given
// directory, the path in MEDIALINK_CONFIG, then medialink/config.yaml on the
// XDG config search path. Scalar settings can be overridden with environment
// variables such as SERVER_PORT or LOG_LEVEL.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(cfg.Organize))
package config
