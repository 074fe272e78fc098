package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level written (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info" validate:"oneof=debug info warn error"`
	// Format is the encoder: json, console, or auto (console on a terminal).
	Format string `mapstructure:"format" default:"auto" validate:"oneof=json console auto"`
}
