package config

// LoggingConfig holds structured-logging configuration.
type LoggingConfig struct {
	// Level: debug, info, warn, error.
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Format: json, text.
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output destination: stdout, stderr, file.
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// FilePath is required if Output is "file".
	FilePath string `mapstructure:"file_path"`

	// IncludeCaller adds file:line to every log line.
	IncludeCaller bool `mapstructure:"include_caller"`
}
