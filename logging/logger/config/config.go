package config

import (
	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level      int    `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"`
	OutputFile string `json:"output_file" yaml:"output_file"`
	// SentryLevel is the least severe level forwarded to Sentry, 2 (error) by default
	SentryLevel int `json:"sentry_level" yaml:"sentry_level"`
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	if !v.IsSet("logger") {
		return &Config{Level: 4, Format: "text", Output: "stdout", SentryLevel: 2}
	}

	sentryLevel := 2
	if v.IsSet("logger.sentry_level") {
		sentryLevel = v.GetInt("logger.sentry_level")
	}

	return &Config{
		Level:       v.GetInt("logger.level"),
		Format:      v.GetString("logger.format"),
		Output:      v.GetString("logger.output"),
		OutputFile:  v.GetString("logger.output_file"),
		SentryLevel: sentryLevel,
	}
}
