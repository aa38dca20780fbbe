// internal/common/config/config.go
package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Router     RouterConfig     `mapstructure:"router"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// ClassifierConfig points at the file-based lexicons and catalog and carries
// the confidence gate. The files are loaded once into an immutable snapshot.
type ClassifierConfig struct {
	SectorLexicon string  `mapstructure:"sector_lexicon"`
	MetricLexicon string  `mapstructure:"metric_lexicon"`
	Catalog       string  `mapstructure:"catalog"`
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// RouterConfig carries the intent allowlist supplied by the embedding system.
type RouterConfig struct {
	Registry []string `mapstructure:"registry"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Validate applies structural rules to the loaded configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Server),
		validation.Field(&c.Classifier),
		validation.Field(&c.Logging),
	); err != nil {
		return err
	}
	return nil
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

func (c ClassifierConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SectorLexicon, validation.Required),
		validation.Field(&c.MetricLexicon, validation.Required),
		validation.Field(&c.Catalog, validation.Required),
		validation.Field(&c.MinConfidence, validation.Min(0.0), validation.Max(1.0)),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("json", "console")),
		validation.Field(&l.Output, is.PrintableASCII),
	)
}
