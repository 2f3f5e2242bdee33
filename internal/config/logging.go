// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/greeter/internal/logger"
)

var (
	// ErrConfigNotValid reports a logging configuration that fails validation.
	ErrConfigNotValid = errors.New("logging configuration not valid")
	// ErrParsing reports failures that occur while decoding the configuration file.
	ErrParsing = errors.New("error parsing")
)

// LoggingConfig holds the logger settings. Values are read from the environment
// and can be overridden by a YAML file.
type LoggingConfig struct {
	Level   string `env:"LOG_LEVEL" envDefault:"INFO" json:"level" yaml:"level"`
	File    string `env:"LOG_FILE" json:"file" yaml:"file"`
	Console bool   `env:"LOG_CONSOLE" envDefault:"true" json:"console" yaml:"console"`
	JSON    bool   `env:"LOG_JSON" envDefault:"true" json:"json" yaml:"json"`
}

// LoadLoggingConfig reads the logging configuration from the environment, then applies the
// keys present in the YAML file at path, if path is not empty.
func LoadLoggingConfig(path string) (*LoggingConfig, error) {
	config, err := env.ParseAs[LoggingConfig]()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigNotValid, err)
	}

	if path != "" {
		if err := overrideFromFile(&config, path); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func overrideFromFile(config *LoggingConfig, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	// an empty file leaves the environment values untouched
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	return nil
}

// Validate checks that the configured level is a known logger level.
func (c LoggingConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.By(knownLevel)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigNotValid, err)
	}

	return nil
}

func knownLevel(value interface{}) error {
	level, _ := value.(string)
	names := make([]string, 0, len(logger.AllLevels))
	for _, known := range logger.AllLevels {
		if strings.EqualFold(level, known.String()) {
			return nil
		}
		names = append(names, known.String())
	}

	return validation.NewError("validation_unknown_level", "must be one of "+strings.Join(names, ", "))
}

// ToOptions converts the configuration to logger options. console is used as the
// console output only when console logging is enabled.
func (c LoggingConfig) ToOptions(name string, console io.Writer) logger.Options {
	opts := logger.Options{
		Level:      logger.LevelFromString(c.Level),
		Name:       name,
		FilePath:   c.File,
		JSONFormat: c.JSON,
	}

	if c.Console {
		opts.Console = console
	}

	return opts
}
