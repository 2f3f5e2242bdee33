// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrLogFile is returned when the log file cannot be prepared.
	ErrLogFile = errors.New("cannot open log file")

	// nullLogger is a logger that discards all log messages.
	nullLogger = &instance{log: hclog.NewNullLogger()}
)

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
	TRACE
)

// AllLevels lists every supported level, from the least to the most verbose.
var AllLevels = []Level{ERROR, WARN, INFO, DEBUG, TRACE}

func LevelFromString(level string) Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l Level) convertedLevel() hclog.Level {
	switch l {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case INFO:
		return hclog.Info
	case WARN:
		return hclog.Warn
	case ERROR:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// Logger describes the interface that must be implemented by all loggers
type Logger interface {
	// WithName returns a new Logger instance with the specified name.
	WithName(name string) Logger

	// SetLevel updates the logger level.
	SetLevel(level Level)

	// Trace emit a message and key/value pairs at the TRACE level.
	Trace(msg string, args ...interface{})

	// Debug emit a message and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Info emit a message and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Warn emit a message and key/value pairs at the WARN level.
	Warn(msg string, args ...interface{})

	// Error emit a message and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})
}

var _ Logger = &instance{}

// instance is a Logger implementation.
type instance struct {
	log hclog.Logger
}

// Options configures a logger created with New.
type Options struct {
	// Level is the minimum level written. The zero value is ERROR.
	Level Level
	// Name is the module name attached to every line.
	Name string
	// Console receives every line when not nil, usually os.Stderr.
	Console io.Writer
	// FilePath, when set, is opened in append mode and receives every line.
	FilePath string
	// JSONFormat selects JSON lines instead of the hclog text format.
	JSONFormat bool
}

// NewLogger creates a new logger instance writing JSON lines at INFO level.
func NewLogger(writer io.Writer) Logger {
	return &instance{
		log: hclog.New(&hclog.LoggerOptions{
			JSONFormat: true,
			Output:     writer,
			TimeFn:     time.Now,
			Level:      INFO.convertedLevel(),
		}),
	}
}

// New builds a logger writing to the console and/or to a log file as set in opts.
// When no output is configured the null logger is returned. The returned io.Closer
// releases the log file and must be called once the logger is no longer used.
func New(opts Options) (Logger, io.Closer, error) {
	outputs := make([]io.Writer, 0, 2)
	var closer io.Closer = nopCloser{}

	if opts.Console != nil {
		outputs = append(outputs, opts.Console)
	}

	if opts.FilePath != "" {
		file, err := openLogFile(opts.FilePath)
		if err != nil {
			return nil, nil, err
		}

		outputs = append(outputs, file)
		closer = file
	}

	if len(outputs) == 0 {
		return nullLogger, closer, nil
	}

	output := outputs[0]
	if len(outputs) > 1 {
		output = io.MultiWriter(outputs...)
	}

	return &instance{
		log: hclog.New(&hclog.LoggerOptions{
			Name:       opts.Name,
			JSONFormat: opts.JSONFormat,
			Output:     output,
			TimeFn:     time.Now,
			Level:      opts.Level.convertedLevel(),
		}),
	}, closer, nil
}

func openLogFile(path string) (*os.File, error) {
	cleaned := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleaned), 0o755); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrLogFile, cleaned, err)
	}

	file, err := os.OpenFile(cleaned, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrLogFile, cleaned, err)
	}

	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (i instance) WithName(name string) Logger {
	return &instance{
		log: i.log.ResetNamed(name),
	}
}

func (i instance) SetLevel(level Level) {
	i.log.SetLevel(level.convertedLevel())
}

func (i instance) Trace(msg string, args ...interface{}) {
	i.log.Trace(msg, args...)
}

func (i instance) Debug(msg string, args ...interface{}) {
	i.log.Debug(msg, args...)
}

func (i instance) Info(msg string, args ...interface{}) {
	i.log.Info(msg, args...)
}

func (i instance) Warn(msg string, args ...interface{}) {
	i.log.Warn(msg, args...)
}

func (i instance) Error(msg string, args ...interface{}) {
	i.log.Error(msg, args...)
}
