// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package greeting

import (
	"context"
	"errors"
	"io"

	"github.com/mia-platform/greeter/internal/logger"
)

const (
	// Prefix is prepended to every formatted input.
	Prefix = "You sent:  "
	// Greeting is the line written by Greet, newline included.
	Greeting = "Hi\n"

	loggerName = "greeter:greeting"
)

var (
	// ErrMissingInput is returned by Format when no input is provided.
	ErrMissingInput = errors.New("missing input")
)

// Format returns the input prefixed by Prefix. A nil input returns ErrMissingInput.
func Format(input *string) (string, error) {
	if input == nil {
		return "", ErrMissingInput
	}

	return Prefix + *input, nil
}

// FormatContext is Format with a diagnostic line written to the context logger.
func FormatContext(ctx context.Context, input *string) (string, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	output, err := Format(input)
	if err != nil {
		log.Debug("format rejected", "error", err)
		return "", err
	}

	log.Debug("format completed", "inputLength", len(*input))
	return output, nil
}

// Greet writes Greeting to w.
func Greet(w io.Writer) error {
	_, err := io.WriteString(w, Greeting)
	return err
}
