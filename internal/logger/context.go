// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"context"
)

// WithContext returns a new context with the provided logger.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey, logger)
}

// FromContext retrieves the logger from the context. If no logger is found, the null logger is returned.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey).(Logger); ok {
			return logger
		}
	}

	return nullLogger
}

// Named returns a copy of ctx carrying the context logger renamed to name.
func Named(ctx context.Context, name string) context.Context {
	return WithContext(ctx, FromContext(ctx).WithName(name))
}

type contextKeyType struct{}

var contextKey = contextKeyType{}
