// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"context"
	"time"
)

const (
	CallingFunctionMessage  = "calling function"
	FunctionReturnedMessage = "function returned"
	FunctionFailedMessage   = "function failed"
)

// Traced runs fn logging its entry and exit with the logger found in ctx.
// Entry and successful exit are logged at TRACE, a failure is logged at ERROR.
// The error returned by fn is passed through untouched.
func Traced(ctx context.Context, name string, fn func(context.Context) error) error {
	log := FromContext(ctx)
	start := time.Now()

	log.Trace(CallingFunctionMessage, "function", name)
	if err := fn(ctx); err != nil {
		logFailure(log, name, start, err)
		return err
	}

	log.Trace(FunctionReturnedMessage, "function", name, "elapsed", elapsedMillis(start))
	return nil
}

// TracedResult is like Traced but also logs the value returned by fn on success.
func TracedResult[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) (T, error) {
	log := FromContext(ctx)
	start := time.Now()

	log.Trace(CallingFunctionMessage, "function", name)
	result, err := fn(ctx)
	if err != nil {
		logFailure(log, name, start, err)
		return result, err
	}

	log.Trace(FunctionReturnedMessage, "function", name, "elapsed", elapsedMillis(start), "result", result)
	return result, nil
}

func logFailure(log Logger, name string, start time.Time, err error) {
	log.Error(FunctionFailedMessage, "function", name, "elapsed", elapsedMillis(start), "error", err)
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
