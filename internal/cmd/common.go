// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/mia-platform/greeter/internal/greeting"
	"github.com/mia-platform/greeter/internal/logger"
	"github.com/mia-platform/greeter/internal/server"
)

var (
	errConflictingInput = errors.New("input must be passed either as argument or with --stdin, not both")

	// serverGetter returns the server started by the serve command.
	// It can be overridden for testing purposes.
	serverGetter = server.NewServer
)

// handleError will do custom print error handling based on the type of error received.
// It returns the error so that the command exits with a non zero code.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errConflictingInput):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// Greet writes the greeting on the command output, tracing the call with the context logger.
func Greet(cmd *cobra.Command) error {
	return logger.Traced(cmd.Context(), "greet", func(context.Context) error {
		return greeting.Greet(cmd.OutOrStdout())
	})
}
