// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/greeter/internal/logger"
	"github.com/mia-platform/greeter/internal/server"
)

const (
	serveCmdUsage = "serve"
	serveCmdShort = "expose greet and format over HTTP"
	serveCmdLong  = `Start an HTTP server exposing the greeting operations.
	The server listens on HTTP_HOST:HTTP_PORT (default port 3000) and serves:
	- GET /greet: the greeting as plain text
	- POST /format: {"input": "text"} returns {"output": "You sent:  text"}
	- GET /-/healthz and /-/ready: status routes

	The server stops gracefully on SIGINT or SIGTERM.`

	serveCmdExample = `# Serve on port 8080
	HTTP_PORT=8080 greeter serve`

	serveLoggerName = "greeter:serve"
)

// ServeCmd returns the "serve" cli command.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := &serveOptions{serverGetter: serverGetter}
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}
}

// serveOptions holds the options set for the current serve run.
type serveOptions struct {
	serverGetter func(context.Context) (server.Server, error)
}

// execute runs the server until ctx is cancelled or a termination signal is received.
func (o *serveOptions) execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = logger.Named(ctx, serveLoggerName)
	log := logger.FromContext(ctx)

	srv, err := o.serverGetter(ctx)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()
	log.Info("server starting")

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
		return srv.Stop()
	case err := <-errChan:
		return err
	}
}
