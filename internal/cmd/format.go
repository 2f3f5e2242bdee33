// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/mia-platform/greeter/internal/greeting"
	"github.com/mia-platform/greeter/internal/logger"
)

const (
	formatCmdUsage = "format [TEXT]"
	formatCmdShort = "echo the given text behind a fixed prefix"
	formatCmdLong  = `Echo the given text behind the "You sent:" prefix.
	The text can be passed as the only argument or read from the standard
	input with the --stdin flag. Calling the command without any text fails
	with a missing input error.`

	formatCmdExample = `# Echo a text
	greeter format "Hello, World!"

	# Echo the content of a file
	greeter format --stdin < message.txt`

	stdinFlagName  = "stdin"
	stdinFlagUsage = "read the text from the standard input"
)

// FormatCmd returns the "format" cli command.
func FormatCmd() *cobra.Command {
	flags := &formatFlags{}
	cmd := &cobra.Command{
		Use:     formatCmdUsage,
		Short:   heredoc.Doc(formatCmdShort),
		Long:    heredoc.Doc(formatCmdLong),
		Example: heredoc.Doc(formatCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, args []string) error {
			err := cobra.MaximumNArgs(1)(cmd, args)
			if err != nil {
				cmd.PrintErrln(err)
				_ = cmd.Usage()
			}

			return err
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// formatFlags holds the flags for the "format" command.
type formatFlags struct {
	stdin bool
}

// addFlags adds the cli flags to the cobra command.
func (f *formatFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.stdin, stdinFlagName, false, stdinFlagUsage)
}

// toOptions converts the flags to formatOptions, resolving the input from args or stdin.
func (f *formatFlags) toOptions(cmd *cobra.Command, args []string) (*formatOptions, error) {
	opts := &formatOptions{out: cmd.OutOrStdout()}

	switch {
	case f.stdin && len(args) > 0:
		return nil, errConflictingInput
	case f.stdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}

		input := trimLineEnding(string(data))
		opts.input = &input
	case len(args) > 0:
		opts.input = &args[0]
	}

	return opts, nil
}

// trimLineEnding removes a single trailing line ending, as added by shells and editors.
func trimLineEnding(s string) string {
	if trimmed, found := strings.CutSuffix(s, "\n"); found {
		return strings.TrimSuffix(trimmed, "\r")
	}
	return s
}

// formatOptions holds the options set for the current format run.
type formatOptions struct {
	input *string
	out   io.Writer
}

// execute formats the input and prints it.
func (o *formatOptions) execute(ctx context.Context) error {
	output, err := logger.TracedResult(ctx, "format", func(ctx context.Context) (string, error) {
		return greeting.FormatContext(ctx, o.input)
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.out, output)
	return err
}
