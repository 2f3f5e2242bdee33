// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/greeter/internal/config"
	"github.com/mia-platform/greeter/internal/info"
	"github.com/mia-platform/greeter/internal/logger"
)

// clearLoggingEnv makes the tests independent from the logging variables of the caller.
func clearLoggingEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{"LOG_LEVEL", "LOG_FILE", "LOG_CONSOLE", "LOG_JSON"} {
		t.Setenv(key, "")
	}
}

func executeRoot(t *testing.T, flag *rootFlags, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(flag)
	outBuffer := new(bytes.Buffer)
	errBuffer := new(bytes.Buffer)
	cmd.SetOut(outBuffer)
	cmd.SetErr(errBuffer)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	require.NoError(t, flag.closeLogger())
	return outBuffer.String(), errBuffer.String(), err
}

func TestRootCommand(t *testing.T) {
	clearLoggingEnv(t)

	originalVersion, originalBuildDate := info.Version, info.BuildDate
	t.Cleanup(func() {
		info.Version, info.BuildDate = originalVersion, originalBuildDate
	})

	info.Version = "test"
	info.BuildDate = "2024-06-01"

	cmd := rootCmd()
	buffer := new(bytes.Buffer)
	cmd.SetOut(buffer)

	cmd.SetArgs([]string{"--log-level", "WARN", "version"})
	err := cmd.ExecuteContext(t.Context())
	require.NoError(t, err)

	lines := strings.Split(buffer.String(), "\n")
	assert.Len(t, lines, 2) // version output + empty line
	assert.Equal(t, "test (2024-06-01), Go Version: "+runtime.Version()+"\n", buffer.String())

	buffer.Reset()
	info.BuildDate = ""
	cmd.SetArgs([]string{"--log-level", "WARN", "version"})
	err = cmd.ExecuteContext(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "test, Go Version: "+runtime.Version()+"\n", buffer.String())
}

func TestRootCommandGreets(t *testing.T) {
	clearLoggingEnv(t)

	out, errOut, err := executeRoot(t, &rootFlags{})
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", out)
	assert.Empty(t, errOut)
}

func TestRootCommandTracesAtTraceLevel(t *testing.T) {
	clearLoggingEnv(t)

	out, errOut, err := executeRoot(t, &rootFlags{}, "--log-level", "TRACE")
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", out, "logs never reach the standard output")

	lines := strings.Split(strings.TrimSpace(errOut), "\n")
	require.Len(t, lines, 2)
	for i, expected := range []string{logger.CallingFunctionMessage, logger.FunctionReturnedMessage} {
		line := make(map[string]any)
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &line))
		assert.Equal(t, expected, line["@message"])
		assert.Equal(t, "greet", line["function"])
		assert.Equal(t, appName, line["@module"])
	}
}

func TestRootCommandLogFile(t *testing.T) {
	clearLoggingEnv(t)
	t.Setenv("LOG_CONSOLE", "false")

	logFile := filepath.Join(t.TempDir(), "greeter.log")
	out, errOut, err := executeRoot(t, &rootFlags{}, "--log-level", "trace", "--log-file", logFile, "format", "test")
	require.NoError(t, err)
	assert.Equal(t, "You sent:  test\n", out)
	assert.Empty(t, errOut)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), logger.CallingFunctionMessage)
	assert.Contains(t, string(content), `"result":"You sent:  test"`)
}

func TestRootCommandConfigFile(t *testing.T) {
	clearLoggingEnv(t)

	dir := t.TempDir()
	logFile := filepath.Join(dir, "from-config.log")
	configPath := filepath.Join(dir, "logging.yaml")
	configContent := "level: TRACE\nfile: " + logFile + "\nconsole: false\njson: false\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

	out, errOut, err := executeRoot(t, &rootFlags{}, "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", out)
	assert.Empty(t, errOut)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[TRACE]")
	assert.Contains(t, string(content), logger.FunctionReturnedMessage)
}

func TestRootCommandErrors(t *testing.T) {
	clearLoggingEnv(t)

	t.Run("invalid log level", func(t *testing.T) {
		out, errOut, err := executeRoot(t, &rootFlags{}, "--log-level", "LOUD")
		require.ErrorIs(t, err, config.ErrConfigNotValid)
		assert.Empty(t, out)
		assert.Contains(t, errOut, config.ErrConfigNotValid.Error())
	})

	t.Run("missing config file", func(t *testing.T) {
		out, _, err := executeRoot(t, &rootFlags{}, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Empty(t, out)
	})

	t.Run("format without input", func(t *testing.T) {
		out, errOut, err := executeRoot(t, &rootFlags{}, "format")
		require.Error(t, err)
		assert.Empty(t, out)
		assert.Contains(t, errOut, logger.FunctionFailedMessage)
		assert.True(t, strings.HasSuffix(errOut, "missing input\n"), errOut)
	})

	t.Run("unexpected argument prints error and usage", func(t *testing.T) {
		cmd := newRootCmd(&rootFlags{})
		outBuffer := new(bytes.Buffer)
		errBuffer := new(bytes.Buffer)
		cmd.SetOut(outBuffer)
		cmd.SetErr(errBuffer)
		cmd.SetUsageTemplate("usage string")
		cmd.SetArgs([]string{"unknown"})

		err := cmd.ExecuteContext(t.Context())
		require.Error(t, err)
		assert.Equal(t, "unknown command \"unknown\" for \"greeter\"\n", errBuffer.String())
		assert.Equal(t, "usage string", outBuffer.String())
	})
}
