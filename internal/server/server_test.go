// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/greeter/internal/info"
	"github.com/mia-platform/greeter/internal/logger"
)

func testServer(t *testing.T) (*impServer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HTTP_PORT", "3000")

	buffer := new(bytes.Buffer)
	log := logger.NewLogger(buffer)
	log.SetLevel(logger.TRACE)

	srv, err := newServer(logger.WithContext(t.Context(), log))
	require.NoError(t, err)
	require.NotNil(t, srv)
	return srv, buffer
}

func TestNewServerInvalidConfig(t *testing.T) {
	t.Setenv("HTTP_PORT", "0")

	srv, err := NewServer(t.Context())
	require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	require.Nil(t, srv)
}

func TestStatusRoutes(t *testing.T) {
	originalVersion := info.Version
	t.Cleanup(func() { info.Version = originalVersion })
	info.Version = "1.2.3-injected"

	srv, buffer := testServer(t)

	for _, path := range []string{healthzPath, readyPath} {
		response, err := srv.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		defer response.Body.Close()

		require.Equal(t, http.StatusOK, response.StatusCode)
		status := new(statusResponse)
		require.NoError(t, json.NewDecoder(response.Body).Decode(status))
		assert.Equal(t, statusResponse{Status: "OK", Name: info.AppName, Version: "1.2.3-injected"}, *status)
	}

	assert.Empty(t, buffer.String(), "status routes are excluded from request logging")
}

func TestGreetRoute(t *testing.T) {
	srv, buffer := testServer(t)

	response, err := srv.app.Test(httptest.NewRequest(http.MethodGet, greetPath, nil))
	require.NoError(t, err)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", string(body))
	assert.Contains(t, response.Header.Get("Content-Type"), "text/plain")

	logs := buffer.String()
	assert.Contains(t, logs, logger.IncomingRequestMessage)
	assert.Contains(t, logs, logger.CallingFunctionMessage)
	assert.Contains(t, logs, logger.RequestCompletedMessage)
}

func TestFormatRoute(t *testing.T) {
	testCases := map[string]struct {
		body               string
		expectedStatusCode int
		expectedBody       map[string]any
	}{
		"hello world": {
			body:               `{"input": "Hello, World!"}`,
			expectedStatusCode: http.StatusOK,
			expectedBody:       map[string]any{"output": "You sent:  Hello, World!"},
		},
		"empty string": {
			body:               `{"input": ""}`,
			expectedStatusCode: http.StatusOK,
			expectedBody:       map[string]any{"output": "You sent:  "},
		},
		"null input": {
			body:               `{"input": null}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"statusCode": float64(http.StatusBadRequest),
				"error":      "Bad Request",
				"message":    "missing input",
			},
		},
		"missing input": {
			body:               `{}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"statusCode": float64(http.StatusBadRequest),
				"error":      "Bad Request",
				"message":    "missing input",
			},
		},
		"malformed body": {
			body:               `{"input":`,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"statusCode": float64(http.StatusBadRequest),
				"error":      "Bad Request",
				"message":    invalidBodyMessage,
			},
		},
		"input is not a string": {
			body:               `{"input": 42}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"statusCode": float64(http.StatusBadRequest),
				"error":      "Bad Request",
				"message":    invalidBodyMessage,
			},
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			srv, buffer := testServer(t)

			request := httptest.NewRequest(http.MethodPost, formatPath, strings.NewReader(test.body))
			request.Header.Set("Content-Type", "application/json")
			response, err := srv.app.Test(request)
			require.NoError(t, err)
			defer response.Body.Close()

			require.Equal(t, test.expectedStatusCode, response.StatusCode)
			body := make(map[string]any)
			require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
			assert.Equal(t, test.expectedBody, body)

			// client errors never reach the error level
			logs := buffer.String()
			assert.NotContains(t, logs, logger.FunctionFailedMessage)
			assert.NotContains(t, logs, `"@level":"error"`)
			assert.Contains(t, logs, logger.RequestCompletedMessage)
		})
	}
}

func TestStartServer(t *testing.T) {
	t.Run("starts and stops the server successfully", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "38401")
		t.Setenv("HTTP_HOST", "127.0.0.1")

		srv, err := newServer(t.Context())
		require.NoError(t, err)

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Start()
		}()

		time.Sleep(1 * time.Second)
		response, err := http.Get("http://127.0.0.1:38401" + greetPath)
		require.NoError(t, err)
		defer response.Body.Close()
		require.Equal(t, http.StatusOK, response.StatusCode)

		require.NoError(t, srv.Stop())
		require.NoError(t, <-errChan)
	})
}
