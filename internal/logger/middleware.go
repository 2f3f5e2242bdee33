// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedHostHeaderKey = "x-forwarded-host"
	forwardedForHeaderKey  = "x-forwarded-for"
	userAgentHeaderKey     = "user-agent"
	RequestIDHeaderName    = "x-request-id"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

type httpFields struct {
	Request  *requestFields  `json:"request,omitempty"`
	Response *responseFields `json:"response,omitempty"`
}

type userAgent struct {
	Original string `json:"original,omitempty"`
}

type requestFields struct {
	Method    string    `json:"method,omitempty"`
	UserAgent userAgent `json:"userAgent"`
}

type responseBody struct {
	Bytes int `json:"bytes,omitempty"`
}

type responseFields struct {
	StatusCode int          `json:"statusCode,omitempty"`
	Body       responseBody `json:"body"`
}

type hostFields struct {
	Hostname      string `json:"hostname,omitempty"`
	ForwardedHost string `json:"forwardedHost,omitempty"`
	IP            string `json:"ip,omitempty"`
}

type urlFields struct {
	Path string `json:"path,omitempty"`
}

// requestID returns the id sent by the caller or a freshly generated one.
func requestID(c *fiber.Ctx) string {
	if id := c.Get(RequestIDHeaderName); id != "" {
		return id
	}

	id, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return id.String()
}

func removePort(host string) string {
	return strings.Split(host, ":")[0]
}

// responseInfo returns status code and body size, taking into account the error
// returned by the handler chain that fiber has not yet turned into a response.
func responseInfo(c *fiber.Ctx, handlerErr error) responseFields {
	if handlerErr != nil {
		var fiberErr *fiber.Error
		if errors.As(handlerErr, &fiberErr) {
			return responseFields{StatusCode: fiberErr.Code, Body: responseBody{Bytes: len(fiberErr.Message)}}
		}
		return responseFields{StatusCode: http.StatusInternalServerError, Body: responseBody{Bytes: len(handlerErr.Error())}}
	}

	size := len(c.Response().Body())
	if content := c.GetRespHeader(fiber.HeaderContentLength); content != "" {
		if length, err := strconv.Atoi(content); err == nil {
			size = length
		}
	}

	return responseFields{StatusCode: c.Response().StatusCode(), Body: responseBody{Bytes: size}}
}

// RequestMiddlewareLogger is a fiber middleware to log all requests
// It logs the incoming request and when request is completed, adding latency of the request.
// Requests whose path starts with one of excludedPrefix are not logged.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := string(c.Request().URI().RequestURI())
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		start := time.Now()
		id := requestID(c)
		c.Set(RequestIDHeaderName, id)

		requestLogger := logger.WithName(id)
		c.SetUserContext(WithContext(c.UserContext(), requestLogger))

		request := &requestFields{
			Method:    c.Method(),
			UserAgent: userAgent{Original: c.Get(userAgentHeaderKey)},
		}
		host := hostFields{
			ForwardedHost: c.Get(forwardedHostHeaderKey),
			Hostname:      removePort(string(c.Request().Host())),
			IP:            c.Get(forwardedForHeaderKey),
		}

		requestLogger.Trace(IncomingRequestMessage,
			"http", httpFields{Request: request},
			"url", urlFields{Path: path},
			"host", host,
		)

		err := c.Next()
		response := responseInfo(c, err)

		requestLogger.Info(RequestCompletedMessage,
			"http", httpFields{Request: request, Response: &response},
			"url", urlFields{Path: path},
			"host", host,
			"responseTime", float64(time.Since(start).Milliseconds()),
		)

		return err
	}
}
