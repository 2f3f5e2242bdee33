// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/greeter/internal/greeting"
	"github.com/mia-platform/greeter/internal/logger"
)

const (
	healthzPath = "/-/healthz"
	readyPath   = "/-/ready"
	greetPath   = "/greet"
	formatPath  = "/format"

	invalidBodyMessage = "invalid request body"
)

type statusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type formatRequest struct {
	Input *string `json:"input"`
}

type formatResponse struct {
	Output string `json:"output"`
}

func statusRoutes(app *fiber.App, name, version string) {
	handler := func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{Status: "OK", Name: name, Version: version})
	}

	app.Get(healthzPath, handler)
	app.Get(readyPath, handler)
}

func greetingRoutes(app *fiber.App) {
	app.Get(greetPath, func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return logger.Traced(c.UserContext(), "greet", func(context.Context) error {
			return greeting.Greet(c)
		})
	})

	app.Post(formatPath, func(c *fiber.Ctx) error {
		request := new(formatRequest)
		if err := json.Unmarshal(c.Body(), request); err != nil {
			logger.FromContext(c.UserContext()).Debug(invalidBodyMessage, "error", err)
			return errorResponse(c, http.StatusBadRequest, invalidBodyMessage)
		}

		// a missing input is a client error, FormatContext reports it at DEBUG
		output, err := greeting.FormatContext(c.UserContext(), request.Input)
		switch {
		case errors.Is(err, greeting.ErrMissingInput):
			return errorResponse(c, http.StatusBadRequest, err.Error())
		case err != nil:
			return errorResponse(c, http.StatusInternalServerError, err.Error())
		}

		return c.JSON(formatResponse{Output: output})
	})
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"error":      http.StatusText(status),
		"message":    message,
	})
}
