// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/greeter/internal/info"
	"github.com/mia-platform/greeter/internal/logger"
)

const (
	loggerName = "greeter:server"
)

// Server is the lifecycle of the greeter HTTP server.
type Server interface {
	Start() error
	Stop() error
}

type impServer struct {
	config

	app *fiber.App
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// NewServer creates the fiber application with its routes. The request middleware
// logs with the logger found in ctx.
func NewServer(ctx context.Context) (Server, error) {
	srv, err := newServer(ctx)
	if err != nil {
		return nil, err
	}
	return srv, nil
}

func newServer(ctx context.Context) (*impServer, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               info.AppName,
		DisableStartupMessage: cfg.DisableStartupMessage,
	})
	log := logger.FromContext(ctx).WithName(loggerName)
	app.Use(logger.RequestMiddlewareLogger(log, []string{"/-/"}))

	statusRoutes(app, info.AppName, info.Version)
	greetingRoutes(app)

	return &impServer{
		app:    app,
		config: *cfg,
	}, nil
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}
