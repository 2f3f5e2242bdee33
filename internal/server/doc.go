// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server exposes the greeting operations over HTTP.
// It sets up the HTTP server using the Fiber framework, configures middleware for logging,
// and defines routes for health checks, greeting and formatting.
package server
