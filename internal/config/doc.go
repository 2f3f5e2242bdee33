// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the logging configuration from environment variables and
// an optional YAML file.
package config
