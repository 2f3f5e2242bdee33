// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps go-hclog behind a small Logger interface.
// Loggers are built explicitly (console and/or file output) and handed around
// through context helpers; Traced and TracedResult log the entry and exit of a call,
// and RequestMiddlewareLogger does the same for fiber requests.
package logger
