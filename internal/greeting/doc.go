// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package greeting implements the two operations exposed by greeter:
// Format echoes its input behind a fixed prefix, Greet writes a fixed greeting.
package greeting
