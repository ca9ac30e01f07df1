/*
Copyright 2026 The txtime Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging holds the module's logr verbosity conventions and zap-backed logger constructors. Library code only
// ever takes an injected `logr.Logger` and logs at these levels; constructing a concrete logger is a binary (or test)
// concern.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels, from always-on operational messages down to per-packet tracing.
const (
	// DEFAULT is for messages an operator should see in normal operation (configuration, reset, shutdown).
	DEFAULT = 1
	// VERBOSE is for expected-but-noteworthy events (rejections, expiry drops).
	VERBOSE = 2
	// DEBUG is for detailed diagnostic output.
	DEBUG = 3
	// TRACE is for per-packet hot-path events.
	TRACE = 4
)

// NewLogger returns a production zap-backed logger showing messages up to the given verbosity level.
func NewLogger(level int) logr.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-level)) //nolint:gosec // small constant level
	zl, err := cfg.Build()
	if err != nil {
		// The production config cannot fail to build; treat it as a programmer error.
		panic(err)
	}
	return zapr.NewLogger(zl)
}

// NewTestLogger creates a dev-mode logger at TRACE verbosity with caller annotation.
func NewTestLogger() logr.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-TRACE))
	zl, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
	return zapr.NewLogger(zl)
}
