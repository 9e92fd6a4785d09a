// Package common defines data structures shared by the application
// commands, e.g., tune, report, export.
package common

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Timestamp   string // Timestamp is the application startup time.
	OutputDir   string // OutputDir is the directory where the application will write output files.
	LogFilePath string // LogFilePath is the path to the log file, empty when logging elsewhere.
	Version     string // Version is the version of the application.
	Debug       bool   // Debug indicates verbose logging was requested.
}
