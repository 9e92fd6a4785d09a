package common

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"cputune/internal/report"
)

// WriteReports renders the tables in every requested format and writes one
// file per format into the context's output directory. Returns the paths of
// the written files.
func WriteReports(appCtx AppContext, baseName string, formats []string, tables []report.TableValues) ([]string, error) {
	if err := os.MkdirAll(appCtx.OutputDir, 0755); err != nil { // #nosec G301
		return nil, fmt.Errorf("failed to create output directory: %v", err)
	}
	var paths []string
	for _, format := range formats {
		out, err := report.Create(format, tables)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(appCtx.OutputDir, baseName+"."+format)
		if err := os.WriteFile(path, out, 0644); err != nil { // #nosec G306
			return nil, fmt.Errorf("failed to write report: %v", err)
		}
		slog.Info("wrote report", slog.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// PrintSummary prints the text rendering of the tables to stdout. When
// stdout is not a terminal the report file paths are printed instead, so
// scripted callers get machine-friendly output.
func PrintSummary(tables []report.TableValues, reportPaths []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, path := range reportPaths {
			fmt.Println(path)
		}
		return
	}
	out, err := report.Create(report.FormatTxt, tables)
	if err != nil {
		slog.Error("failed to render summary", slog.String("error", err.Error()))
		return
	}
	fmt.Print(string(out))
	if len(reportPaths) > 0 {
		fmt.Println("Report files:")
		for _, path := range reportPaths {
			fmt.Printf("  %s\n", path)
		}
	}
}
