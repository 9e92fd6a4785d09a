// Package report renders probe and tuning results as text, JSON, or xlsx.
package report

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
)

const (
	FormatTxt  = "txt"
	FormatJSON = "json"
	FormatXlsx = "xlsx"
)

// FormatOptions lists all supported report formats.
var FormatOptions = []string{FormatTxt, FormatJSON, FormatXlsx}

const noDataFound = "No data found."

// Field is one column of a table.
type Field struct {
	Name   string
	Values []string
}

// TableValues holds one rendered table. HasRows selects the row-oriented
// layout; otherwise each field renders as a "name: value" line.
type TableValues struct {
	Name    string
	Fields  []Field
	HasRows bool
}

// Create renders the tables in the requested format.
func Create(format string, tables []TableValues) ([]byte, error) {
	switch format {
	case FormatTxt:
		return createTextReport(tables)
	case FormatJSON:
		return createJSONReport(tables)
	case FormatXlsx:
		return createXlsxReport(tables)
	}
	return nil, fmt.Errorf("unsupported report format: %s", format)
}
