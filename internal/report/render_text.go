package report

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"
)

func createTextReport(allTableValues []TableValues) (out []byte, err error) {
	var sb strings.Builder
	for _, tableValues := range allTableValues {
		sb.WriteString(fmt.Sprintf("%s\n", tableValues.Name))
		for range len(tableValues.Name) {
			sb.WriteString("=")
		}
		sb.WriteString("\n")
		if len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0 {
			sb.WriteString(noDataFound + "\n\n")
			continue
		}
		if tableValues.HasRows {
			sb.WriteString(renderTextRows(tableValues))
		} else {
			sb.WriteString(renderTextFields(tableValues))
		}
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}

// renderTextRows prints the field names as column headings across the top
// of the table, sized to the longest value per column.
func renderTextRows(tableValues TableValues) string {
	var sb strings.Builder
	maxFieldLen := make(map[string]int)
	for i, field := range tableValues.Fields {
		// the last column shouldn't occupy more space than the value
		if i == len(tableValues.Fields)-1 {
			maxFieldLen[field.Name] = 0
			continue
		}
		maxFieldLen[field.Name] = len(field.Name)
		for _, val := range field.Values {
			if len(val) > maxFieldLen[field.Name] {
				maxFieldLen[field.Name] = len(val)
			}
		}
	}
	columnSpacing := 3
	for _, field := range tableValues.Fields {
		sb.WriteString(fmt.Sprintf("%-*s", maxFieldLen[field.Name]+columnSpacing, field.Name))
	}
	sb.WriteString("\n")
	for _, field := range tableValues.Fields {
		underline := strings.Repeat("-", len(field.Name))
		sb.WriteString(fmt.Sprintf("%-*s", maxFieldLen[field.Name]+columnSpacing, underline))
	}
	sb.WriteString("\n")
	numRows := len(tableValues.Fields[0].Values)
	for row := range numRows {
		for _, field := range tableValues.Fields {
			sb.WriteString(fmt.Sprintf("%-*s", maxFieldLen[field.Name]+columnSpacing, field.Values[row]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderTextFields prints one "name: value" line per field, values aligned.
func renderTextFields(tableValues TableValues) string {
	var sb strings.Builder
	maxNameLen := 0
	for _, field := range tableValues.Fields {
		if len(field.Name) > maxNameLen {
			maxNameLen = len(field.Name)
		}
	}
	for _, field := range tableValues.Fields {
		var value string
		if len(field.Values) > 0 {
			value = field.Values[0]
		}
		sb.WriteString(fmt.Sprintf("%-*s %s\n", maxNameLen+1, field.Name+":", value))
	}
	return sb.String()
}
