package report

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "CPU Tuning"

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

func createXlsxReport(allTableValues []TableValues) (out []byte, err error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetIdx, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return
	}
	f.SetActiveSheet(sheetIdx)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return
	}
	row := 1
	for _, tableValues := range allTableValues {
		renderXlsxTable(tableValues, f, xlsxSheetName, &row)
	}
	var buf bytes.Buffer
	if err = f.Write(&buf); err != nil {
		return
	}
	out = buf.Bytes()
	return
}

func renderXlsxTable(tableValues TableValues, f *excelize.File, sheetName string, row *int) {
	col := 1
	// print the table name
	tableNameStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	_ = f.SetCellValue(sheetName, cellName(col, *row), tableValues.Name)
	_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), tableNameStyle)
	*row++
	if len(tableValues.Fields) == 0 || len(tableValues.Fields[0].Values) == 0 {
		_ = f.SetCellValue(sheetName, cellName(col, *row), noDataFound)
		*row += 2
		return
	}
	if tableValues.HasRows {
		// field names as column headings
		for i, field := range tableValues.Fields {
			_ = f.SetCellValue(sheetName, cellName(col+i, *row), field.Name)
		}
		*row++
		numRows := len(tableValues.Fields[0].Values)
		for rowIdx := range numRows {
			for i, field := range tableValues.Fields {
				_ = f.SetCellValue(sheetName, cellName(col+i, *row), field.Values[rowIdx])
			}
			*row++
		}
	} else {
		for _, field := range tableValues.Fields {
			_ = f.SetCellValue(sheetName, cellName(col, *row), field.Name)
			var value string
			if len(field.Values) > 0 {
				value = field.Values[0]
			}
			_ = f.SetCellValue(sheetName, cellName(col+1, *row), value)
			*row++
		}
	}
	*row++
}
