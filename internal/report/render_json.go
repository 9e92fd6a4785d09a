package report

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/json"
)

// createJSONReport renders tables in report order and each record's fields
// in their declared order, so consumers see the same layout as the text
// report. A table with no values still renders one empty record so the
// field names are visible.
func createJSONReport(allTableValues []TableValues) (out []byte, err error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for tableIdx, tableValues := range allTableValues {
		if tableIdx > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, tableValues.Name)
		buf.WriteByte(':')
		if len(tableValues.Fields) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.WriteByte('[')
		numRecords := len(tableValues.Fields[0].Values)
		if numRecords == 0 {
			writeJSONRecord(&buf, tableValues.Fields, -1)
		} else {
			for recordIdx := range numRecords {
				if recordIdx > 0 {
					buf.WriteByte(',')
				}
				writeJSONRecord(&buf, tableValues.Fields, recordIdx)
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	var indented bytes.Buffer
	if err = json.Indent(&indented, buf.Bytes(), "", " "); err != nil {
		return
	}
	out = indented.Bytes()
	return
}

// writeJSONRecord writes one record object. A negative record index writes
// every field with an empty value.
func writeJSONRecord(buf *bytes.Buffer, fields []Field, recordIdx int) {
	buf.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, field.Name)
		buf.WriteByte(':')
		if recordIdx >= 0 {
			writeJSONString(buf, field.Values[recordIdx])
		} else {
			writeJSONString(buf, "")
		}
	}
	buf.WriteByte('}')
}

func writeJSONString(buf *bytes.Buffer, s string) {
	encoded, err := json.Marshal(s)
	if err != nil {
		buf.WriteString(`""`)
		return
	}
	buf.Write(encoded)
}
