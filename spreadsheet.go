// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconv

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const defaultSheetName = "Sheet1"

var errNoSheets = errors.New("workbook has no sheets")

// excelCodec is the default SpreadsheetCodec: excelize for XLSX, extrame/xls
// for legacy workbooks and the CSV reader for delimited text.
type excelCodec struct{}

func newExcelCodec() *excelCodec {
	return &excelCodec{}
}

func (c *excelCodec) ReadFirstSheet(data []byte, format Format, raw bool) (Table, error) {
	switch format {
	case FormatCSV:
		return parseCSV(data, raw)
	case FormatXLS:
		sheets, err := readXLS(data, raw)
		if err != nil {
			return nil, err
		}
		return sheets[0].rows, nil
	case FormatXLSX:
		return readXLSXFirstSheet(data, raw)
	}
	return nil, fmt.Errorf("not a workbook: %s", format)
}

func (c *excelCodec) Write(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, defaultSheetName, t); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *excelCodec) Rewrite(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open XLSX: %w", err)
		}
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, fmt.Errorf("write XLSX: %w", err)
		}
		return buf.Bytes(), nil

	case FormatXLS:
		sheets, err := readXLS(data, true)
		if err != nil {
			return nil, err
		}
		f := excelize.NewFile()
		defer f.Close()
		for i, s := range sheets {
			if i == 0 {
				if err := f.SetSheetName(defaultSheetName, s.name); err != nil {
					return nil, fmt.Errorf("rename sheet: %w", err)
				}
			} else if _, err := f.NewSheet(s.name); err != nil {
				return nil, fmt.Errorf("add sheet %q: %w", s.name, err)
			}
			if err := writeSheet(f, s.name, s.rows); err != nil {
				return nil, err
			}
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, fmt.Errorf("write XLSX: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("cannot rewrite %s", format)
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	for r, row := range t {
		for col, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}
	return nil
}

func readXLSXFirstSheet(data []byte, raw bool) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}
	sheet := sheets[0]

	if !raw {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		return textTable(rows), nil
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	t := make(Table, len(rows))
	for r, row := range rows {
		cells := make([]any, len(row))
		for col, s := range row {
			if s == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			typ, err := f.GetCellType(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("cell type %s: %w", name, err)
			}
			cells[col] = typedCell(s, typ)
		}
		t[r] = cells
	}
	return t, nil
}

// typedCell restores the stored type of a raw cell value.
func typedCell(s string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeBool:
		return s == "1" || s == "TRUE" || s == "true"
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func textTable(rows [][]string) Table {
	t := make(Table, len(rows))
	for r, row := range rows {
		cells := make([]any, len(row))
		for col, s := range row {
			if s != "" {
				cells[col] = s
			}
		}
		t[r] = cells
	}
	return t
}

type namedTable struct {
	name string
	rows Table
}

// readXLS loads every sheet of a legacy workbook. The library only reads from
// a path, so the bytes go through a temp file.
func readXLS(data []byte, raw bool) (sheets []namedTable, err error) {
	// extrame/xls panics on some malformed records.
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, fmt.Errorf("read XLS: %v", r)
		}
	}()

	tmpFile, err := os.CreateTemp("", "fileconv-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmpFile.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		var t Table
		for rowIdx := 0; rowIdx <= int(sheet.MaxRow); rowIdx++ {
			row := sheet.Row(rowIdx)
			if row == nil {
				t = append(t, nil)
				continue
			}
			cells := make([]any, row.LastCol())
			for col := range cells {
				s := row.Col(col)
				switch {
				case raw:
					cells[col] = inferCell(s)
				case s != "":
					cells[col] = s
				}
			}
			t = append(t, cells)
		}
		sheets = append(sheets, namedTable{name: name, rows: t})
	}
	if len(sheets) == 0 {
		return nil, errNoSheets
	}
	return sheets, nil
}
