package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Read loads a tabular file into a RawTable. The format is chosen by file
// extension: .xlsx via excelize, .csv via encoding/csv.
func Read(path string) (RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return RawTable{}, fmt.Errorf("unsupported table format %q", filepath.Ext(path))
	}
}

// Write stores headers and rows at path, creating parent directories. The
// format is chosen by file extension, as in Read.
func Write(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeXLSX(path, headers, rows)
	case ".csv":
		return writeCSV(path, headers, rows)
	default:
		return fmt.Errorf("unsupported table format %q", filepath.Ext(path))
	}
}

func readXLSX(path string) (RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return RawTable{}, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return RawTable{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return fromRecords(filepath.Base(path), rows), nil
}

func readCSV(path string) (RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawTable{}, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return RawTable{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return fromRecords(filepath.Base(path), records), nil
}

func fromRecords(source string, records [][]string) RawTable {
	t := RawTable{Source: source}
	if len(records) == 0 {
		return t
	}
	t.Headers = records[0]
	// Excel sheets may yield short rows for trailing blanks; pad them so
	// every row has one cell per header.
	for _, rec := range records[1:] {
		row := make([]string, len(t.Headers))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func writeXLSX(path string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := setSheetRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setSheetRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func setSheetRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	return nil
}

func writeCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
