package mapping

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads a mapping file, picking the reader by extension: xlsx
// workbooks go through excelize, anything else is treated as CSV.
// sheet selects the worksheet; empty means the first sheet.
func Load(path, sheet string, mode Mode) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return LoadExcel(path, sheet, mode)
	default:
		return LoadCSV(path, mode)
	}
}

// LoadExcel reads the mapping table from a workbook sheet. The first
// row is the header row.
func LoadExcel(path, sheet string, mode Mode) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	return FromRows(mode, rows[0], rows[1:])
}

// LoadCSV reads the mapping table from a comma-separated file with a
// header row.
func LoadCSV(path string, mode Mode) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("mapping file %s is empty", path)
	}

	return FromRows(mode, records[0], records[1:])
}
