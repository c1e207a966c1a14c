// Package mapping loads rename rules from spreadsheet data into an
// explicit in-memory table. Header matching and empty-value handling
// happen once at load time; downstream code never re-sniffs cells.
package mapping

import (
	"fmt"
	"strings"
)

// Mode selects which column convention governs the rules.
type Mode string

const (
	// ModeFlatField: columns FieldSQL / Map_Field / tableName. Each row
	// renames a field wherever it appears, optionally scope-prefixed.
	ModeFlatField Mode = "flat"

	// ModeTableAndField: columns Source Table / Target Table /
	// Source Field / Target Field. Field renames apply per table, and
	// the distinct table pairs double as table rename directives.
	ModeTableAndField Mode = "table"
)

// ParseMode validates a mode name from flags or config.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFlatField:
		return ModeFlatField, nil
	case ModeTableAndField:
		return ModeTableAndField, nil
	}
	return "", fmt.Errorf("unknown mapping mode %q (want %q or %q)", s, ModeFlatField, ModeTableAndField)
}

// Required canonical columns per mode.
var (
	flatColumns  = []string{"FieldSQL", "Map_Field", "tableName"}
	tableColumns = []string{"Source Table", "Target Table", "Source Field", "Target Field"}
)

// Row is one renaming rule. Optional values are normalized to the empty
// string at load time; "" consistently means "not set".
type Row struct {
	SourceTable string // flat mode: optional scope; table mode: the table the rule applies to
	TargetTable string // table mode only
	SourceField string
	TargetField string
}

// Table is an ordered sequence of rules under one mode. Rows are
// read-only after load.
type Table struct {
	Mode Mode
	Rows []Row
}

// SchemaError reports canonical columns still missing after flexible
// header matching.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required mapping columns missing: %s", strings.Join(e.Missing, ", "))
}

// TableRenames derives the table rename directives of a table+field
// mapping: every distinct (Source Table -> Target Table) pair, last
// write wins. Flat mappings have none.
func (t *Table) TableRenames() map[string]string {
	renames := make(map[string]string)
	if t.Mode != ModeTableAndField {
		return renames
	}
	for _, row := range t.Rows {
		if row.SourceTable != "" && row.TargetTable != "" {
			renames[row.SourceTable] = row.TargetTable
		}
	}
	return renames
}

// FromRows builds a Table from raw tabular data (first-class for tests;
// the loaders feed it). headers is the first spreadsheet row.
//
// Canonical columns are matched flexibly: case-insensitive, spacing
// ignored, canonical name matched as a substring of the header. Rows
// lacking a source or target identifier are inert and dropped here.
func FromRows(mode Mode, headers []string, records [][]string) (*Table, error) {
	required := flatColumns
	if mode == ModeTableAndField {
		required = tableColumns
	}

	index := make(map[string]int)
	var missing []string
	for _, col := range required {
		pos := findColumn(headers, col)
		if pos < 0 {
			missing = append(missing, col)
			continue
		}
		index[col] = pos
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	table := &Table{Mode: mode}
	for _, record := range records {
		cell := func(col string) string {
			pos := index[col]
			if pos >= len(record) {
				return ""
			}
			return normalizeCell(record[pos])
		}

		var row Row
		if mode == ModeFlatField {
			row = Row{
				SourceField: cell("FieldSQL"),
				TargetField: cell("Map_Field"),
				SourceTable: cell("tableName"),
			}
		} else {
			row = Row{
				SourceTable: cell("Source Table"),
				TargetTable: cell("Target Table"),
				SourceField: cell("Source Field"),
				TargetField: cell("Target Field"),
			}
		}

		if row.SourceField == "" || row.TargetField == "" {
			continue
		}
		if mode == ModeTableAndField && row.SourceTable == "" {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// findColumn locates a canonical column among the headers: exact match
// first, then normalized substring match.
func findColumn(headers []string, canonical string) int {
	for i, h := range headers {
		if h == canonical {
			return i
		}
	}
	want := normalizeHeader(canonical)
	for i, h := range headers {
		if strings.Contains(normalizeHeader(h), want) {
			return i
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

// normalizeCell maps the spreadsheet reader's empty sentinels to "".
// Exported mapping sheets often carry literal "nan" cells where a
// value was never set; those count as empty too.
func normalizeCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
