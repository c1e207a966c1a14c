package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sql-remap/internal/analyzer"
	"sql-remap/internal/report"
)

func sampleResults() []analyzer.QueryAnalysis {
	return []analyzer.QueryAnalysis{
		{
			QueryNumber:   1,
			Query:         "SELECT a, b FROM t1 INNER JOIN t2 ON t1.x = t2.y WHERE a = 1",
			CRUDOperation: "SELECT",
			TablesUsed:    []string{"t1", "t2"},
			FieldsSelected: []string{
				"a", "b",
			},
			JoinInfo: analyzer.JoinInfo{
				HasJoins:     true,
				JoinTypes:    []string{"INNER JOIN", "JOIN"},
				JoinCount:    2,
				JoinedTables: []string{"t2"},
			},
			WhereConditions: []string{"a = 1"},
			FunctionsUsed:   []string{"COUNT"},
			Complexity:      analyzer.ComplexityMedium,
		},
		{
			QueryNumber:   2,
			Query:         "DELETE FROM logs",
			CRUDOperation: "DELETE",
			TablesUsed:    []string{"logs"},
			Complexity:    analyzer.ComplexitySimple,
		},
	}
}

func TestProject(t *testing.T) {
	rows := report.Project(sampleResults())

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := []string{
		"1", "SELECT", "t1, t2", "a, b", "",
		"Yes", "INNER JOIN, JOIN", "2", "0", "COUNT",
		"Medium", "a = 1",
	}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("expected row %v, got %v", want, rows[0])
	}

	if len(rows[0]) != len(report.Columns) {
		t.Errorf("row width %d does not match %d columns", len(rows[0]), len(report.Columns))
	}
	if rows[1][5] != "No" {
		t.Errorf("expected Has Joins No, got %q", rows[1][5])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Query #,CRUD Operation,Tables Used") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], `"t1, t2"`) {
		t.Errorf("expected quoted comma-joined tables, got %q", lines[1])
	}
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	if err := report.SaveCSV(sampleResults(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "DELETE") {
		t.Errorf("saved report is missing data: %q", string(data))
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	report.PrintSummary(&buf, sampleResults())

	out := buf.String()
	if !strings.Contains(out, "Analyzed 2 statement(s)") {
		t.Errorf("missing total line: %q", out)
	}
	if !strings.Contains(out, "DELETE=1 SELECT=1") {
		t.Errorf("missing sorted operation counts: %q", out)
	}
	if !strings.Contains(out, "Medium=1 Simple=1") {
		t.Errorf("missing sorted complexity counts: %q", out)
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	report.PrintTable(&buf, sampleResults())

	out := buf.String()
	if !strings.Contains(out, "Query #") || !strings.Contains(out, "Complexity") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "INNER JOIN, JOIN") {
		t.Errorf("missing join types cell: %q", out)
	}
}
