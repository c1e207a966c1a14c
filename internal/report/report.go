// Package report flattens analysis results into the canonical tabular
// projection used for console display and CSV export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"sql-remap/internal/analyzer"
)

// Columns is the export header, one column per QueryAnalysis field.
// List-valued fields are comma-joined in the projected rows.
var Columns = []string{
	"Query #",
	"CRUD Operation",
	"Tables Used",
	"Selected Fields",
	"Temporary Tables",
	"Has Joins",
	"Join Types",
	"Join Count",
	"Subqueries",
	"Functions Used",
	"Complexity",
	"Where Conditions",
}

// Project flattens one row per statement, columns matching Columns.
func Project(results []analyzer.QueryAnalysis) [][]string {
	rows := make([][]string, 0, len(results))

	for _, r := range results {
		hasJoins := "No"
		if r.JoinInfo.HasJoins {
			hasJoins = "Yes"
		}

		rows = append(rows, []string{
			strconv.Itoa(r.QueryNumber),
			r.CRUDOperation,
			strings.Join(r.TablesUsed, ", "),
			strings.Join(r.FieldsSelected, ", "),
			strings.Join(r.TempTables, ", "),
			hasJoins,
			strings.Join(r.JoinInfo.JoinTypes, ", "),
			strconv.Itoa(r.JoinInfo.JoinCount),
			strconv.Itoa(r.Subqueries),
			strings.Join(r.FunctionsUsed, ", "),
			r.Complexity,
			strings.Join(r.WhereConditions, ", "),
		})
	}

	return rows
}

// WriteCSV emits the projection with its header row.
func WriteCSV(w io.Writer, results []analyzer.QueryAnalysis) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, row := range Project(results) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the projection to a file.
func SaveCSV(results []analyzer.QueryAnalysis, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV report: %w", err)
	}
	defer file.Close()

	return WriteCSV(file, results)
}

// PrintTable renders the projection as an aligned console table.
func PrintTable(w io.Writer, results []analyzer.QueryAnalysis) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(Columns, "\t"))
	for _, row := range Project(results) {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}

// PrintSummary prints aggregate counts over a batch: totals, CRUD
// distribution and complexity distribution.
func PrintSummary(w io.Writer, results []analyzer.QueryAnalysis) {
	byCRUD := make(map[string]int)
	byComplexity := make(map[string]int)
	for _, r := range results {
		byCRUD[r.CRUDOperation]++
		byComplexity[r.Complexity]++
	}

	fmt.Fprintf(w, "\nAnalyzed %d statement(s)\n", len(results))
	fmt.Fprintf(w, "  By operation:  %s\n", formatCounts(byCRUD))
	fmt.Fprintf(w, "  By complexity: %s\n", formatCounts(byComplexity))
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
