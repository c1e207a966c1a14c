// Package analyzer extracts a structural profile from raw SQL text.
//
// It works on text with lightweight structural cues, not a resolved
// relational model: extraction is regex based and best effort, so the
// results are a profile of the query, never a validation of it.
package analyzer

import (
	"sql-remap/internal/sqltext"
)

// AnalyzeStatement builds the full profile of a single statement. It is
// a pure function of its input.
func AnalyzeStatement(stmt string) QueryAnalysis {
	return QueryAnalysis{
		Query:           stmt,
		CRUDOperation:   DetectCRUD(stmt),
		TablesUsed:      ExtractTables(stmt),
		FieldsSelected:  ExtractSelectedFields(stmt),
		TempTables:      ExtractTempTables(stmt),
		JoinInfo:        AnalyzeJoins(stmt),
		WhereConditions: ExtractWhereConditions(stmt),
		Subqueries:      CountSubqueries(stmt),
		FunctionsUsed:   ExtractFunctions(stmt),
		Complexity:      Classify(stmt),
	}
}

// AnalyzeAll splits a batch into statements and profiles each one,
// tagging results with their 1-based position in the input.
func AnalyzeAll(text string) ([]QueryAnalysis, error) {
	statements, err := sqltext.Split(text)
	if err != nil {
		return nil, err
	}

	results := make([]QueryAnalysis, 0, len(statements))
	for i, stmt := range statements {
		analysis := AnalyzeStatement(stmt)
		analysis.QueryNumber = i + 1
		results = append(results, analysis)
	}

	return results, nil
}
