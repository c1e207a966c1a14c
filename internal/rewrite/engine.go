// Package rewrite substitutes renamed identifiers into raw SQL text.
//
// The engine never parses SQL into an AST. Each pass is a pure
// (text, rules) -> text function and the pass order is a contract:
// reordering passes changes output. Statements in a batch are rewritten
// independently; a failure on any statement aborts the whole result.
package rewrite

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"sql-remap/internal/analyzer"
	"sql-remap/internal/mapping"
	"sql-remap/internal/sqltext"
)

// Error wraps any failure during the substitution passes. No partial
// rewritten text accompanies it.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rewrite failed: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("rewrite failed: %s", e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Rename records one substitution that actually changed text, feeding
// the user-facing diff table.
type Rename struct {
	From string
	To   string
}

// Result is the rewritten batch plus the renames applied across it.
type Result struct {
	Output  string
	Applied []Rename
}

// Identifier quoting fragments, mirrored from the extraction patterns.
const (
	quoteOpen  = "[`\"\\[]?"
	quoteClose = "[`\"\\]]?"
	boundary   = `([^A-Za-z0-9_]|$)`
	ident      = `[A-Za-z0-9_]+`
)

var (
	selectClausePattern = regexp.MustCompile(`(?is)SELECT\s+(.*?)\s+FROM`)
	aliasTailPattern    = regexp.MustCompile(`(?is)^(.*?)\s+AS\s+(` + ident + `)\s*$`)
	pairPattern         = regexp.MustCompile(`(` + ident + `)\.(` + ident + `)`)
)

// Rewrite runs the whole batch through the mapping table's mode. Each
// statement is rewritten in isolation and results are joined with a
// blank line. onProgress, when non-nil, is called once per statement.
func Rewrite(queryText string, table *mapping.Table, onProgress func()) (*Result, error) {
	statements, err := sqltext.Split(queryText)
	if err != nil {
		return nil, &Error{Msg: "could not split input into statements", Err: err}
	}
	if len(statements) == 0 {
		return nil, &Error{Msg: "input contains no statements"}
	}

	result := &Result{}
	seen := make(map[Rename]bool)
	var outputs []string

	for _, stmt := range statements {
		var out string
		var applied []Rename

		switch table.Mode {
		case mapping.ModeTableAndField:
			out, applied = rewriteTableField(stmt, table.Rows, table.TableRenames())
		default:
			out, applied = rewriteFlat(stmt, table.Rows)
		}

		outputs = append(outputs, out)
		for _, r := range applied {
			if !seen[r] {
				seen[r] = true
				result.Applied = append(result.Applied, r)
			}
		}

		if onProgress != nil {
			onProgress()
		}
	}

	result.Output = strings.Join(outputs, "\n\n")
	return result, nil
}

// rewriteFlat applies flat-field rules in mapping-table order. Per row:
// word-boundary replacement first, then function arguments, then
// residual "field AS alias" text. The ordering can double-apply in
// corner cases; that is preserved behavior, not an accident to fix.
func rewriteFlat(stmt string, rows []mapping.Row) (string, []Rename) {
	var applied []Rename

	for _, row := range rows {
		if row.SourceField == "" || row.TargetField == "" {
			continue
		}

		replacement := row.TargetField
		if row.SourceTable != "" {
			replacement = row.SourceTable + "." + row.TargetField
		}

		src := regexp.QuoteMeta(row.SourceField)
		repl := escapeTemplate(replacement)
		before := stmt

		wordPattern := regexp.MustCompile(`\b` + src + `\b`)
		funcPattern := regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\(\s*` + src + `\s*\)`)
		asPattern := regexp.MustCompile(src + `((?i:\s+AS\s+)` + ident + `)`)

		// String literals never participate in renaming.
		stmt = sqltext.MapCode(stmt, func(code string) string {
			// 1. Standalone occurrences, word-boundary safe.
			code = wordPattern.ReplaceAllString(code, repl)
			// 2. Bare function arguments: FUNC(field).
			code = funcPattern.ReplaceAllString(code, `${1}(`+repl+`)`)
			// 3. Residual literal "field AS alias" text.
			code = asPattern.ReplaceAllString(code, repl+`${1}`)
			return code
		})

		if stmt != before {
			applied = append(applied, Rename{From: row.SourceField, To: replacement})
		}
	}

	return sqltext.Format(stmt), applied
}

// rewriteTableField applies the table+field passes in their fixed
// order: table renames in FROM/JOIN, aliased table renames, qualified
// pair rewrites, then a SELECT-clause re-pass that preserves aliases.
func rewriteTableField(stmt string, rows []mapping.Row, tableRenames map[string]string) (string, []Rename) {
	var applied []Rename

	fieldRules := make(map[string]map[string]string)
	for _, row := range rows {
		if row.SourceTable == "" || row.SourceField == "" || row.TargetField == "" {
			continue
		}
		if fieldRules[row.SourceTable] == nil {
			fieldRules[row.SourceTable] = make(map[string]string)
		}
		fieldRules[row.SourceTable][row.SourceField] = row.TargetField
	}

	// Qualified pairs come from the statement as received, before any
	// table renaming has touched it.
	pairs := analyzer.ExtractQualifiedPairs(stmt)

	sourceTables := make([]string, 0, len(tableRenames))
	for src := range tableRenames {
		sourceTables = append(sourceTables, src)
	}
	sort.Strings(sourceTables)

	for _, srcTable := range sourceTables {
		tgtTable := tableRenames[srcTable]
		if tgtTable == "" {
			continue
		}

		src := regexp.QuoteMeta(srcTable)
		tgt := escapeTemplate(tgtTable)
		before := stmt

		fromJoinPattern := regexp.MustCompile(`(?i)\b(FROM|JOIN)\s+(` + quoteOpen + `)` + src + `(` + quoteClose + `)` + boundary)
		aliasPattern := regexp.MustCompile(`(^|[^A-Za-z0-9_])(` + quoteOpen + `)` + src + `(` + quoteClose + `)((?i:\s+AS\s+)` + ident + `)`)

		stmt = sqltext.MapCode(stmt, func(code string) string {
			// 1. FROM / JOIN positions, quoting preserved.
			code = fromJoinPattern.ReplaceAllString(code, `${1} ${2}`+tgt+`${3}${4}`)
			// 2. "table AS alias", alias untouched.
			return aliasPattern.ReplaceAllString(code, `${1}${2}`+tgt+`${3}${4}`)
		})

		if stmt != before {
			applied = append(applied, Rename{From: srcTable, To: tgtTable})
		}
	}

	// 3. table.field pairs anywhere in the statement.
	seenPairs := make(map[analyzer.QualifiedField]bool)
	for _, pair := range pairs {
		if seenPairs[pair] {
			continue
		}
		seenPairs[pair] = true

		tgtTable := tableRenames[pair.Table]
		if tgtTable == "" {
			continue
		}
		tgtField := pair.Field
		if mapped, ok := fieldRules[pair.Table][pair.Field]; ok {
			tgtField = mapped
		}

		pairRe := regexp.MustCompile(
			`(^|[^A-Za-z0-9_])(` + quoteOpen + `)` + regexp.QuoteMeta(pair.Table) +
				`(` + quoteClose + `)\.(` + quoteOpen + `)` + regexp.QuoteMeta(pair.Field) +
				`(` + quoteClose + `)` + boundary)
		before := stmt
		stmt = sqltext.MapCode(stmt, func(code string) string {
			return pairRe.ReplaceAllString(code,
				`${1}${2}`+escapeTemplate(tgtTable)+`${3}.${4}`+escapeTemplate(tgtField)+`${5}${6}`)
		})

		if stmt != before {
			applied = append(applied, Rename{
				From: pair.Table + "." + pair.Field,
				To:   tgtTable + "." + tgtField,
			})
		}
	}

	// 4. SELECT clause re-pass for aliased items.
	stmt = rewriteSelectAliases(stmt, tableRenames, fieldRules)

	return sqltext.Format(stmt), applied
}

// rewriteSelectAliases re-scans the SELECT clause: items of the form
// "table.field AS alias" get their expression rewritten in place with
// the alias preserved exactly. The clause is re-emitted with items
// trimmed and comma-space separated.
func rewriteSelectAliases(stmt string, tableRenames map[string]string, fieldRules map[string]map[string]string) string {
	loc := selectClausePattern.FindStringSubmatchIndex(stmt)
	if loc == nil {
		return stmt
	}

	clause := stmt[loc[2]:loc[3]]
	items := sqltext.SplitTopLevel(clause, ',')

	for i, item := range items {
		item = strings.TrimSpace(item)
		items[i] = item

		m := aliasTailPattern.FindStringSubmatch(item)
		if m == nil {
			continue
		}
		expr, alias := strings.TrimSpace(m[1]), m[2]

		pm := pairPattern.FindStringSubmatch(expr)
		if pm == nil {
			continue
		}
		srcTable, srcField := pm[1], pm[2]

		tgtTable := tableRenames[srcTable]
		if tgtTable == "" {
			continue
		}
		tgtField := srcField
		if mapped, ok := fieldRules[srcTable][srcField]; ok {
			tgtField = mapped
		}

		expr = strings.Replace(expr, srcTable+"."+srcField, tgtTable+"."+tgtField, 1)
		items[i] = expr + " AS " + alias
	}

	return stmt[:loc[2]] + strings.Join(items, ", ") + stmt[loc[3]:]
}

// escapeTemplate makes a literal replacement safe for use as a regexp
// expansion template.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
