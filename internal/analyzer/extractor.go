package analyzer

import (
	"regexp"
	"strings"

	"sql-remap/internal/sqltext"
)

// Identifier fragments shared by the extraction patterns. Identifiers
// may be wrapped in backticks, double quotes or square brackets; the
// wrapping is stripped before reporting.
const (
	identChars = `[a-zA-Z0-9_]+`
	quoteOpen  = "[`\"\\[]?"
	quoteClose = "[`\"\\]]?"
	quoteChars = "\"`[]"
)

var qualifiedIdent = quoteOpen + identChars + quoteClose + `(?:\.` + quoteOpen + identChars + quoteClose + `)?`

// crudPatterns are checked in order; the first hit wins.
var crudPatterns = []struct {
	op string
	re *regexp.Regexp
}{
	{"SELECT", regexp.MustCompile(`(?i)^\s*SELECT\b`)},
	{"INSERT", regexp.MustCompile(`(?i)^\s*INSERT\b`)},
	{"UPDATE", regexp.MustCompile(`(?i)^\s*UPDATE\b`)},
	{"DELETE", regexp.MustCompile(`(?i)^\s*DELETE\b`)},
	{"CREATE", regexp.MustCompile(`(?i)^\s*CREATE\b`)},
	{"DROP", regexp.MustCompile(`(?i)^\s*DROP\b`)},
	{"ALTER", regexp.MustCompile(`(?i)^\s*ALTER\b`)},
}

// tablePatterns cover every structural position a table name can occupy.
var tablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)FROM\s+(` + qualifiedIdent + `)`),
	regexp.MustCompile(`(?i)JOIN\s+(` + qualifiedIdent + `)`),
	regexp.MustCompile(`(?i)INSERT\s+INTO\s+(` + qualifiedIdent + `)`),
	regexp.MustCompile(`(?i)UPDATE\s+(` + qualifiedIdent + `)`),
	regexp.MustCompile(`(?i)DELETE\s+FROM\s+(` + qualifiedIdent + `)`),
}

// joinPatterns are ordered: specific variants first, bare JOIN last.
// Every variant also matches the bare JOIN pattern, which is where the
// accepted double counting in JoinInfo comes from.
var joinPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"INNER JOIN", regexp.MustCompile(`(?i)\bINNER\s+JOIN\b`)},
	{"LEFT JOIN", regexp.MustCompile(`(?i)\bLEFT\s+(?:OUTER\s+)?JOIN\b`)},
	{"RIGHT JOIN", regexp.MustCompile(`(?i)\bRIGHT\s+(?:OUTER\s+)?JOIN\b`)},
	{"FULL JOIN", regexp.MustCompile(`(?i)\bFULL\s+(?:OUTER\s+)?JOIN\b`)},
	{"CROSS JOIN", regexp.MustCompile(`(?i)\bCROSS\s+JOIN\b`)},
	{"JOIN", regexp.MustCompile(`(?i)\bJOIN\b`)},
}

var tempTablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CREATE\s+(?:TEMP|TEMPORARY)\s+TABLE\s+([a-zA-Z0-9_#@]+)`),
	regexp.MustCompile(`(?i)WITH\s+([a-zA-Z0-9_#@]+)\s+AS\s*\(`),
	regexp.MustCompile(`#([a-zA-Z0-9_]+)`),
	regexp.MustCompile(`@@([a-zA-Z0-9_]+)`),
}

var (
	selectClausePattern  = regexp.MustCompile(`(?is)SELECT\s+(.*?)\s+FROM`)
	trailingAliasPattern = regexp.MustCompile(`(?i)\s+AS\s+` + identChars + `\s*$`)
	functionWrapPattern  = regexp.MustCompile(`^` + identChars + `\((.*)\)$`)
	qualifiedOnlyPattern = regexp.MustCompile(`^` + quoteOpen + identChars + quoteClose + `\.` + quoteOpen + `(` + identChars + `)` + quoteClose + `$`)
	qualifiedPairPattern = regexp.MustCompile(`(` + identChars + `)\.(` + identChars + `)`)
	joinedTablePattern   = regexp.MustCompile(`(?i)JOIN\s+(` + identChars + `)`)
	whereClausePattern   = regexp.MustCompile(`(?is)WHERE\s+(.*?)(?:\s+GROUP\s+BY|\s+ORDER\s+BY|\s+HAVING|$)`)
	andOrSplitPattern    = regexp.MustCompile(`(?i)\s+(?:AND|OR)\s+`)
	selectWordPattern    = regexp.MustCompile(`(?i)\bSELECT\b`)
	functionCallPattern  = regexp.MustCompile(`([A-Z_]+)\s*\(`)
)

// statementKeywords are excluded from the function name report.
var statementKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "INSERT": true,
	"UPDATE": true, "DELETE": true, "CREATE": true, "DROP": true,
}

// DetectCRUD returns the coarse kind of a statement, or "UNKNOWN" when
// no leading keyword matches.
func DetectCRUD(stmt string) string {
	for _, p := range crudPatterns {
		if p.re.MatchString(stmt) {
			return p.op
		}
	}
	return "UNKNOWN"
}

// ExtractTables returns the deduplicated table names found after FROM,
// JOIN, INSERT INTO, UPDATE and DELETE FROM, in encounter order.
// Schema qualification is kept; quoting characters are stripped.
func ExtractTables(stmt string) []string {
	var tables []string
	seen := make(map[string]bool)

	for _, p := range tablePatterns {
		for _, m := range p.FindAllStringSubmatch(stmt, -1) {
			name := stripQuoting(m[1])
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			tables = append(tables, name)
		}
	}

	return tables
}

// ExtractSelectedFields returns the field names of the SELECT clause in
// encounter order, duplicates included. Aliases are dropped, table
// prefixes removed and one level of function wrapping unwrapped.
func ExtractSelectedFields(stmt string) []string {
	m := selectClausePattern.FindStringSubmatch(stmt)
	if m == nil {
		return nil
	}

	var fields []string
	for _, item := range sqltext.SplitTopLevel(m[1], ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if item == "*" {
			fields = append(fields, "*")
			continue
		}

		if loc := trailingAliasPattern.FindStringIndex(item); loc != nil {
			item = strings.TrimSpace(item[:loc[0]])
		}
		if fm := functionWrapPattern.FindStringSubmatch(item); fm != nil {
			item = strings.TrimSpace(fm[1])
		}
		if qm := qualifiedOnlyPattern.FindStringSubmatch(item); qm != nil {
			item = qm[1]
		}

		if item = stripQuoting(item); item != "" {
			fields = append(fields, item)
		}
	}

	return fields
}

// ExtractQualifiedPairs finds every table.field pair in the statement by
// lexical scan, in encounter order with duplicates.
func ExtractQualifiedPairs(stmt string) []QualifiedField {
	var pairs []QualifiedField
	for _, m := range qualifiedPairPattern.FindAllStringSubmatch(stmt, -1) {
		pairs = append(pairs, QualifiedField{
			Table: stripQuoting(m[1]),
			Field: stripQuoting(m[2]),
		})
	}
	return pairs
}

// ExtractTempTables reports CREATE TEMP/TEMPORARY TABLE names, CTE heads
// and sigil-prefixed vendor temp tables (#name, @@name), deduplicated.
func ExtractTempTables(stmt string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, p := range tempTablePatterns {
		for _, m := range p.FindAllStringSubmatch(stmt, -1) {
			if m[1] == "" || seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}

	return names
}

// AnalyzeJoins inspects every join variant present in the statement.
func AnalyzeJoins(stmt string) JoinInfo {
	info := JoinInfo{}

	for _, p := range joinPatterns {
		matches := p.re.FindAllString(stmt, -1)
		if len(matches) == 0 {
			continue
		}
		info.HasJoins = true
		info.JoinTypes = append(info.JoinTypes, p.label)
		info.JoinCount += len(matches)
	}

	seen := make(map[string]bool)
	for _, m := range joinedTablePattern.FindAllStringSubmatch(stmt, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		info.JoinedTables = append(info.JoinedTables, m[1])
	}

	return info
}

// ExtractWhereConditions returns the WHERE clause split on AND/OR into
// condition fragments. Nested boolean groups may split imperfectly;
// the result is best effort by contract.
func ExtractWhereConditions(stmt string) []string {
	m := whereClausePattern.FindStringSubmatch(stmt)
	if m == nil {
		return nil
	}

	var conditions []string
	for _, c := range andOrSplitPattern.Split(strings.TrimSpace(m[1]), -1) {
		if c = strings.TrimSpace(c); c != "" {
			conditions = append(conditions, c)
		}
	}

	return conditions
}

// CountSubqueries counts SELECT keywords beyond the first.
func CountSubqueries(stmt string) int {
	n := len(selectWordPattern.FindAllString(stmt, -1)) - 1
	if n < 0 {
		return 0
	}
	return n
}

// ExtractFunctions reports the function names invoked in the statement,
// uppercased and deduplicated. Statement keywords followed by a
// parenthesis are not functions.
func ExtractFunctions(stmt string) []string {
	var functions []string
	seen := make(map[string]bool)

	for _, m := range functionCallPattern.FindAllStringSubmatch(strings.ToUpper(stmt), -1) {
		name := m[1]
		if statementKeywords[name] || seen[name] {
			continue
		}
		seen[name] = true
		functions = append(functions, name)
	}

	return functions
}

// ExtractTablesAndFields is the convenience summary over a whole query
// batch: distinct tables and distinct selected fields, including the
// arguments of function-wrapped fields. "*" is not reported as a field.
func ExtractTablesAndFields(queryText string) (tables, fields []string) {
	seenTables := make(map[string]bool)
	for _, t := range ExtractTables(queryText) {
		if !seenTables[t] {
			seenTables[t] = true
			tables = append(tables, t)
		}
	}

	seenFields := make(map[string]bool)
	add := func(f string) {
		if f != "" && f != "*" && !seenFields[f] {
			seenFields[f] = true
			fields = append(fields, f)
		}
	}
	for _, f := range ExtractSelectedFields(queryText) {
		add(f)
	}

	return tables, fields
}

func stripQuoting(s string) string {
	return strings.Trim(s, quoteChars)
}
