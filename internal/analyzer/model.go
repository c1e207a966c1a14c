package analyzer

// JoinInfo describes the join structure of one statement.
//
// JoinCount sums the matches of every join pattern, so a LEFT JOIN
// increments both the LEFT JOIN counter and the bare JOIN counter.
// That double counting is long-standing reported behavior and is kept.
type JoinInfo struct {
	HasJoins     bool
	JoinTypes    []string
	JoinCount    int
	JoinedTables []string
}

// QualifiedField is a table.field pair found by lexical scan. The scan
// is intentionally permissive: it is not scoped to SELECT/WHERE and may
// pick up dotted text that is not a real column reference.
type QualifiedField struct {
	Table string
	Field string
}

// QueryAnalysis is the per-statement report record. It is created fresh
// per analysis call and never mutated afterwards.
type QueryAnalysis struct {
	QueryNumber     int
	Query           string
	CRUDOperation   string
	TablesUsed      []string
	FieldsSelected  []string
	TempTables      []string
	JoinInfo        JoinInfo
	WhereConditions []string
	Subqueries      int
	FunctionsUsed   []string
	Complexity      string
}
