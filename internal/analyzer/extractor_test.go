package analyzer_test

import (
	"reflect"
	"testing"

	"sql-remap/internal/analyzer"
)

func TestDetectCRUD(t *testing.T) {
	cases := []struct {
		stmt string
		want string
	}{
		{"SELECT * FROM t", "SELECT"},
		{"  select 1", "SELECT"},
		{"INSERT INTO t VALUES (1)", "INSERT"},
		{"update t set a = 1", "UPDATE"},
		{"DELETE FROM t", "DELETE"},
		{"CREATE TABLE t (id INT)", "CREATE"},
		{"DROP TABLE t", "DROP"},
		{"ALTER TABLE t ADD c INT", "ALTER"},
		{"TRUNCATE TABLE t", "UNKNOWN"},
		{"WITH x AS (SELECT 1) SELECT * FROM x", "UNKNOWN"},
	}

	for _, c := range cases {
		if got := analyzer.DetectCRUD(c.stmt); got != c.want {
			t.Errorf("DetectCRUD(%q) = %q, want %q", c.stmt, got, c.want)
		}
	}
}

func TestExtractTables(t *testing.T) {
	cases := []struct {
		stmt string
		want []string
	}{
		{"SELECT a, b.c FROM t1 JOIN t2 ON t1.id = t2.id", []string{"t1", "t2"}},
		{"INSERT INTO orders (id) VALUES (1)", []string{"orders"}},
		{"UPDATE users SET a = 1", []string{"users"}},
		{"DELETE FROM logs WHERE ts < 10", []string{"logs"}},
		{"SELECT * FROM dbo.users", []string{"dbo.users"}},
		{"SELECT * FROM `orders`", []string{"orders"}},
		{"SELECT * FROM [orders]", []string{"orders"}},
		{"SELECT 1", nil},
	}

	for _, c := range cases {
		if got := analyzer.ExtractTables(c.stmt); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ExtractTables(%q) = %v, want %v", c.stmt, got, c.want)
		}
	}
}

func TestExtractSelectedFields(t *testing.T) {
	got := analyzer.ExtractSelectedFields(
		"SELECT o.id AS order_id, UPPER(c.name) AS cust, qty FROM orders o")
	want := []string{"id", "name", "qty"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected fields %v, got %v", want, got)
	}
}

func TestExtractSelectedFields_Star(t *testing.T) {
	got := analyzer.ExtractSelectedFields("SELECT * FROM t")

	if !reflect.DeepEqual(got, []string{"*"}) {
		t.Errorf("expected [*], got %v", got)
	}
}

func TestExtractSelectedFields_NoFromClause(t *testing.T) {
	if got := analyzer.ExtractSelectedFields("SELECT 1"); got != nil {
		t.Errorf("expected no fields, got %v", got)
	}
}

func TestExtractSelectedFields_TopLevelCommasOnly(t *testing.T) {
	got := analyzer.ExtractSelectedFields("SELECT COALESCE(a, b) AS v, c FROM t")
	want := []string{"a, b", "c"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected fields %v, got %v", want, got)
	}
}

func TestExtractQualifiedPairs_KeepsDuplicates(t *testing.T) {
	got := analyzer.ExtractQualifiedPairs("SELECT o.id, o.id FROM orders o WHERE o.total > 5")

	if len(got) != 3 {
		t.Fatalf("expected 3 pairs, got %d: %v", len(got), got)
	}
	if got[0] != (analyzer.QualifiedField{Table: "o", Field: "id"}) {
		t.Errorf("unexpected first pair: %+v", got[0])
	}
	if got[2] != (analyzer.QualifiedField{Table: "o", Field: "total"}) {
		t.Errorf("unexpected last pair: %+v", got[2])
	}
}

func TestExtractTempTables(t *testing.T) {
	cases := []struct {
		stmt string
		want []string
	}{
		{"CREATE TEMP TABLE tmp_x AS SELECT 1", []string{"tmp_x"}},
		{"CREATE TEMPORARY TABLE scratch (id INT)", []string{"scratch"}},
		{"WITH recent AS (SELECT 1) SELECT * FROM recent", []string{"recent"}},
		{"SELECT * FROM #staging", []string{"staging"}},
		{"SELECT * FROM #staging JOIN #staging ON 1 = 1", []string{"staging"}},
		{"SELECT @@rowcount", []string{"rowcount"}},
		{"SELECT * FROM t", nil},
	}

	for _, c := range cases {
		if got := analyzer.ExtractTempTables(c.stmt); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ExtractTempTables(%q) = %v, want %v", c.stmt, got, c.want)
		}
	}
}

func TestAnalyzeJoins_VariantAlsoCountsAsBareJoin(t *testing.T) {
	info := analyzer.AnalyzeJoins("SELECT * FROM orders o INNER JOIN customers c ON o.cust_id = c.id")

	if !info.HasJoins {
		t.Error("expected HasJoins to be true")
	}
	if info.JoinCount != 2 {
		t.Errorf("expected JoinCount 2 (variant plus bare JOIN), got %d", info.JoinCount)
	}
	if !reflect.DeepEqual(info.JoinTypes, []string{"INNER JOIN", "JOIN"}) {
		t.Errorf("unexpected join types: %v", info.JoinTypes)
	}
	if !reflect.DeepEqual(info.JoinedTables, []string{"customers"}) {
		t.Errorf("unexpected joined tables: %v", info.JoinedTables)
	}
}

func TestAnalyzeJoins_LeftOuterJoin(t *testing.T) {
	info := analyzer.AnalyzeJoins("SELECT * FROM a LEFT OUTER JOIN b ON a.x = b.x")

	if !reflect.DeepEqual(info.JoinTypes, []string{"LEFT JOIN", "JOIN"}) {
		t.Errorf("unexpected join types: %v", info.JoinTypes)
	}
	if info.JoinCount != 2 {
		t.Errorf("expected JoinCount 2, got %d", info.JoinCount)
	}
}

func TestAnalyzeJoins_NoJoins(t *testing.T) {
	info := analyzer.AnalyzeJoins("SELECT * FROM t")

	if info.HasJoins || info.JoinCount != 0 {
		t.Errorf("expected empty join info, got %+v", info)
	}
}

func TestExtractWhereConditions(t *testing.T) {
	got := analyzer.ExtractWhereConditions(
		"SELECT * FROM t WHERE a = 1 AND b = 2 OR c = 3 ORDER BY a")
	want := []string{"a = 1", "b = 2", "c = 3"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected conditions %v, got %v", want, got)
	}
}

func TestExtractWhereConditions_NoWhereClause(t *testing.T) {
	if got := analyzer.ExtractWhereConditions("SELECT * FROM t"); got != nil {
		t.Errorf("expected no conditions, got %v", got)
	}
}

func TestCountSubqueries(t *testing.T) {
	cases := []struct {
		stmt string
		want int
	}{
		{"SELECT * FROM (SELECT id FROM t) x", 1},
		{"SELECT * FROM t WHERE a IN (SELECT a FROM u) AND b IN (SELECT b FROM v)", 2},
		{"SELECT * FROM t", 0},
		{"UPDATE t SET a = 1", 0},
	}

	for _, c := range cases {
		if got := analyzer.CountSubqueries(c.stmt); got != c.want {
			t.Errorf("CountSubqueries(%q) = %d, want %d", c.stmt, got, c.want)
		}
	}
}

func TestExtractFunctions(t *testing.T) {
	got := analyzer.ExtractFunctions(
		"SELECT COUNT(id), UPPER(name) FROM t WHERE LENGTH(name) > 5")
	want := []string{"COUNT", "UPPER", "LENGTH"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected functions %v, got %v", want, got)
	}
}

func TestExtractFunctions_ExcludesStatementKeywords(t *testing.T) {
	if got := analyzer.ExtractFunctions("SELECT (1)"); got != nil {
		t.Errorf("expected no functions, got %v", got)
	}
}

func TestExtractFunctions_Dedupes(t *testing.T) {
	got := analyzer.ExtractFunctions("SELECT count(a), COUNT(b) FROM t")

	if !reflect.DeepEqual(got, []string{"COUNT"}) {
		t.Errorf("expected [COUNT], got %v", got)
	}
}

func TestExtractTablesAndFields(t *testing.T) {
	tables, fields := analyzer.ExtractTablesAndFields(
		"SELECT a, b.c, * FROM t1 JOIN t2 ON t1.x = t2.y")

	if !reflect.DeepEqual(tables, []string{"t1", "t2"}) {
		t.Errorf("expected tables [t1 t2], got %v", tables)
	}
	if !reflect.DeepEqual(fields, []string{"a", "c"}) {
		t.Errorf("expected fields [a c] with * excluded, got %v", fields)
	}
}
