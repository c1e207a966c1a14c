package analyzer

import "regexp"

// Complexity labels. The score behind them is a heuristic severity
// scale, not a cost estimate.
const (
	ComplexitySimple  = "Simple"
	ComplexityMedium  = "Medium"
	ComplexityComplex = "Complex"
)

var (
	joinWordPattern = regexp.MustCompile(`(?i)\bJOIN\b`)
	unionPattern    = regexp.MustCompile(`(?i)\bUNION\b`)
	groupByPattern  = regexp.MustCompile(`(?i)\bGROUP\s+BY\b`)
	orderByPattern  = regexp.MustCompile(`(?i)\bORDER\s+BY\b`)
	havingPattern   = regexp.MustCompile(`(?i)\bHAVING\b`)
)

// Classify derives the complexity label of one statement from a fixed
// weighted feature score: joins +2, subqueries +3, UNION +2, GROUP BY
// +1, ORDER BY +1, HAVING +2, plus the distinct table count.
// Thresholds: <=2 Simple, 3-5 Medium, >=6 Complex.
func Classify(stmt string) string {
	score := 0

	if joinWordPattern.MatchString(stmt) {
		score += 2
	}
	if CountSubqueries(stmt) > 0 {
		score += 3
	}
	if unionPattern.MatchString(stmt) {
		score += 2
	}
	if groupByPattern.MatchString(stmt) {
		score += 1
	}
	if orderByPattern.MatchString(stmt) {
		score += 1
	}
	if havingPattern.MatchString(stmt) {
		score += 2
	}
	score += len(ExtractTables(stmt))

	switch {
	case score <= 2:
		return ComplexitySimple
	case score <= 5:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}
