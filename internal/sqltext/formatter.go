package sqltext

import (
	"regexp"
	"strings"
)

// Keywords that get uppercased during formatting. Identifier text and
// string literals are never touched.
var keywordPattern = regexp.MustCompile(`(?i)\b(select|from|where|group|order|by|having|limit|offset|join|inner|left|right|full|outer|cross|on|as|and|or|not|in|is|null|like|between|exists|union|all|distinct|insert|into|values|update|set|delete|create|table|drop|alter|with|case|when|then|else|end|asc|desc|temp|temporary)\b`)

var spacePattern = regexp.MustCompile(`\s+`)

// Clause phrases that start a new line in canonical form. Longest first
// so compound phrases win over their suffixes.
var clausePhrases = []string{
	"LEFT OUTER JOIN",
	"RIGHT OUTER JOIN",
	"FULL OUTER JOIN",
	"INNER JOIN",
	"LEFT JOIN",
	"RIGHT JOIN",
	"FULL JOIN",
	"CROSS JOIN",
	"UNION ALL",
	"GROUP BY",
	"ORDER BY",
	"HAVING",
	"VALUES",
	"WHERE",
	"UNION",
	"LIMIT",
	"FROM",
	"JOIN",
	"SET",
}

// Format renders a single statement in canonical form: whitespace
// collapsed, SQL keywords uppercased, and a line break before each
// top-level clause. String literals and quoted identifiers pass through
// untouched.
func Format(stmt string) string {
	var b strings.Builder
	for _, seg := range splitLiterals(stmt) {
		if seg.literal {
			b.WriteString(seg.text)
			continue
		}
		text := spacePattern.ReplaceAllString(seg.text, " ")
		text = keywordPattern.ReplaceAllStringFunc(text, strings.ToUpper)
		b.WriteString(text)
	}
	return breakClauses(strings.TrimSpace(b.String()))
}

// MapCode applies fn to the code portions of a statement, leaving
// single-quoted string literals and comments untouched. Quoted
// identifiers (double quotes, backticks, brackets) stay in the code
// portions so identifier-rewriting patterns can still see them.
func MapCode(stmt string, fn func(string) string) string {
	var b strings.Builder
	var code strings.Builder

	flushCode := func() {
		if code.Len() > 0 {
			b.WriteString(fn(code.String()))
			code.Reset()
		}
	}

	runes := []rune(stmt)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case ch == '\'':
			flushCode()
			b.WriteRune(ch)
			for i++; i < len(runes); i++ {
				b.WriteRune(runes[i])
				if runes[i] == '\'' {
					if i+1 < len(runes) && runes[i+1] == '\'' {
						i++
						b.WriteRune(runes[i])
						continue
					}
					break
				}
			}
		case ch == '-' && next == '-':
			flushCode()
			for ; i < len(runes) && runes[i] != '\n'; i++ {
				b.WriteRune(runes[i])
			}
			if i < len(runes) {
				b.WriteRune('\n')
			}
		case ch == '/' && next == '*':
			flushCode()
			b.WriteRune(ch)
			b.WriteRune(next)
			for i += 2; i < len(runes); i++ {
				b.WriteRune(runes[i])
				if runes[i] == '/' && runes[i-1] == '*' {
					break
				}
			}
		default:
			code.WriteRune(ch)
		}
	}
	flushCode()

	return b.String()
}

type segment struct {
	text    string
	literal bool
}

// splitLiterals slices a statement into alternating code and literal
// segments. Literals cover quoted strings, quoted/bracketed identifiers
// and comments.
func splitLiterals(stmt string) []segment {
	var segments []segment
	var current strings.Builder

	flush := func(literal bool) {
		if current.Len() > 0 {
			segments = append(segments, segment{text: current.String(), literal: literal})
			current.Reset()
		}
	}

	runes := []rune(stmt)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			flush(false)
			current.WriteRune(ch)
			for i++; i < len(runes); i++ {
				current.WriteRune(runes[i])
				if runes[i] == ch {
					if i+1 < len(runes) && runes[i+1] == ch {
						i++
						current.WriteRune(runes[i])
						continue
					}
					break
				}
			}
			flush(true)
		case ch == '[':
			flush(false)
			current.WriteRune(ch)
			for i++; i < len(runes); i++ {
				current.WriteRune(runes[i])
				if runes[i] == ']' {
					break
				}
			}
			flush(true)
		case ch == '-' && next == '-':
			flush(false)
			for ; i < len(runes) && runes[i] != '\n'; i++ {
				current.WriteRune(runes[i])
			}
			flush(true)
			if i < len(runes) {
				current.WriteRune('\n')
			}
		case ch == '/' && next == '*':
			flush(false)
			current.WriteRune(ch)
			current.WriteRune(next)
			for i += 2; i < len(runes); i++ {
				current.WriteRune(runes[i])
				if runes[i] == '/' && runes[i-1] == '*' {
					break
				}
			}
			flush(true)
		default:
			current.WriteRune(ch)
		}
	}
	flush(false)

	return segments
}

// breakClauses inserts a newline before every top-level clause keyword.
// Text inside parentheses, strings and quoted identifiers stays on its
// line.
func breakClauses(stmt string) string {
	var b strings.Builder
	depth := 0
	var quote byte
	inBracket := false

	for i := 0; i < len(stmt); i++ {
		ch := stmt[i]

		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '[':
			inBracket = true
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == ' ' && depth == 0 && i > 0:
			if phrase, ok := clauseAt(stmt[i+1:]); ok {
				b.WriteByte('\n')
				b.WriteString(phrase)
				i += len(phrase)
				continue
			}
		}

		b.WriteByte(ch)
	}

	return b.String()
}

func clauseAt(rest string) (string, bool) {
	for _, phrase := range clausePhrases {
		if !strings.HasPrefix(rest, phrase) {
			continue
		}
		if len(rest) == len(phrase) || !isWordByte(rest[len(phrase)]) {
			return phrase, true
		}
	}
	return "", false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
