package sqltext

import (
	"fmt"
	"strings"
)

// ParseError is returned when the raw input cannot be tokenized into
// statements at all (e.g. an unterminated string literal).
type ParseError struct {
	Cause string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse SQL: %s", e.Cause)
}

// Split breaks raw SQL text into individual statements on terminating
// semicolons. Semicolons inside string literals, quoted identifiers,
// bracketed identifiers and comments do not split. Whitespace-only
// fragments are dropped, so non-empty input always yields at least one
// statement. The terminating semicolons themselves are not kept.
func Split(text string) ([]string, error) {
	var statements []string
	var current strings.Builder

	var quote rune // active quote char: ' " or backtick
	inBracket := false
	inLineComment := false
	inBlockComment := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case inLineComment:
			if ch == '\n' {
				inLineComment = false
			}
		case inBlockComment:
			if ch == '*' && next == '/' {
				inBlockComment = false
				current.WriteRune(ch)
				current.WriteRune(next)
				i++
				continue
			}
		case quote != 0:
			if ch == quote {
				// A doubled quote is an escape, not a terminator.
				if next == quote {
					current.WriteRune(ch)
					current.WriteRune(next)
					i++
					continue
				}
				quote = 0
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		default:
			switch {
			case ch == '-' && next == '-':
				inLineComment = true
			case ch == '/' && next == '*':
				inBlockComment = true
			case ch == '\'' || ch == '"' || ch == '`':
				quote = ch
			case ch == '[':
				inBracket = true
			case ch == ';':
				if stmt := strings.TrimSpace(current.String()); stmt != "" {
					statements = append(statements, stmt)
				}
				current.Reset()
				continue
			}
		}

		current.WriteRune(ch)
	}

	if quote != 0 {
		return nil, &ParseError{Cause: fmt.Sprintf("unterminated %q string literal", quote)}
	}
	if inBracket {
		return nil, &ParseError{Cause: "unterminated bracketed identifier"}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements, nil
}

// SplitTopLevel splits on sep at parenthesis depth zero, outside quoted
// text. SELECT clause items split this way keep their function
// arguments intact.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	var quote byte

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == sep && depth == 0:
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(ch)
	}
	parts = append(parts, current.String())

	return parts
}
