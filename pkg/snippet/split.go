package snippet

import "strings"

// statement is one top-level statement of a snippet: a run of source
// lines joined until bracket depth returns to zero.
type statement struct {
	text string // statement source, without trailing newline
	line int    // 1-based line within the block
}

// splitStatements splits a snippet into top-level statements. A
// statement ends at a newline outside of strings, comments, and
// bracket/brace/paren nesting. Blank and comment-only chunks are
// dropped; comments inside a statement are left for the HCL parser.
func splitStatements(src string) []statement {
	var (
		stmts    []statement
		current  strings.Builder
		start    = 1
		line     = 1
		depth    = 0
		inString = false
		comment  = false // line comment, reset at newline
	)

	flush := func() {
		text := current.String()
		current.Reset()
		if !isBlank(text) {
			stmts = append(stmts, statement{text: text, line: start})
		}
		start = line + 1
	}

	for i := 0; i < len(src); i++ {
		c := src[i]

		if c == '\n' {
			comment = false
			if depth == 0 {
				flush()
			} else {
				current.WriteByte(c)
			}
			line++
			continue
		}

		current.WriteByte(c)
		if comment {
			continue
		}

		switch {
		case inString:
			if c == '\\' && i+1 < len(src) {
				// Keep the escaped byte so \" does not end the string.
				i++
				current.WriteByte(src[i])
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '#':
			comment = true
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			comment = true
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		}
	}
	flush()

	return stmts
}

// isBlank reports whether a chunk holds no code: every line is empty
// or a line comment.
func isBlank(text string) bool {
	for _, ln := range strings.Split(text, "\n") {
		t := strings.TrimSpace(ln)
		if t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//") {
			continue
		}
		return false
	}
	return true
}
