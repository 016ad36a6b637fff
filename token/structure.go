package token

import (
	"strings"
	"unicode/utf8"
)

// Balance checks that every bracket in toks is closed by the matching kind
// and that no closer appears without an opener.
func Balance(toks []Token) error {
	var stack []Token
	for _, t := range toks {
		switch {
		case t.Kind.Opens():
			stack = append(stack, t)
		case t.Kind.Closes():
			if len(stack) == 0 {
				return &Error{Offset: t.Pos, Msg: "unexpected " + t.Text}
			}
			open := stack[len(stack)-1]
			if closerOf(open.Kind) != t.Kind {
				return &Error{Offset: t.Pos, Msg: "mismatched " + t.Text + " for " + open.Text}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return &Error{Offset: open.Pos, Msg: "unclosed " + open.Text}
	}
	return nil
}

// Match returns the index of the bracket closing the opener at toks[i], or
// -1 when it is not closed within toks.
func Match(toks []Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch {
		case toks[j].Kind.Opens():
			depth++
		case toks[j].Kind.Closes():
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// Split cuts toks at every depth-0 token of kind sep. The separators are
// dropped; n separators always yield n+1 groups, possibly empty.
func Split(toks []Token, sep Kind) [][]Token {
	var (
		groups [][]Token
		depth  int
		start  int
	)
	for i, t := range toks {
		switch {
		case t.Kind.Opens():
			depth++
		case t.Kind.Closes():
			depth--
		case t.Kind == sep && depth == 0:
			groups = append(groups, toks[start:i])
			start = i + 1
		}
	}
	return append(groups, toks[start:])
}

// Text renders the source covered by toks. Gaps between tokens are copied
// from src, except that a depth-0 gap holding a newline or comment collapses
// to one space, so the result can be spliced onto a single logical line.
func Text(src string, toks []Token) string {
	if len(toks) == 0 {
		return ""
	}
	var (
		sb    strings.Builder
		depth int
	)
	for i, t := range toks {
		if i > 0 {
			gap := src[toks[i-1].End:t.Pos]
			if depth == 0 && strings.ContainsAny(gap, "\n#") {
				gap = " "
			}
			sb.WriteString(gap)
		}
		sb.WriteString(t.Text)
		switch {
		case t.Kind.Opens():
			depth++
		case t.Kind.Closes():
			depth--
		}
	}
	return sb.String()
}

// LineCol converts a byte offset in src to a 1-based line and column. The
// column counts runes.
func LineCol(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	line = strings.Count(src[:offset], "\n") + 1
	col = utf8.RuneCountInString(src[lineStart:offset]) + 1
	return line, col
}
