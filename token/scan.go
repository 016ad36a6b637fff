package token

import "strings"

var twoCharOps = map[string]Kind{
	"=>": Arrow,
	"==": Op, "!=": Op, "<=": Op, ">=": Op,
	"**": Op, "//": Op, "<<": Op, ">>": Op, "->": Op,
	"+=": Op, "-=": Op, "*=": Op, "/=": Op, "%=": Op,
	"&=": Op, "|=": Op, "^=": Op,
}

var oneCharOps = map[byte]Kind{
	'(': LParen, ')': RParen,
	'[': LBrack, ']': RBrack,
	'{': LBrace, '}': RBrace,
	',': Comma, '.': Dot, '=': Assign,
	'+': Op, '-': Op, '*': Op, '/': Op, '%': Op,
	'&': Op, '|': Op, '^': Op, '~': Op,
	'<': Op, '>': Op, ':': Op, ';': Op,
}

// Scan tokenizes src. Comments and whitespace are skipped. The returned
// slice always ends with an EOF token positioned at len(src).
func Scan(src string) ([]Token, error) {
	s := &scanner{src: src}
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		s.toks = append(s.toks, tok)
		if tok.Kind == EOF {
			return s.toks, nil
		}
	}
}

type scanner struct {
	src  string
	pos  int
	toks []Token
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) emit(kind Kind, start int) Token {
	return Token{Kind: kind, Text: s.src[start:s.pos], Pos: start, End: s.pos}
}

func (s *scanner) next() (Token, error) {
	s.skipSpace()
	start := s.pos
	if s.pos >= len(s.src) {
		return s.emit(EOF, start), nil
	}
	ch := s.src[s.pos]

	switch {
	case isIdentStart(ch):
		for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
			s.pos++
		}
		if isStringPrefix(s.src[start:s.pos]) && (s.peek(0) == '"' || s.peek(0) == '\'') {
			return s.scanString(start)
		}
		return s.emit(Ident, start), nil
	case isDigit(ch) || (ch == '.' && isDigit(s.peek(1))):
		return s.scanNumber(start), nil
	case ch == '"' || ch == '\'':
		return s.scanString(start)
	}

	if s.pos+1 < len(s.src) {
		if kind, ok := twoCharOps[s.src[s.pos:s.pos+2]]; ok {
			s.pos += 2
			return s.emit(kind, start), nil
		}
	}
	if kind, ok := oneCharOps[ch]; ok {
		s.pos++
		return s.emit(kind, start), nil
	}
	return Token{}, &Error{Offset: start, Msg: "unexpected character " + quoteByte(ch)}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch ch := s.src[s.pos]; {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.pos++
		case ch == '\\' && s.peek(1) == '\n':
			s.pos += 2
		case ch == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *scanner) scanNumber(start int) Token {
	hex := s.src[s.pos] == '0' && (s.peek(1) == 'x' || s.peek(1) == 'X')
	float := false
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch {
		case ch == '.':
			float = true
		case !hex && (ch == 'e' || ch == 'E'):
			float = true
			if n := s.peek(1); n == '+' || n == '-' {
				s.pos++
			}
		case !isIdentPart(ch):
			if float {
				return s.emit(Float, start)
			}
			return s.emit(Int, start)
		}
		s.pos++
	}
	if float {
		return s.emit(Float, start)
	}
	return s.emit(Int, start)
}

func (s *scanner) scanString(start int) (Token, error) {
	quote := s.src[s.pos]
	triple := strings.Repeat(string(quote), 3)
	if strings.HasPrefix(s.src[s.pos:], triple) {
		s.pos += 3
		for s.pos < len(s.src) {
			if s.src[s.pos] == '\\' {
				s.pos += 2
				continue
			}
			if strings.HasPrefix(s.src[s.pos:], triple) {
				s.pos += 3
				return s.emit(String, start), nil
			}
			s.pos++
		}
		return Token{}, &Error{Offset: start, Msg: "unterminated string literal"}
	}

	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '\n':
			return Token{}, &Error{Offset: start, Msg: "unterminated string literal"}
		case quote:
			s.pos++
			return s.emit(String, start), nil
		}
		s.pos++
	}
	return Token{}, &Error{Offset: start, Msg: "unterminated string literal"}
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "b", "rb", "br":
		return true
	}
	return false
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func quoteByte(ch byte) string {
	return "'" + string(rune(ch)) + "'"
}

// IsIdentifier reports whether s is a well-formed identifier.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

var keywords = map[string]bool{
	"and": true, "break": true, "continue": true, "def": true, "elif": true,
	"else": true, "for": true, "if": true, "in": true, "lambda": true,
	"load": true, "not": true, "or": true, "pass": true, "return": true,
	"while": true,
	// reserved for future use
	"as": true, "assert": true, "async": true, "await": true, "class": true,
	"del": true, "except": true, "finally": true, "from": true, "global": true,
	"import": true, "is": true, "nonlocal": true, "raise": true, "try": true,
	"with": true, "yield": true,
}

// IsKeyword reports whether s is a keyword or reserved word.
func IsKeyword(s string) bool { return keywords[s] }

// IsName reports whether s can name a variable: an identifier that is not a
// keyword.
func IsName(s string) bool { return IsIdentifier(s) && !IsKeyword(s) }
