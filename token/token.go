package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	String
	Arrow
	LParen
	RParen
	LBrack
	RBrack
	LBrace
	RBrace
	Comma
	Dot
	Assign
	Op
)

var kindNames = [...]string{
	EOF:    "EOF",
	Ident:  "identifier",
	Int:    "int",
	Float:  "float",
	String: "string",
	Arrow:  "=>",
	LParen: "(",
	RParen: ")",
	LBrack: "[",
	RBrack: "]",
	LBrace: "{",
	RBrace: "}",
	Comma:  ",",
	Dot:    ".",
	Assign: "=",
	Op:     "operator",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Opens reports whether k is an opening bracket.
func (k Kind) Opens() bool { return k == LParen || k == LBrack || k == LBrace }

// Closes reports whether k is a closing bracket.
func (k Kind) Closes() bool { return k == RParen || k == RBrack || k == RBrace }

func closerOf(k Kind) Kind {
	switch k {
	case LParen:
		return RParen
	case LBrack:
		return RBrack
	case LBrace:
		return RBrace
	}
	return EOF
}

// Token is a lexical token. Pos and End are byte offsets into the scanned
// source; Text is src[Pos:End].
type Token struct {
	Kind Kind
	Text string
	Pos  int
	End  int
}

// Is reports whether the token is an identifier spelled name.
func (t Token) Is(name string) bool { return t.Kind == Ident && t.Text == name }

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d", t.Kind, t.Text, t.Pos)
}

// Error reports a lexical or bracket-structure problem at a byte offset.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}
