package rewrite

import (
	"fmt"
	"strings"
)

// Kind names a stage shape.
type Kind int

const (
	KindUnaryPath Kind = iota + 1
	KindNamedCall
	KindParenCall
	KindBareExpr
)

func (k Kind) String() string {
	switch k {
	case KindUnaryPath:
		return "unary-path"
	case KindNamedCall:
		return "named-call"
	case KindParenCall:
		return "paren-call"
	case KindBareExpr:
		return "bare-expr"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Span is a fragment of the pipeline source. Offset is the byte offset of the
// fragment's first token.
type Span struct {
	Text   string
	Offset int
}

// Path is a dotted name such as a.b.f.
type Path []string

func (p Path) String() string { return strings.Join(p, ".") }

// Expr is an expression fragment with the properties generation needs.
type Expr struct {
	Span
	// Primary reports whether the expression can be called without
	// surrounding parentheses.
	Primary bool
	// Tuple reports an unparenthesized tuple, which must be wrapped before it
	// is passed as a single argument.
	Tuple bool
}

// Arg is one argument of a placeholder-bearing call.
type Arg struct {
	// Text is the argument as written. It is empty for placeholders.
	Text string
	// Keyword is the parameter name of a name=_ placeholder.
	Keyword string
	// Placeholder reports whether the argument receives the running value.
	Placeholder bool
}

// Stage is one of *UnaryPath, *NamedCall, *ParenCall or *BareExpr.
type Stage interface {
	Kind() Kind
	Source() Span
	stage()
}

// UnaryPath applies a dotted name to the running value: f, a.b.f or f().
type UnaryPath struct {
	Span
	Path Path
	// EmptyCall records the optional trailing ().
	EmptyCall bool
}

// NamedCall calls a dotted name with explicit arguments, at least one of which
// is a placeholder.
type NamedCall struct {
	Span
	Callee Path
	Args   []Arg
}

// ParenCall calls a parenthesized expression with explicit arguments, at least
// one of which is a placeholder. Callee excludes the parentheses.
type ParenCall struct {
	Span
	Callee Expr
	Args   []Arg
}

// BareExpr applies an arbitrary expression to the running value.
type BareExpr struct {
	X Expr
}

func (*UnaryPath) Kind() Kind { return KindUnaryPath }
func (*NamedCall) Kind() Kind { return KindNamedCall }
func (*ParenCall) Kind() Kind { return KindParenCall }
func (*BareExpr) Kind() Kind  { return KindBareExpr }

func (s *UnaryPath) Source() Span { return s.Span }
func (s *NamedCall) Source() Span { return s.Span }
func (s *ParenCall) Source() Span { return s.Span }
func (s *BareExpr) Source() Span  { return s.X.Span }

func (*UnaryPath) stage() {}
func (*NamedCall) stage() {}
func (*ParenCall) stage() {}
func (*BareExpr) stage()  {}

// Callee returns the callable a stage applies, as written.
func Callee(s Stage) string {
	switch s := s.(type) {
	case *UnaryPath:
		return s.Path.String()
	case *NamedCall:
		return s.Callee.String()
	case *ParenCall:
		return s.Callee.Text
	case *BareExpr:
		return s.X.Text
	}
	return ""
}

// Placeholders returns the number of placeholder slots in a stage.
func Placeholders(s Stage) int {
	var args []Arg
	switch s := s.(type) {
	case *NamedCall:
		args = s.Args
	case *ParenCall:
		args = s.Args
	}
	n := 0
	for _, a := range args {
		if a.Placeholder {
			n++
		}
	}
	return n
}

// Pipeline is a parsed pipeline expression.
type Pipeline struct {
	Source string
	Init   Expr
	Stages []Stage

	// identifiers appearing anywhere in Source, avoided when naming temporaries
	idents map[string]bool
}
