package rewrite

import (
	stderrors "errors"
	"fmt"

	"go.starlark.net/syntax"

	"github.com/kbukum/starpipe/logger"
	"github.com/kbukum/starpipe/token"
)

// fragmentFile names pipeline fragments in host parser messages.
const fragmentFile = "<pipeline>"

// Parse splits src on depth-0 "=>" connectives and classifies every stage.
// Each fragment must be a valid Starlark expression; otherwise Parse returns
// a NO_MATCHING_STAGE_SHAPE error carrying the stage index and position.
func (r *Rewriter) Parse(src string) (*Pipeline, error) {
	toks, err := token.Scan(src)
	if err != nil {
		return nil, noShape(src, 0, errOffset(err), "malformed pipeline", err)
	}
	body := toks[:len(toks)-1] // EOF
	if err := token.Balance(body); err != nil {
		return nil, noShape(src, 0, errOffset(err), "unbalanced brackets", err)
	}

	p := &Pipeline{Source: src, idents: make(map[string]bool)}
	var arrows []token.Token
	depth := 0
	for _, t := range body {
		switch {
		case t.Kind == token.Ident:
			p.idents[t.Text] = true
		case t.Kind.Opens():
			depth++
		case t.Kind.Closes():
			depth--
		case t.Kind == token.Arrow && depth == 0:
			arrows = append(arrows, t)
		}
	}

	for i, part := range token.Split(body, token.Arrow) {
		if len(part) == 0 {
			return nil, emptyFragment(src, i, arrows)
		}
		if i == 0 {
			if p.Init, err = r.expr(src, part, 0); err != nil {
				return nil, err
			}
			continue
		}
		s, err := r.classify(src, part, i)
		if err != nil {
			return nil, err
		}
		r.log.Debug("stage classified", logger.Fields(
			logger.FieldStage, i,
			logger.FieldShape, s.Kind().String(),
		))
		p.Stages = append(p.Stages, s)
	}
	return p, nil
}

func emptyFragment(src string, i int, arrows []token.Token) error {
	switch {
	case len(arrows) == 0:
		return noShape(src, 0, 0, "empty pipeline", nil)
	case i == 0:
		return noShape(src, 0, arrows[0].Pos, "missing initial expression", nil)
	default:
		return noShape(src, i, arrows[i-1].End, fmt.Sprintf("stage %d is empty", i), nil)
	}
}

func errOffset(err error) int {
	var te *token.Error
	if stderrors.As(err, &te) {
		return te.Offset
	}
	return 0
}

// expr validates a fragment with the host parser.
func (r *Rewriter) expr(src string, toks []token.Token, stage int) (Expr, error) {
	text := token.Text(src, toks)
	offset := toks[0].Pos
	e, err := syntax.ParseExpr(fragmentFile, text, 0)
	if err != nil {
		what := "initial expression"
		if stage > 0 {
			what = fmt.Sprintf("stage %d", stage)
		}
		return Expr{}, noShape(src, stage, offset, what+" is not a Starlark expression", err)
	}
	return Expr{
		Span:    Span{Text: text, Offset: offset},
		Primary: isPrimary(e),
		Tuple:   isBareTuple(e),
	}, nil
}

// classify tries the stage shapes in precedence order.
func (r *Rewriter) classify(src string, toks []token.Token, stage int) (Stage, error) {
	x, err := r.expr(src, toks, stage)
	if err != nil {
		return nil, err
	}

	if n := pathLen(toks); n > 0 {
		path := pathOf(toks[:n])
		rest := toks[n:]
		switch {
		case len(rest) == 0:
			return &UnaryPath{Span: x.Span, Path: path}, nil
		case len(rest) == 2 && rest[0].Kind == token.LParen && rest[1].Kind == token.RParen:
			return &UnaryPath{Span: x.Span, Path: path, EmptyCall: true}, nil
		}
		if args, ok := r.callArgs(src, rest); ok {
			return &NamedCall{Span: x.Span, Callee: path, Args: args}, nil
		}
	}

	if toks[0].Kind == token.LParen {
		if end := token.Match(toks, 0); end > 1 && end < len(toks)-1 {
			if args, ok := r.callArgs(src, toks[end+1:]); ok {
				callee, err := r.expr(src, toks[1:end], stage)
				if err == nil {
					return &ParenCall{Span: x.Span, Callee: callee, Args: args}, nil
				}
			}
		}
	}

	return &BareExpr{X: x}, nil
}

// pathLen returns the number of leading tokens forming name ("." name)*.
func pathLen(toks []token.Token) int {
	n := 0
	for n < len(toks) && toks[n].Kind == token.Ident && token.IsName(toks[n].Text) {
		n++
		if n+1 < len(toks) && toks[n].Kind == token.Dot && toks[n+1].Kind == token.Ident {
			n++
			continue
		}
		break
	}
	if n > 0 && toks[n-1].Kind != token.Ident {
		n--
	}
	return n
}

func pathOf(toks []token.Token) Path {
	var p Path
	for _, t := range toks {
		if t.Kind == token.Ident {
			p = append(p, t.Text)
		}
	}
	return p
}

// callArgs reports the arguments of toks when it is exactly one
// parenthesized, non-empty argument list holding at least one placeholder.
func (r *Rewriter) callArgs(src string, toks []token.Token) ([]Arg, bool) {
	if len(toks) < 3 || toks[0].Kind != token.LParen || token.Match(toks, 0) != len(toks)-1 {
		return nil, false
	}
	groups := token.Split(toks[1:len(toks)-1], token.Comma)
	if last := len(groups) - 1; last > 0 && len(groups[last]) == 0 {
		groups = groups[:last]
	}

	args := make([]Arg, 0, len(groups))
	placeholders := 0
	for _, g := range groups {
		if len(g) == 0 {
			return nil, false
		}
		a := r.arg(src, g)
		if a.Placeholder {
			placeholders++
		}
		args = append(args, a)
	}
	return args, placeholders > 0
}

func (r *Rewriter) arg(src string, g []token.Token) Arg {
	switch {
	case len(g) == 1 && g[0].Is(r.placeholder):
		return Arg{Placeholder: true}
	case len(g) == 3 && g[0].Kind == token.Ident && g[1].Kind == token.Assign && g[2].Is(r.placeholder):
		return Arg{Keyword: g[0].Text, Placeholder: true}
	}
	return Arg{Text: token.Text(src, g)}
}

// isPrimary reports whether e can be followed directly by a call suffix.
func isPrimary(e syntax.Expr) bool {
	switch e := e.(type) {
	case *syntax.Ident, *syntax.DotExpr, *syntax.CallExpr, *syntax.IndexExpr,
		*syntax.SliceExpr, *syntax.ParenExpr, *syntax.ListExpr, *syntax.DictExpr,
		*syntax.Comprehension, *syntax.Literal:
		return true
	case *syntax.TupleExpr:
		return e.Lparen.IsValid()
	}
	return false
}

func isBareTuple(e syntax.Expr) bool {
	t, ok := e.(*syntax.TupleExpr)
	return ok && !t.Lparen.IsValid()
}
