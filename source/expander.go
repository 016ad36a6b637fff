package source

import (
	stderrors "errors"
	"strings"

	"go.starlark.net/syntax"

	"github.com/kbukum/starpipe/errors"
	"github.com/kbukum/starpipe/logger"
	"github.com/kbukum/starpipe/rewrite"
	"github.com/kbukum/starpipe/token"
	"github.com/kbukum/starpipe/validation"
)

// DefaultMarker is the identifier that introduces a call site.
const DefaultMarker = "pipe"

// Site is one expanded call site. Line and Col locate the marker in the
// input file.
type Site struct {
	Line   int
	Col    int
	Input  string
	Output string
}

// Result holds a rewritten file. Sites are listed in expansion order, nested
// sites before the sites enclosing them.
type Result struct {
	Filename string
	Input    string
	Output   string
	Sites    []Site
}

// Changed reports whether any call site was rewritten.
func (r *Result) Changed() bool { return len(r.Sites) > 0 }

// Expander rewrites the call sites of whole files.
type Expander struct {
	rw     *rewrite.Rewriter
	marker string
	verify bool
	log    *logger.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithMarker sets the call-site marker.
func WithMarker(marker string) Option {
	return func(e *Expander) { e.marker = marker }
}

// WithVerify makes Expand parse its output as a Starlark file.
func WithVerify(verify bool) Option {
	return func(e *Expander) { e.verify = verify }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Expander) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Expander that expands pipelines with rw.
func New(rw *rewrite.Rewriter, opts ...Option) (*Expander, error) {
	e := &Expander{rw: rw, marker: DefaultMarker, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	v := validation.New().
		Name("marker", e.marker).
		Distinct("marker", e.marker, "placeholder", rw.Placeholder())
	if err := v.Validate(); err != nil {
		return nil, err
	}
	e.log = e.log.WithComponent("source")
	return e, nil
}

// Expand rewrites every call site in src. filename is used in errors and by
// the verifying parse.
func (e *Expander) Expand(filename, src string) (*Result, error) {
	res := &Result{Filename: filename, Input: src}
	out, err := e.expand(res, src, 0)
	if err != nil {
		return nil, err
	}
	res.Output = out

	if e.verify {
		if _, err := syntax.Parse(filename, out, 0); err != nil {
			return nil, errors.DownstreamSyntax(filename, err)
		}
	}
	e.log.Debug("file expanded", logger.Fields(
		logger.FieldFile, filename,
		logger.FieldSites, len(res.Sites),
		logger.FieldChanged, res.Changed(),
	))
	return res, nil
}

// expand rewrites the call sites of text, which starts at byte offset base
// of res.Input.
func (e *Expander) expand(res *Result, text string, base int) (string, error) {
	toks, err := token.Scan(text)
	if err != nil {
		var te *token.Error
		offset := base
		if stderrors.As(err, &te) {
			offset += te.Offset
		}
		line, col := token.LineCol(res.Input, offset)
		return "", errors.MalformedSource(res.Filename, line, col, err)
	}

	var (
		sb   strings.Builder
		last int
	)
	for i := 0; i < len(toks); i++ {
		if !e.isSite(toks, i) {
			continue
		}
		line, col := token.LineCol(res.Input, base+toks[i].Pos)
		open := i + 1
		end := token.Match(toks, open)
		if end < 0 {
			return "", errors.UnbalancedCallSite(e.marker, line, col).WithDetail("file", res.Filename)
		}

		start := toks[open].End
		body, err := e.expand(res, text[start:toks[end].Pos], base+start)
		if err != nil {
			return "", err
		}
		out, err := e.site(body)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.WithDetails(map[string]any{"file": res.Filename, "site_line": line, "site_col": col})
			}
			return "", err
		}

		res.Sites = append(res.Sites, Site{
			Line:   line,
			Col:    col,
			Input:  text[toks[i].Pos:toks[end].End],
			Output: out,
		})
		sb.WriteString(text[last:toks[i].Pos])
		sb.WriteString(out)
		last = toks[end].End
		i = end
	}
	if last == 0 {
		return text, nil
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}

// site expands the body of one call site. A body without stages stays
// parenthesized so it keeps its grouping.
func (e *Expander) site(body string) (string, error) {
	x, err := e.rw.Expand(body)
	if err != nil {
		return "", err
	}
	if len(x.Pipeline.Stages) == 0 {
		return "(" + x.Output + ")", nil
	}
	return x.Output, nil
}

func (e *Expander) isSite(toks []token.Token, i int) bool {
	if !toks[i].Is(e.marker) || i+1 >= len(toks) || toks[i+1].Kind != token.LParen {
		return false
	}
	if i > 0 && (toks[i-1].Kind == token.Dot || toks[i-1].Is("def")) {
		return false
	}
	return true
}
