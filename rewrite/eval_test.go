package rewrite

import (
	"fmt"
	"strings"
	"testing"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

const prelude = `
def inc(x):
    return x + 1

def toFloat(x):
    return float(x)

def pair(a, b):
    return (a, b)

def triple(a, b, c):
    return (a, b, c)

def add(a, b):
    return a + b

def double(x):
    return x * 2

def scale(x, factor = 1):
    return x * factor

def adder(n):
    return lambda x: x + n

# partial application collaborator: bind(f, a)(b) == f(a, b)
def bind(f, *bound):
    return lambda *rest: f(*(bound + rest))

ns = struct(inc = inc, pair = pair, inner = struct(pair = pair))
`

// host evaluates emitted expressions against the prelude. dec counts its
// calls and trace records the order of evaluation.
type host struct {
	env   starlark.StringDict
	decs  int
	trace []string
}

func newHost(t *testing.T) *host {
	t.Helper()
	h := &host{}
	predeclared := starlark.StringDict{
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
		"dec": starlark.NewBuiltin("dec", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var x int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
				return nil, err
			}
			h.decs++
			return starlark.MakeInt(x - 1), nil
		}),
		"trace": starlark.NewBuiltin("trace", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var label string
			var v starlark.Value
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &label, &v); err != nil {
				return nil, err
			}
			h.trace = append(h.trace, label)
			return v, nil
		}),
	}
	globals, err := starlark.ExecFile(&starlark.Thread{Name: "prelude"}, "prelude.star", prelude, predeclared)
	if err != nil {
		t.Fatalf("prelude: %v", err)
	}
	h.env = starlark.StringDict{}
	for k, v := range predeclared {
		h.env[k] = v
	}
	for k, v := range globals {
		h.env[k] = v
	}
	return h
}

func (h *host) eval(t *testing.T, expr string) starlark.Value {
	t.Helper()
	v, err := starlark.Eval(&starlark.Thread{Name: "eval"}, "expr.star", expr, h.env)
	if err != nil {
		t.Fatalf("eval %q: %v", expr, err)
	}
	return v
}

func (h *host) expand(t *testing.T, src string) starlark.Value {
	t.Helper()
	out, err := Expand(src)
	if err != nil {
		t.Fatalf("expand %q: %v", src, err)
	}
	return h.eval(t, out)
}

func TestEval_Scenarios(t *testing.T) {
	tests := []struct {
		src  string
		want string
		decs int
	}{
		{"3 => inc => toFloat", "4.0", 0},
		{"2 => dec => pair(_, 4)", "(1, 4)", 1},
		{"2 => dec => pair(4, _)", "(4, 1)", 1},
		{"2 => dec => pair(_, _)", "(1, 1)", 1},
		{"5 => (lambda x: x * 2)", "10", 0},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			h := newHost(t)
			got := h.expand(t, tc.src)
			if got.String() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
			if h.decs != tc.decs {
				t.Errorf("expected dec to run %d times, got %d", tc.decs, h.decs)
			}
		})
	}
}

func TestEval_SingleEvaluation(t *testing.T) {
	h := newHost(t)
	got := h.expand(t, "10 => dec => triple(_, _, _) => pair(_, _)")
	if want := "((9, 9, 9), (9, 9, 9))"; got.String() != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if h.decs != 1 {
		t.Errorf("expected dec to run once, got %d", h.decs)
	}
}

func TestEval_ArgumentOrder(t *testing.T) {
	h := newHost(t)
	got := h.expand(t, `trace("carrier", 1) => triple(trace("a", 0), _, trace("b", 2))`)
	if want := "(0, 1, 2)"; got.String() != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if order := strings.Join(h.trace, ","); order != "carrier,a,b" {
		t.Errorf("expected evaluation order carrier,a,b, got %s", order)
	}
}

func TestEval_StageOrder(t *testing.T) {
	h := newHost(t)
	h.expand(t, `0 => trace("s1", _) => trace("s2", _) => (lambda v: trace("s3", v))`)
	if order := strings.Join(h.trace, ","); order != "s1,s2,s3" {
		t.Errorf("expected stages to run in order, got %s", order)
	}
}

func TestEval_QualifiedNames(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2 => ns.inc", "3"},
		{"2 => ns.inc()", "3"},
		{"2 => ns.pair(_, 9)", "(2, 9)"},
		{"2 => ns.inner.pair(9, _)", "(9, 2)"},
		{"2 => (ns.inner.pair)(_, _)", "(2, 2)"},
	}
	h := newHost(t)
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			if got := h.expand(t, tc.src); got.String() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEval_BareExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"5 => lambda x: x * 2", "10"},
		{"1 => adder(4)", "5"},
		{"3 => bind(add, 10)", "13"},
		{"4 => scale(3, factor=_)", "12"},
		{"1, 2 => len", "2"},
		{"2 => [inc, double][1]", "4"},
		{"2 => (lambda a, b: a - b)(_, 5)", "-3"},
		{"2 => pair(_, 4,)", "(2, 4)"},
	}
	h := newHost(t)
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			if got := h.expand(t, tc.src); got.String() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEval_TempHygiene(t *testing.T) {
	h := newHost(t)
	h.env["__pipe0"] = starlark.MakeInt(7)
	if got := h.expand(t, "1 => pair(_, __pipe0)"); got.String() != "(1, 7)" {
		t.Errorf("expected (1, 7), got %s", got)
	}
}

// Nested calls and pipelines agree for every chain of unary functions.
func TestEval_Equivalence(t *testing.T) {
	fns := []string{"inc", "dec", "double", "ns.inc"}
	h := newHost(t)
	for k := 1; k <= 5; k++ {
		for start := 0; start < len(fns); start++ {
			pipeline := "3"
			nested := "3"
			for i := 0; i < k; i++ {
				f := fns[(start+i)%len(fns)]
				pipeline += " => " + f
				nested = fmt.Sprintf("%s(%s)", f, nested)
			}
			got := h.expand(t, pipeline)
			want := h.eval(t, nested)
			if eq, err := starlark.Equal(got, want); err != nil || !eq {
				t.Errorf("%s: expected %s, got %s", pipeline, want, got)
			}
		}
	}
}
