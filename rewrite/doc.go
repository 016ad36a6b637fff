// Package rewrite expands pipeline expressions into nested Starlark calls.
//
// A pipeline is an initial expression followed by stages joined with the
// "=>" connective. Each stage is classified into one of four shapes, tried in
// order:
//
//	f, a.b.f, f()          unary path          f(x)
//	g(a, _, b)             named call          (lambda __pipe0: g(a, __pipe0, b))(x)
//	(c)(_, _)              paren call          (lambda __pipe0: c(__pipe0, __pipe0))(x)
//	lambda v: v * 2        bare expression     (lambda v: v * 2)(x)
//
// Placeholder-bearing stages bind the running value to a temporary once, so
// the value is evaluated a single time however many slots it fills. A call
// with no placeholder is a bare expression: g(4) applies as g(4)(x).
//
// # Usage
//
//	out, err := rewrite.Expand("3 => inc => pair(_, 4)")
//	// out == "(lambda __pipe0: pair(__pipe0, 4))(inc(3))"
//
// A Rewriter holds the placeholder and temporary naming options and is safe
// for concurrent use.
package rewrite
