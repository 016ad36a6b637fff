// Package token scans the Starlark surface syntax that pipeline expressions
// are written in.
//
// The scanner is deliberately shallow: it produces identifiers, literals,
// brackets, commas, dots and operators with their byte offsets, and knows the
// pipeline connective "=>". Grammar is left to the Starlark parser; the
// scanner exists so callers can find depth-0 structure (connectives, argument
// separators, call sites) without re-implementing string and comment rules.
//
// # Usage
//
//	toks, err := token.Scan(`x => f => g(_, "a=>b")`)
//	stages := token.Split(toks[:len(toks)-1], token.Arrow)
package token
