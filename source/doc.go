// Package source expands pipeline call sites in Starlark files.
//
// A call site is the marker identifier (pipe by default) followed by a
// parenthesized pipeline:
//
//	result = pipe(items => sorted => first(_, 3))
//
// becomes
//
//	result = (lambda __pipe0: first(__pipe0, 3))(sorted(items))
//
// Nested call sites are expanded innermost first. Markers inside strings and
// comments, attribute accesses (x.pipe(...)) and definitions (def pipe(...))
// are left alone.
package source
