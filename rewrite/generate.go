package rewrite

import (
	"strconv"
	"strings"
)

// Step records the text produced by one stage.
type Step struct {
	Stage Stage
	// Temp is the temporary bound for a placeholder stage, or "".
	Temp string
	// Output is the running value after the stage.
	Output string
}

// Expansion is the result of generating a pipeline.
type Expansion struct {
	Output   string
	Pipeline *Pipeline
	// Temps lists the temporaries introduced, in stage order.
	Temps []string
	Steps []Step
}

// Generate folds the stages left to right, each stage's output becoming the
// carrier of the next. A pipeline without stages yields its initial
// expression unchanged.
func (r *Rewriter) Generate(p *Pipeline) *Expansion {
	x := &Expansion{Pipeline: p}
	carrier := p.Init.Text
	if p.Init.Tuple && len(p.Stages) > 0 {
		carrier = "(" + carrier + ")"
	}

	names := &tempNames{prefix: r.tempPrefix, taken: p.idents}
	for _, s := range p.Stages {
		var temp string
		carrier, temp = emit(s, carrier, names)
		if temp != "" {
			x.Temps = append(x.Temps, temp)
		}
		x.Steps = append(x.Steps, Step{Stage: s, Temp: temp, Output: carrier})
	}
	x.Output = carrier
	return x
}

func emit(s Stage, carrier string, names *tempNames) (string, string) {
	switch s := s.(type) {
	case *UnaryPath:
		return s.Path.String() + "(" + carrier + ")", ""
	case *NamedCall:
		t := names.next()
		return bind(t, s.Callee.String(), s.Args, carrier), t
	case *ParenCall:
		t := names.next()
		return bind(t, callee(s.Callee), s.Args, carrier), t
	case *BareExpr:
		return callee(s.X) + "(" + carrier + ")", ""
	}
	panic("rewrite: unknown stage type")
}

// bind evaluates carrier once into t and calls fn with every placeholder
// replaced by t: (lambda t: fn(args))(carrier).
func bind(t, fn string, args []Arg, carrier string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch {
		case a.Placeholder && a.Keyword != "":
			parts[i] = a.Keyword + "=" + t
		case a.Placeholder:
			parts[i] = t
		default:
			parts[i] = a.Text
		}
	}
	return "(lambda " + t + ": " + fn + "(" + strings.Join(parts, ", ") + "))(" + carrier + ")"
}

func callee(x Expr) string {
	if x.Primary {
		return x.Text
	}
	return "(" + x.Text + ")"
}

// tempNames numbers temporaries, skipping identifiers already in use.
type tempNames struct {
	prefix string
	taken  map[string]bool
	n      int
}

func (t *tempNames) next() string {
	for {
		name := t.prefix + strconv.Itoa(t.n)
		t.n++
		if !t.taken[name] {
			return name
		}
	}
}
