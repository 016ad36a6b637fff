package rewrite

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/starpipe/errors"
	"github.com/kbukum/starpipe/logger"
	"github.com/kbukum/starpipe/token"
	"github.com/kbukum/starpipe/validation"
)

const (
	// DefaultPlaceholder marks the argument slots that receive the running value.
	DefaultPlaceholder = "_"
	// DefaultTempPrefix prefixes the temporaries bound by placeholder stages.
	DefaultTempPrefix = "__pipe"
)

// Rewriter parses and expands pipelines. It is immutable after New and safe
// for concurrent use.
type Rewriter struct {
	placeholder string
	tempPrefix  string
	log         *logger.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithPlaceholder sets the placeholder identifier.
func WithPlaceholder(name string) Option {
	return func(r *Rewriter) { r.placeholder = name }
}

// WithTempPrefix sets the prefix of generated temporaries.
func WithTempPrefix(prefix string) Option {
	return func(r *Rewriter) { r.tempPrefix = prefix }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(r *Rewriter) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a Rewriter. The placeholder and temporary prefix must be
// Starlark names and must differ.
func New(opts ...Option) (*Rewriter, error) {
	r := &Rewriter{
		placeholder: DefaultPlaceholder,
		tempPrefix:  DefaultTempPrefix,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	v := validation.New().
		Name("placeholder", r.placeholder).
		Name("temp_prefix", r.tempPrefix).
		Distinct("temp_prefix", r.tempPrefix, "placeholder", r.placeholder)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	r.log = r.log.WithComponent("rewrite")
	return r, nil
}

// Placeholder returns the placeholder identifier.
func (r *Rewriter) Placeholder() string { return r.placeholder }

// TempPrefix returns the prefix of generated temporaries.
func (r *Rewriter) TempPrefix() string { return r.tempPrefix }

// Expand parses src and generates its nested-call form.
func (r *Rewriter) Expand(src string) (*Expansion, error) {
	start := time.Now()
	p, err := r.Parse(src)
	if err != nil {
		r.log.Debug("pipeline rejected", logger.ErrorFields("expand", err))
		return nil, err
	}
	x := r.Generate(p)
	if r.log.Enabled(zerolog.DebugLevel) {
		fields := logger.DurationFields("expand", time.Since(start))
		fields["stages"] = len(p.Stages)
		fields[logger.FieldTemps] = len(x.Temps)
		r.log.Debug("pipeline expanded", fields)
	}
	return x, nil
}

var defaultRewriter = &Rewriter{
	placeholder: DefaultPlaceholder,
	tempPrefix:  DefaultTempPrefix,
	log:         logger.Nop(),
}

// Expand expands src with the default placeholder and temporary prefix.
func Expand(src string) (string, error) {
	x, err := defaultRewriter.Expand(src)
	if err != nil {
		return "", err
	}
	return x.Output, nil
}

// noShape builds the error for a fragment that fits no stage shape. stage is
// 0 for the initial expression.
func noShape(src string, stage, offset int, reason string, cause error) error {
	line, col := token.LineCol(src, offset)
	e := errors.NoMatchingStageShape(stage, reason).WithDetails(map[string]any{
		"offset": offset,
		"line":   line,
		"col":    col,
	})
	if cause != nil {
		e.WithCause(cause)
	}
	return e
}
