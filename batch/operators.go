package batch

import "context"

// Map transforms each value with fn, in order, on the pulling goroutine.
func Map[I, O any](s *Stream[I], fn func(context.Context, I) (O, error)) *Stream[O] {
	return &Stream[O]{
		open: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: s.open(ctx), fn: fn}
		},
	}
}

// Filter keeps the values for which keep returns true.
func Filter[T any](s *Stream[T], keep func(T) bool) *Stream[T] {
	return &Stream[T]{
		open: func(ctx context.Context) Iterator[T] {
			return &filterIter[T]{source: s.open(ctx), keep: keep}
		},
	}
}

// Tap calls fn for each value and passes the value through unchanged.
func Tap[T any](s *Stream[T], fn func(context.Context, T) error) *Stream[T] {
	return Map(s, func(ctx context.Context, v T) (T, error) {
		if err := fn(ctx, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	keep   func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		if it.keep(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }
