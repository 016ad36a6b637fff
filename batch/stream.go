package batch

import "context"

// Iterator provides pull-based access to a sequence of values.
type Iterator[T any] interface {
	// Next returns the next value, or (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases resources held by the iterator.
	Close() error
}

// Stream is a lazy sequence. Each run opens a fresh iterator chain.
type Stream[T any] struct {
	open func(ctx context.Context) Iterator[T]
}

// Runnable is a stream bound to a sink, ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run pulls until the stream is exhausted, a stage fails or ctx is done.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// FromSlice creates a stream over items.
func FromSlice[T any](items []T) *Stream[T] {
	return &Stream[T]{
		open: func(_ context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// Drain creates a Runnable that hands every value to sink.
func Drain[T any](s *Stream[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			iter := s.open(ctx)
			defer iter.Close()
			for {
				val, ok, err := iter.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, val); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs the stream and returns its values. On error it returns the
// values pulled so far.
func Collect[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	var out []T
	err := Drain(s, func(_ context.Context, v T) error {
		out = append(out, v)
		return nil
	}).Run(ctx)
	return out, err
}

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.index >= len(it.items) {
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }
