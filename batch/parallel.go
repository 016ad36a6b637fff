package batch

import (
	"context"
	"sync"
)

// Parallel applies fn to each value with up to workers goroutines. Results
// are yielded in input order. An error from fn is yielded in the position of
// the value that caused it; the consumer decides whether to stop.
func Parallel[I, O any](s *Stream[I], workers int, fn func(context.Context, I) (O, error)) *Stream[O] {
	if workers <= 0 {
		workers = 1
	}
	return &Stream[O]{
		open: func(ctx context.Context) Iterator[O] {
			source := s.open(ctx)
			workCtx, cancel := context.WithCancel(ctx)
			in := make(chan job[I], workers)
			out := make(chan job[result[O]], workers)

			send := func(j job[result[O]]) bool {
				select {
				case out <- j:
					return true
				case <-workCtx.Done():
					return false
				}
			}

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer close(in)
				for seq := 0; ; seq++ {
					val, ok, err := source.Next(workCtx)
					if err != nil {
						send(job[result[O]]{seq: seq, val: result[O]{err: err}})
						return
					}
					if !ok {
						return
					}
					select {
					case in <- job[I]{seq: seq, val: val}:
					case <-workCtx.Done():
						return
					}
				}
			}()

			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := range in {
						o, err := fn(workCtx, j.val)
						if !send(job[result[O]]{seq: j.seq, val: result[O]{val: o, err: err}}) {
							return
						}
					}
				}()
			}

			go func() {
				wg.Wait()
				close(out)
			}()

			return &orderedIter[O]{
				ch:      out,
				pending: make(map[int]result[O]),
				closer: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}

type job[T any] struct {
	seq int
	val T
}

type result[T any] struct {
	val T
	err error
}

// orderedIter releases results strictly by sequence number.
type orderedIter[T any] struct {
	ch      <-chan job[result[T]]
	pending map[int]result[T]
	next    int
	closer  func() error
}

func (it *orderedIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		if r, ok := it.pending[it.next]; ok {
			delete(it.pending, it.next)
			it.next++
			if r.err != nil {
				return zero, false, r.err
			}
			return r.val, true, nil
		}
		select {
		case j, open := <-it.ch:
			if !open {
				return zero, false, nil
			}
			it.pending[j.seq] = j.val
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
}

func (it *orderedIter[T]) Close() error { return it.closer() }
