// Package batch runs per-file work through lazy, pull-based streams.
//
// Nothing happens until values are pulled with Collect or Drain. Parallel
// spreads work over a bounded set of goroutines and yields results in input
// order, so rewriting many files concurrently still prints them in the order
// they were named.
//
//	files := batch.FromSlice(paths)
//	stars := batch.Filter(files, isStarlark)
//	results := batch.Parallel(stars, workers, rewriteFile)
//	err := batch.Drain(results, report).Run(ctx)
package batch
