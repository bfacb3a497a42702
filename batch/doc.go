// Package batch splits many inputs concurrently against one rule table.
//
// A Runner owns an ants worker pool. Every input is split on the pool and
// the results are returned in input order, each carrying its own error:
//
//	runner, err := batch.NewRunner(table, batch.WithPoolSize(4))
//	if err != nil {
//		return err
//	}
//	defer runner.Release()
//
//	results, err := runner.Run(ctx, inputs)
//
// The table is checked once before any work is submitted, so an empty
// table fails the whole run instead of every input.
package batch
