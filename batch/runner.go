package batch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/rules"
	"github.com/poiesic/sandhi/split"
)

// Result holds the candidates of one input.
type Result struct {
	Input      string
	Candidates []core.Candidate
	Err        error
}

// Runner splits inputs concurrently on a worker pool.
type Runner struct {
	splitter  *split.Splitter
	pool      *ants.Pool
	splitOpts []split.Option
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithSplitOptions sets the options every input is split with.
func WithSplitOptions(opts ...split.Option) Option {
	return func(r *Runner) error {
		r.splitOpts = append(r.splitOpts, opts...)
		return nil
	}
}

// NewRunner creates a runner over table.
func NewRunner(table *rules.Table, opts ...Option) (*Runner, error) {
	if table == nil {
		return nil, split.ErrTableRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	// Splitter is built last so it picks up the final logger.
	splitOpts := append([]split.Option{split.WithLogger(r.logger)}, r.splitOpts...)
	splitter, err := split.New(table, splitOpts...)
	if err != nil {
		r.Release()
		return nil, err
	}
	r.splitter = splitter

	return r, nil
}

// PoolSize returns the capacity of the worker pool.
func (r *Runner) PoolSize() int {
	return r.pool.Cap()
}

// Run splits every input and returns one Result per input, in input order.
// Returns core.ErrEmptyTable before submitting work if the table is empty.
// If ctx is canceled, inputs not yet submitted get ctx's error and Run
// returns it after in-flight work finishes.
func (r *Runner) Run(ctx context.Context, inputs []string) ([]Result, error) {
	if r.pool.IsClosed() {
		return nil, ErrRunnerReleased
	}
	if _, err := r.splitter.Table().MaxKeyLength(); err != nil {
		return nil, err
	}

	results := make([]Result, len(inputs))
	var wg sync.WaitGroup
	var runErr error

	for i, input := range inputs {
		results[i].Input = input

		if err := ctx.Err(); err != nil {
			for j := i; j < len(inputs); j++ {
				results[j] = Result{Input: inputs[j], Err: err}
			}
			runErr = err
			break
		}

		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			results[i].Candidates, results[i].Err = r.splitter.Split(input)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
			r.logger.Error("failed to submit input", "input", input, "err", err)
		}
	}

	wg.Wait()

	r.logger.Debug("batch complete", "inputs", len(inputs), "canceled", runErr != nil)
	return results, runErr
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
