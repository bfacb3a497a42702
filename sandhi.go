// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sandhi splits Sanskrit text at sandhi junctions using a table of
// sandhi rules kept in a Badger store.
package sandhi

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/sandhi/batch"
	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/importer"
	"github.com/poiesic/sandhi/rules"
	"github.com/poiesic/sandhi/split"
	"github.com/poiesic/sandhi/storage"
	"github.com/poiesic/sandhi/storage/badger"
)

// Engine ties a rule store to the splitter.
// The rule table is loaded from the store on first use and reloaded after
// every import.
type Engine struct {
	backend      *badger.Backend
	ruleRepo     storage.RuleRepository
	manifestRepo storage.ManifestRepository
	options      *engineOptions
	logger       *slog.Logger

	mu    sync.Mutex
	table *rules.Table
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger       *slog.Logger
	splitOpts    []split.Option
	importConfig *importer.Config
	progress     io.Writer
}

// WithLogger sets the logger used by the engine and everything it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSplitOptions sets the options used by Split and batch runners.
func WithSplitOptions(opts ...split.Option) Option {
	return func(o *engineOptions) {
		o.splitOpts = append(o.splitOpts, opts...)
	}
}

// WithImportConfig sets the configuration used by Import.
func WithImportConfig(config *importer.Config) Option {
	return func(o *engineOptions) {
		o.importConfig = config
	}
}

// WithProgress sets where import progress is written.
func WithProgress(w io.Writer) Option {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// Open opens or creates a rule store at path.
func Open(path string, opts ...Option) (*Engine, error) {
	return open(path, false, opts...)
}

// OpenInMemory creates an engine backed by an in-memory store.
func OpenInMemory(opts ...Option) (*Engine, error) {
	return open("", true, opts...)
}

func open(path string, inMemory bool, opts ...Option) (*Engine, error) {
	options := &engineOptions{
		logger:       slog.Default(),
		importConfig: importer.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	ruleRepo, err := badger.NewRuleRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:      backend,
		ruleRepo:     ruleRepo,
		manifestRepo: badger.NewManifestRepository(backend),
		options:      options,
		logger:       options.logger,
	}, nil
}

func (e *Engine) Close() error {
	if err := e.ruleRepo.Close(); err != nil {
		e.logger.Error("error closing rule repository", "err", err)
		return err
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) RuleRepository() storage.RuleRepository {
	return e.ruleRepo
}

func (e *Engine) ManifestRepository() storage.ManifestRepository {
	return e.manifestRepo
}

// Import replaces the stored rules with rows read from source.
func (e *Engine) Import(ctx context.Context, source string, rows [][]string) (*importer.Result, error) {
	im, err := e.newImporter()
	if err != nil {
		return nil, err
	}
	result, err := im.Import(ctx, source, rows)
	e.invalidate()
	return result, err
}

// ImportFile imports the rule source at path.
func (e *Engine) ImportFile(ctx context.Context, path string) (*importer.Result, error) {
	im, err := e.newImporter()
	if err != nil {
		return nil, err
	}
	result, err := im.ImportFile(ctx, path)
	e.invalidate()
	return result, err
}

func (e *Engine) newImporter() (*importer.Importer, error) {
	return importer.NewImporter(e.ruleRepo, e.manifestRepo, e.options.importConfig,
		e.options.progress, importer.WithLogger(e.logger))
}

func (e *Engine) invalidate() {
	e.mu.Lock()
	e.table = nil
	e.mu.Unlock()
}

// Table returns the rule table built from the stored rules.
// A store with no rules yields an empty table.
func (e *Engine) Table(ctx context.Context) (*rules.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.table != nil {
		return e.table, nil
	}

	stored, err := e.ruleRepo.GetRules(ctx)
	if err != nil {
		return nil, err
	}
	ruleSet := make([]core.Rule, len(stored))
	for i, r := range stored {
		ruleSet[i] = *r
	}

	table, err := rules.FromRules(ruleSet...)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("loaded rule table", "keys", table.Len(), "pairs", table.Size())
	e.table = table
	return table, nil
}

// Split returns every candidate split of input against the stored rules.
// Returns core.ErrEmptyTable if nothing has been imported.
func (e *Engine) Split(ctx context.Context, input string) ([]core.Candidate, error) {
	splitter, err := e.NewSplitter(ctx)
	if err != nil {
		return nil, err
	}
	return splitter.Split(input)
}

// NewSplitter creates a splitter over the stored rules.
func (e *Engine) NewSplitter(ctx context.Context, opts ...split.Option) (*split.Splitter, error) {
	table, err := e.Table(ctx)
	if err != nil {
		return nil, err
	}
	return split.New(table, e.splitOptions(opts)...)
}

// Lookup returns the decompositions stored for a combined form.
func (e *Engine) Lookup(ctx context.Context, key string) ([]core.Pair, error) {
	stored, err := e.ruleRepo.LookupRules(ctx, key)
	if err != nil {
		return nil, err
	}
	pairs := make([]core.Pair, len(stored))
	for i, r := range stored {
		pairs[i] = r.Pair()
	}
	return pairs, nil
}

// NewBatchRunner creates a batch runner over the stored rules.
// The caller must Release the runner.
func (e *Engine) NewBatchRunner(ctx context.Context, opts ...batch.Option) (*batch.Runner, error) {
	table, err := e.Table(ctx)
	if err != nil {
		return nil, err
	}
	runnerOpts := append([]batch.Option{
		batch.WithLogger(e.logger),
		batch.WithSplitOptions(e.options.splitOpts...),
	}, opts...)
	return batch.NewRunner(table, runnerOpts...)
}

func (e *Engine) splitOptions(extra []split.Option) []split.Option {
	opts := make([]split.Option, 0, len(e.options.splitOpts)+len(extra)+1)
	opts = append(opts, split.WithLogger(e.logger))
	opts = append(opts, e.options.splitOpts...)
	return append(opts, extra...)
}
