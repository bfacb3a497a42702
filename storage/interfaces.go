package storage

import (
	"context"

	"github.com/poiesic/sandhi/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// RuleRepository provides operations for managing sandhi rules.
type RuleRepository interface {
	Repository
	// AddRules appends rules to storage.
	// Generates new IDs from a sequence, so stored order equals insertion order.
	// Returns the rules with IDs populated.
	AddRules(ctx context.Context, rules ...*core.Rule) ([]*core.Rule, error)

	// GetRule retrieves a single rule by ID.
	// Returns ErrNotFound if the rule doesn't exist.
	GetRule(ctx context.Context, id core.ID) (*core.Rule, error)

	// GetRules retrieves every stored rule in insertion order.
	GetRules(ctx context.Context) ([]*core.Rule, error)

	// LookupRules retrieves the rules registered under a combined form key,
	// in insertion order. Keys follow table semantics: a rule whose combined
	// form contains spaces is also found under the space-stripped form.
	// Returns an empty slice (no error) when nothing matches.
	LookupRules(ctx context.Context, key string) ([]*core.Rule, error)

	// CountRules returns the number of stored rules.
	CountRules(ctx context.Context) (int, error)

	// DeleteAllRules removes every stored rule and its indices.
	DeleteAllRules(ctx context.Context) error

	// ReplaceRules starts a replacement of the whole rule set.
	// Rules added to the returned stage are invisible to readers until
	// Commit swaps them in at once; Discard leaves the current set in place.
	ReplaceRules(ctx context.Context) (RuleStage, error)
}

// RuleStage collects a replacement rule set.
// A stage is finished by exactly one Commit or Discard; after that
// AddRules and Commit return ErrStageClosed.
type RuleStage interface {
	// AddRules appends rules to the staged set, populating their IDs.
	AddRules(ctx context.Context, rules ...*core.Rule) ([]*core.Rule, error)

	// Commit replaces the current rule set with the staged one.
	Commit(ctx context.Context) error

	// Discard drops the staged rules. It is a no-op after Commit.
	Discard(ctx context.Context) error
}

// ManifestRepository records which rule sources have been imported.
type ManifestRepository interface {
	// SaveManifest persists the manifest for its source, replacing any previous one.
	SaveManifest(ctx context.Context, manifest *core.Manifest) error

	// LoadManifest retrieves the manifest for a source.
	// Returns nil, nil if the source was never imported.
	LoadManifest(ctx context.Context, source string) (*core.Manifest, error)
}
