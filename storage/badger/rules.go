package badger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/storage"
)

// RuleRepository implements storage.RuleRepository for BadgerDB.
type RuleRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
	genSeq  *badger.Sequence
}

var _ storage.RuleRepository = (*RuleRepository)(nil)

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(backend *Backend) (*RuleRepository, error) {
	idSeq, err := backend.GetSequence(ruleIDSeq)
	if err != nil {
		return nil, err
	}
	genSeq, err := backend.GetSequence(ruleGenSeq)
	if err != nil {
		idSeq.Release()
		return nil, err
	}

	return &RuleRepository{
		backend: backend,
		idSeq:   idSeq,
		genSeq:  genSeq,
	}, nil
}

// Close releases the ID and generation sequences.
func (r *RuleRepository) Close() error {
	if err := r.genSeq.Release(); err != nil {
		return err
	}
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *RuleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRules appends rules to the active rule set.
func (r *RuleRepository) AddRules(ctx context.Context, rules ...*core.Rule) ([]*core.Rule, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := activeGeneration(tx)
		if err != nil {
			return err
		}
		if err := r.writeRules(tx, gen, rules); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// ReplaceRules starts a replacement of the whole rule set under a new generation.
func (r *RuleRepository) ReplaceRules(ctx context.Context) (storage.RuleStage, error) {
	gen, err := nextValue(r.genSeq)
	if err != nil {
		return nil, err
	}
	return &ruleStage{repo: r, gen: gen}, nil
}

// GetRule retrieves a single rule by ID.
func (r *RuleRepository) GetRule(ctx context.Context, id core.ID) (*core.Rule, error) {
	var result *core.Rule
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := activeGeneration(tx)
		if err != nil {
			return err
		}
		result, err = readRule(tx, makeRuleKey(gen, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRules retrieves every stored rule in insertion order.
func (r *RuleRepository) GetRules(ctx context.Context) ([]*core.Rule, error) {
	var results []*core.Rule
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := activeGeneration(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = makeGenerationPrefix(ruleRecordPrefix, gen)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rule *core.Rule
			err := iter.Item().Value(func(val []byte) error {
				var err error
				rule, err = unmarshalRule(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, rule)
		}
		return nil
	}, false)
	return results, err
}

// LookupRules retrieves the rules registered under a combined form key.
func (r *RuleRepository) LookupRules(ctx context.Context, key string) ([]*core.Rule, error) {
	results := []*core.Rule{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := activeGeneration(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makePartialRuleKeyIndexKey(gen, key)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			ids = append(ids, id)
		}

		for _, id := range ids {
			rule, err := readRule(tx, makeRuleKey(gen, id))
			if err != nil {
				return err
			}
			if rule != nil {
				results = append(results, rule)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CountRules returns the number of stored rules.
func (r *RuleRepository) CountRules(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := activeGeneration(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeGenerationPrefix(ruleRecordPrefix, gen)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteAllRules removes every stored rule and its indices, in all generations.
func (r *RuleRepository) DeleteAllRules(ctx context.Context) error {
	return r.backend.DropPrefix(
		[]byte(ruleRecordPrefix+":"),
		[]byte(ruleKeyPrefix+":"),
	)
}

// ruleStage writes a replacement rule set under its own generation.
type ruleStage struct {
	repo *RuleRepository
	gen  uint64

	mu   sync.Mutex
	done bool
}

var _ storage.RuleStage = (*ruleStage)(nil)

func (s *ruleStage) AddRules(ctx context.Context, rules ...*core.Rule) ([]*core.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, storage.ErrStageClosed
	}

	err := s.repo.backend.WithTx(func(tx *badger.Txn) error {
		if err := s.repo.writeRules(tx, s.gen, rules); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// Commit makes the staged generation active and drops the one it replaces.
func (s *ruleStage) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return storage.ErrStageClosed
	}

	var previous uint64
	err := s.repo.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		previous, err = activeGeneration(tx)
		if err != nil {
			return err
		}
		if err := tx.Set([]byte(activeGenKey), encodeGeneration(s.gen)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}
	s.done = true

	// The swap already happened; a failed cleanup only leaves unreachable keys.
	if err := dropGeneration(s.repo.backend, previous); err != nil {
		s.repo.backend.logger.Warn("failed to drop replaced rule generation", "generation", previous, "err", err)
	}
	return nil
}

// Discard drops the staged rules. It is a no-op after Commit.
func (s *ruleStage) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	s.done = true
	return dropGeneration(s.repo.backend, s.gen)
}

// Helper methods

// writeRules stores rules under gen, assigning IDs from the sequence.
func (r *RuleRepository) writeRules(tx *badger.Txn, gen uint64, rules []*core.Rule) error {
	for _, rule := range rules {
		if err := core.ValidateRule(rule); err != nil {
			return err
		}

		nextID, err := nextValue(r.idSeq)
		if err != nil {
			return err
		}
		rule.Id = core.ID(nextID)

		// Store primary record
		if err := tx.Set(makeRuleKey(gen, rule.Id), storage.MarshalRule(rule)); err != nil {
			return err
		}

		// Update combined form index
		for _, key := range indexKeys(rule.Combined) {
			if err := tx.Set(makeRuleKeyIndexKey(gen, key, rule.Id), storage.MarshalID(rule.Id)); err != nil {
				return err
			}
		}
	}
	return nil
}

// nextValue returns the next value of seq.
// BadgerDB sequences can return 0 on first call, so we skip it.
func nextValue(seq *badger.Sequence) (uint64, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		return seq.Next()
	}
	return next, nil
}

// activeGeneration returns the generation readers see.
// A store that never committed a replacement uses generation 0.
func activeGeneration(tx *badger.Txn) (uint64, error) {
	item, err := tx.Get([]byte(activeGenKey))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var gen uint64
	err = item.Value(func(val []byte) error {
		var ok bool
		gen, ok = decodeGeneration(val)
		if !ok {
			return fmt.Errorf("%w: active generation has %d bytes", storage.ErrSerializationFailed, len(val))
		}
		return nil
	})
	return gen, err
}

func dropGeneration(backend *Backend, gen uint64) error {
	return backend.DropPrefix(
		makeGenerationPrefix(ruleRecordPrefix, gen),
		makeGenerationPrefix(ruleKeyPrefix, gen),
	)
}

// indexKeys returns the keys a combined form is registered under:
// the form itself and, when different and non-empty, the form without spaces.
func indexKeys(combined string) []string {
	keys := []string{combined}
	if stripped := strings.ReplaceAll(combined, " ", ""); stripped != combined && stripped != "" {
		keys = append(keys, stripped)
	}
	return keys
}

// readRule reads a rule from the transaction.
// Returns nil, nil if the key doesn't exist.
func readRule(tx *badger.Txn, key []byte) (*core.Rule, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var rule *core.Rule
	err = item.Value(func(val []byte) error {
		var err error
		rule, err = unmarshalRule(val)
		return err
	})
	return rule, err
}

func unmarshalRule(val []byte) (*core.Rule, error) {
	rule, err := storage.UnmarshalRule(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return rule, nil
}
