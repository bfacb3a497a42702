package rules

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/sandhi/core"
)

// Table is an immutable multimap from combined form to decomposition pairs.
type Table struct {
	index  map[string][]core.Pair
	rules  []core.Rule
	maxKey int
	size   int
}

// Build creates a Table from raw records of (left, right, combined).
// Returns a *core.FormatError if a record has fewer than three fields
// or an empty combined form.
func Build(records [][]string) (*Table, error) {
	t := newTable(len(records))
	for i, record := range records {
		rule, err := core.RuleFromRecord(record, i)
		if err != nil {
			return nil, err
		}
		t.add(rule)
	}
	return t, nil
}

// FromRules creates a Table from typed rules, preserving their order.
func FromRules(rules ...core.Rule) (*Table, error) {
	t := newTable(len(rules))
	for i := range rules {
		if err := core.ValidateRule(&rules[i]); err != nil {
			return nil, &core.FormatError{Record: i, Fields: core.RecordFields, Reason: err.Error()}
		}
		t.add(rules[i])
	}
	return t, nil
}

func newTable(capacity int) *Table {
	return &Table{
		index: make(map[string][]core.Pair, capacity),
		rules: make([]core.Rule, 0, capacity),
	}
}

// add registers a rule under its combined form and, when different,
// its space-stripped form.
func (t *Table) add(rule core.Rule) {
	t.rules = append(t.rules, rule)
	t.insert(rule.Combined, rule.Pair())

	stripped := strings.ReplaceAll(rule.Combined, " ", "")
	if stripped != rule.Combined && stripped != "" {
		t.insert(stripped, rule.Pair())
	}
}

func (t *Table) insert(key string, pair core.Pair) {
	t.index[key] = append(t.index[key], pair)
	t.size++
	if n := utf8.RuneCountInString(key); n > t.maxKey {
		t.maxKey = n
	}
}

// Lookup returns the pairs registered for key in registration order.
// Returns nil if the key is absent.
func (t *Table) Lookup(key string) []core.Pair {
	return slices.Clone(t.index[key])
}

// Pairs iterates the pairs registered for key without copying them.
func (t *Table) Pairs(key string) iter.Seq[core.Pair] {
	return func(yield func(core.Pair) bool) {
		for _, p := range t.index[key] {
			if !yield(p) {
				return
			}
		}
	}
}

// Has reports whether any pair is registered for key.
func (t *Table) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// MaxKeyLength returns the length in runes of the longest registered key.
// Returns core.ErrEmptyTable if the table holds no entries.
func (t *Table) MaxKeyLength() (int, error) {
	if len(t.index) == 0 {
		return 0, core.ErrEmptyTable
	}
	return t.maxKey, nil
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.index)
}

// Size returns the number of registered pairs across all keys,
// counting secondary keys.
func (t *Table) Size() int {
	return t.size
}

// Keys returns all registered keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.index))
	for k := range t.index {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Rules returns the source rules in registration order.
func (t *Table) Rules() []core.Rule {
	return slices.Clone(t.rules)
}
