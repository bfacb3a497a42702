package badger

import (
	"context"
	"testing"

	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (storage.RuleRepository, storage.ManifestRepository) {
	t.Helper()
	ruleRepo, manifestRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		ruleRepo.Close()
		backend.Close()
	})
	return ruleRepo, manifestRepo
}

func combinedForms(rules []*core.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Combined
	}
	return out
}

func TestAddRules(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	added, err := repo.AddRules(ctx,
		&core.Rule{Left: "a", Right: "i", Combined: "e"},
		&core.Rule{Left: "a", Right: "u", Combined: "o"},
	)
	require.NoError(t, err)
	require.Len(t, added, 2)

	assert.NotZero(t, added[0].Id)
	assert.Greater(t, added[1].Id, added[0].Id)

	got, err := repo.GetRule(ctx, added[1].Id)
	require.NoError(t, err)
	assert.Equal(t, added[1], got)
}

func TestAddRules_Invalid(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.AddRules(ctx,
		&core.Rule{Left: "a", Right: "i", Combined: "e"},
		&core.Rule{Left: "a", Right: "i", Combined: ""},
	)
	assert.ErrorIs(t, err, core.ErrInvalidRule)

	// nothing from the failed batch is stored
	count, err := repo.CountRules(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetRule_NotFound(t *testing.T) {
	repo, _ := newTestRepos(t)

	_, err := repo.GetRule(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetRules_InsertionOrder(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	forms := []string{"o", "e", "A", "e", "ya"}
	for _, form := range forms {
		_, err := repo.AddRules(ctx, &core.Rule{Left: "x", Right: "y", Combined: form})
		require.NoError(t, err)
	}

	rules, err := repo.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, forms, combinedForms(rules))
}

func TestLookupRules(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.AddRules(ctx,
		&core.Rule{Left: "a", Right: "i", Combined: "e"},
		&core.Rule{Left: "a", Right: "i", Combined: "ai"},
		&core.Rule{Left: "A", Right: "i", Combined: "e"},
		&core.Rule{Left: "aH", Right: "i", Combined: "a i"},
	)
	require.NoError(t, err)

	t.Run("registration order", func(t *testing.T) {
		rules, err := repo.LookupRules(ctx, "e")
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "a", rules[0].Left)
		assert.Equal(t, "A", rules[1].Left)
	})

	t.Run("space-stripped key", func(t *testing.T) {
		rules, err := repo.LookupRules(ctx, "ai")
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "a", rules[0].Left)
		assert.Equal(t, "aH", rules[1].Left)

		rules, err = repo.LookupRules(ctx, "a i")
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "aH", rules[0].Left)
	})

	t.Run("prefix of a key does not match", func(t *testing.T) {
		rules, err := repo.LookupRules(ctx, "a")
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("missing key", func(t *testing.T) {
		rules, err := repo.LookupRules(ctx, "zz")
		require.NoError(t, err)
		assert.NotNil(t, rules)
		assert.Empty(t, rules)
	})
}

func TestDeleteAllRules(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.AddRules(ctx,
		&core.Rule{Left: "a", Right: "i", Combined: "e"},
		&core.Rule{Left: "aH", Right: "i", Combined: "a i"},
	)
	require.NoError(t, err)

	count, err := repo.CountRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.DeleteAllRules(ctx))

	count, err = repo.CountRules(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	rules, err := repo.LookupRules(ctx, "ai")
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestReplaceRules_Commit(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.AddRules(ctx, &core.Rule{Left: "a", Right: "i", Combined: "e"})
	require.NoError(t, err)

	stage, err := repo.ReplaceRules(ctx)
	require.NoError(t, err)
	_, err = stage.AddRules(ctx, &core.Rule{Left: "a", Right: "u", Combined: "o"})
	require.NoError(t, err)
	_, err = stage.AddRules(ctx, &core.Rule{Left: "a", Right: "a", Combined: "A"})
	require.NoError(t, err)

	// Staged rules stay invisible until commit.
	current, err := repo.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, combinedForms(current))

	require.NoError(t, stage.Commit(ctx))

	current, err = repo.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"o", "A"}, combinedForms(current))

	count, err := repo.CountRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	old, err := repo.LookupRules(ctx, "e")
	require.NoError(t, err)
	assert.Empty(t, old)

	replaced, err := repo.LookupRules(ctx, "o")
	require.NoError(t, err)
	require.Len(t, replaced, 1)

	got, err := repo.GetRule(ctx, replaced[0].Id)
	require.NoError(t, err)
	assert.Equal(t, replaced[0], got)

	_, err = stage.AddRules(ctx, &core.Rule{Left: "t", Right: "", Combined: "d"})
	assert.ErrorIs(t, err, storage.ErrStageClosed)
	assert.ErrorIs(t, stage.Commit(ctx), storage.ErrStageClosed)
	assert.NoError(t, stage.Discard(ctx))
}

func TestReplaceRules_Discard(t *testing.T) {
	repo, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := repo.AddRules(ctx,
		&core.Rule{Left: "a", Right: "i", Combined: "e"},
		&core.Rule{Left: "a", Right: "u", Combined: "o"},
	)
	require.NoError(t, err)

	stage, err := repo.ReplaceRules(ctx)
	require.NoError(t, err)
	_, err = stage.AddRules(ctx, &core.Rule{Left: "t", Right: "", Combined: "d"})
	require.NoError(t, err)
	require.NoError(t, stage.Discard(ctx))

	current, err := repo.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "o"}, combinedForms(current))

	staged, err := repo.LookupRules(ctx, "d")
	require.NoError(t, err)
	assert.Empty(t, staged)

	_, err = stage.AddRules(ctx, &core.Rule{Left: "t", Right: "", Combined: "d"})
	assert.ErrorIs(t, err, storage.ErrStageClosed)
	assert.ErrorIs(t, stage.Commit(ctx), storage.ErrStageClosed)
}
