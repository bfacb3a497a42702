package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/rules"
	"github.com/poiesic/sandhi/split"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *rules.Table {
	t.Helper()
	table, err := rules.Build([][]string{
		{"a", "i", "e"},
		{"a", "u", "o"},
		{"as", "", "o '"},
	})
	require.NoError(t, err)
	return table
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, split.ErrTableRequired)

	runner, err := NewRunner(newTestTable(t), WithPoolSize(3))
	require.NoError(t, err)
	defer runner.Release()
	assert.Equal(t, 3, runner.PoolSize())
}

func TestNewRunner_PoolSizeMinimum(t *testing.T) {
	runner, err := NewRunner(newTestTable(t), WithPoolSize(0))
	require.NoError(t, err)
	defer runner.Release()
	assert.Equal(t, 1, runner.PoolSize())
}

func TestRun_MatchesSequentialSplit(t *testing.T) {
	table := newTestTable(t)
	runner, err := NewRunner(table, WithPoolSize(4))
	require.NoError(t, err)
	defer runner.Release()

	inputs := make([]string, 0, 50)
	for i := range 50 {
		inputs = append(inputs, fmt.Sprintf("te%d", i), "rAmo", "")
	}

	results, err := runner.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, result := range results {
		assert.Equal(t, inputs[i], result.Input, "results should keep input order")
		require.NoError(t, result.Err)

		expected, err := split.Split(inputs[i], table)
		require.NoError(t, err)
		assert.Equal(t, expected, result.Candidates)
	}
}

func TestRun_SplitOptions(t *testing.T) {
	table := newTestTable(t)
	runner, err := NewRunner(table, WithSplitOptions(split.WithTrailingPosition(true)))
	require.NoError(t, err)
	defer runner.Release()

	results, err := runner.Run(context.Background(), []string{"te"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	candidates := results[0].Candidates
	require.NotEmpty(t, candidates)
	assert.Equal(t, core.Candidate{Prefix: "te", Suffix: "", Position: 2}, candidates[len(candidates)-1])
}

func TestRun_EmptyTable(t *testing.T) {
	table, err := rules.Build(nil)
	require.NoError(t, err)

	runner, err := NewRunner(table)
	require.NoError(t, err)
	defer runner.Release()

	results, err := runner.Run(context.Background(), []string{"te"})
	assert.ErrorIs(t, err, core.ErrEmptyTable)
	assert.Nil(t, results)
}

func TestRun_CanceledContext(t *testing.T) {
	runner, err := NewRunner(newTestTable(t))
	require.NoError(t, err)
	defer runner.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []string{"te", "ko"}
	results, err := runner.Run(ctx, inputs)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for i, result := range results {
		assert.Equal(t, inputs[i], result.Input)
		assert.ErrorIs(t, result.Err, context.Canceled)
		assert.Nil(t, result.Candidates)
	}
}

func TestRun_AfterRelease(t *testing.T) {
	runner, err := NewRunner(newTestTable(t))
	require.NoError(t, err)
	runner.Release()

	_, err = runner.Run(context.Background(), []string{"te"})
	assert.ErrorIs(t, err, ErrRunnerReleased)
}
