package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/storage"
	"github.com/poiesic/sandhi/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRows = [][]string{
	{"a", "i", "e"},
	{"a", "u", "o"},
	{"a", "a", "A"},
	{"as", "", "o '"},
	{"t", "", "d"},
}

func newTestImporter(t *testing.T, config *Config) (*Importer, storage.RuleRepository, storage.ManifestRepository) {
	t.Helper()
	ruleRepo, manifestRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		ruleRepo.Close()
		backend.Close()
	})

	im, err := NewImporter(ruleRepo, manifestRepo, config, nil)
	require.NoError(t, err)
	return im, ruleRepo, manifestRepo
}

func TestNewImporter_Validation(t *testing.T) {
	ruleRepo, manifestRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer ruleRepo.Close()

	_, err = NewImporter(nil, manifestRepo, nil, nil)
	assert.ErrorIs(t, err, ErrRuleRepositoryRequired)

	_, err = NewImporter(ruleRepo, nil, nil, nil)
	assert.ErrorIs(t, err, ErrManifestRepositoryRequired)

	_, err = NewImporter(ruleRepo, manifestRepo, &Config{BatchSize: 0, ReportInterval: 1, MaxRetries: 1}, nil)
	assert.Error(t, err)

	im, err := NewImporter(ruleRepo, manifestRepo, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BatchSize, im.config.BatchSize)
}

func TestImport(t *testing.T) {
	config := DefaultConfig()
	config.BatchSize = 2
	im, ruleRepo, manifestRepo := newTestImporter(t, config)
	ctx := context.Background()

	result, err := im.Import(ctx, "test.tsv", testRows)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, len(testRows), result.RuleCount)
	assert.NotZero(t, result.Fingerprint)

	stored, err := ruleRepo.GetRules(ctx)
	require.NoError(t, err)
	require.Len(t, stored, len(testRows))
	for i, rule := range stored {
		assert.Equal(t, testRows[i], []string{rule.Left, rule.Right, rule.Combined})
	}

	manifest, err := manifestRepo.LoadManifest(ctx, "test.tsv")
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, result.Fingerprint, manifest.Fingerprint)
	assert.Equal(t, len(testRows), manifest.RuleCount)
}

func TestImport_SkipsUnchangedSource(t *testing.T) {
	im, ruleRepo, _ := newTestImporter(t, nil)
	ctx := context.Background()

	first, err := im.Import(ctx, "test.tsv", testRows)
	require.NoError(t, err)
	before, err := ruleRepo.GetRules(ctx)
	require.NoError(t, err)

	second, err := im.Import(ctx, "test.tsv", testRows)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	after, err := ruleRepo.GetRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "skipped import should not rewrite rules")
}

func TestImport_Force(t *testing.T) {
	config := DefaultConfig()
	config.Force = true
	im, ruleRepo, _ := newTestImporter(t, config)
	ctx := context.Background()

	_, err := im.Import(ctx, "test.tsv", testRows)
	require.NoError(t, err)
	result, err := im.Import(ctx, "test.tsv", testRows)
	require.NoError(t, err)
	assert.False(t, result.Skipped)

	count, err := ruleRepo.CountRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(testRows), count, "re-import should replace, not append")
}

func TestImport_ReplacesPreviousSource(t *testing.T) {
	im, ruleRepo, _ := newTestImporter(t, nil)
	ctx := context.Background()

	_, err := im.Import(ctx, "a.tsv", testRows)
	require.NoError(t, err)
	_, err = im.Import(ctx, "b.tsv", testRows[:2])
	require.NoError(t, err)

	// a.tsv's manifest still matches, but the stored rules do not.
	result, err := im.Import(ctx, "a.tsv", testRows)
	require.NoError(t, err)
	assert.False(t, result.Skipped)

	count, err := ruleRepo.CountRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(testRows), count)
}

func TestImport_MalformedWritesNothing(t *testing.T) {
	im, ruleRepo, manifestRepo := newTestImporter(t, nil)
	ctx := context.Background()

	_, err := im.Import(ctx, "bad.tsv", [][]string{{"a", "i", "e"}, {"a", "u"}})
	require.ErrorIs(t, err, core.ErrMalformedRecord)

	var formatErr *core.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 1, formatErr.Record)

	count, err := ruleRepo.CountRules(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	manifest, err := manifestRepo.LoadManifest(ctx, "bad.tsv")
	require.NoError(t, err)
	assert.Nil(t, manifest)
}

func TestImport_ReportsProgress(t *testing.T) {
	ruleRepo, manifestRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer ruleRepo.Close()

	var buf bytes.Buffer
	im, err := NewImporter(ruleRepo, manifestRepo, nil, &buf)
	require.NoError(t, err)

	_, err = im.Import(context.Background(), "test.tsv", testRows)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Importing 5 rules from test.tsv")
	assert.Contains(t, buf.String(), "5/5 rules")
}

func TestImportFile(t *testing.T) {
	im, ruleRepo, _ := newTestImporter(t, nil)
	path := filepath.Join(t.TempDir(), "rules.tsv")
	require.NoError(t, os.WriteFile(path, []byte("a\ti\te\na\tu\to\n"), 0o644))

	result, err := im.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.Source)
	assert.Equal(t, 2, result.RuleCount)

	rules, err := ruleRepo.LookupRules(context.Background(), "o")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "u", rules[0].Right)
}

func TestImportFile_Missing(t *testing.T) {
	im, _, _ := newTestImporter(t, nil)
	_, err := im.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

var errBatchFailed = errors.New("batch write failed")

// failingRuleRepository stages replacements whose failAt-th AddRules call fails.
type failingRuleRepository struct {
	storage.RuleRepository
	failAt int
}

func (r *failingRuleRepository) ReplaceRules(ctx context.Context) (storage.RuleStage, error) {
	stage, err := r.RuleRepository.ReplaceRules(ctx)
	if err != nil {
		return nil, err
	}
	return &failingStage{RuleStage: stage, failAt: r.failAt}, nil
}

type failingStage struct {
	storage.RuleStage
	failAt    int
	calls     int
	discarded bool
}

func (s *failingStage) AddRules(ctx context.Context, rules ...*core.Rule) ([]*core.Rule, error) {
	s.calls++
	if s.calls == s.failAt {
		return nil, errBatchFailed
	}
	return s.RuleStage.AddRules(ctx, rules...)
}

func (s *failingStage) Discard(ctx context.Context) error {
	s.discarded = true
	return s.RuleStage.Discard(ctx)
}

func TestImport_FailedBatchKeepsPreviousRules(t *testing.T) {
	ruleRepo, manifestRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer ruleRepo.Close()
	ctx := context.Background()

	seed, err := NewImporter(ruleRepo, manifestRepo, nil, nil)
	require.NoError(t, err)
	seeded, err := seed.Import(ctx, "seed.tsv", testRows)
	require.NoError(t, err)

	config := DefaultConfig()
	config.BatchSize = 2
	config.Force = true
	failing := &failingRuleRepository{RuleRepository: ruleRepo, failAt: 2}
	im, err := NewImporter(failing, manifestRepo, config, nil)
	require.NoError(t, err)

	replacement := [][]string{{"x", "y", "z"}, {"x", "y", "w"}, {"x", "y", "v"}, {"x", "y", "u"}}
	_, err = im.Import(ctx, "replacement.tsv", replacement)
	require.ErrorIs(t, err, errBatchFailed)

	stored, err := ruleRepo.GetRules(ctx)
	require.NoError(t, err)
	require.Len(t, stored, len(testRows))
	for i, rule := range stored {
		assert.Equal(t, testRows[i], []string{rule.Left, rule.Right, rule.Combined})
	}

	lookup, err := ruleRepo.LookupRules(ctx, "z")
	require.NoError(t, err)
	assert.Empty(t, lookup, "staged rules must not be visible")

	manifest, err := manifestRepo.LoadManifest(ctx, "replacement.tsv")
	require.NoError(t, err)
	assert.Nil(t, manifest)

	// The seed import is still current.
	again, err := seed.Import(ctx, "seed.tsv", testRows)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, seeded.Fingerprint, again.Fingerprint)
}

func TestImport_FailedBatchDiscardsStage(t *testing.T) {
	ruleRepo, manifestRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer ruleRepo.Close()

	var stage *failingStage
	failing := &stageCapturingRepository{failingRuleRepository{RuleRepository: ruleRepo, failAt: 1}, &stage}
	im, err := NewImporter(failing, manifestRepo, nil, nil)
	require.NoError(t, err)

	_, err = im.Import(context.Background(), "test.tsv", testRows)
	require.ErrorIs(t, err, errBatchFailed)
	require.NotNil(t, stage)
	assert.True(t, stage.discarded)
}

type stageCapturingRepository struct {
	failingRuleRepository
	captured **failingStage
}

func (r *stageCapturingRepository) ReplaceRules(ctx context.Context) (storage.RuleStage, error) {
	stage, err := r.failingRuleRepository.ReplaceRules(ctx)
	if err != nil {
		return nil, err
	}
	*r.captured = stage.(*failingStage)
	return stage, nil
}
