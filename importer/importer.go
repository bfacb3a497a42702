package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/rulefile"
	"github.com/poiesic/sandhi/rules"
	"github.com/poiesic/sandhi/storage"
)

// Config holds configuration for an import.
type Config struct {
	// BatchSize is the number of rules written per transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of rules)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for a conflicting write
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-imports even when the store already holds the source's rules
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      500,
		ReportInterval: 1000,
		MaxRetries:     3,
		RetryDelay:     50 * time.Millisecond,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return errors.New("importer config: BatchSize must be greater than 0")
	}
	if c.ReportInterval <= 0 {
		return errors.New("importer config: ReportInterval must be greater than 0")
	}
	if c.MaxRetries <= 0 {
		return errors.New("importer config: MaxRetries must be greater than 0")
	}
	return nil
}

// Result describes a finished import.
type Result struct {
	Source      string
	Fingerprint core.ID
	RuleCount   int
	Skipped     bool // The store already held these rules
	Elapsed     time.Duration
}

// Importer writes rule sources into a rule store.
type Importer struct {
	rules     storage.RuleRepository
	manifests storage.ManifestRepository
	config    *Config
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithLogger sets the logger for the importer.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		if logger != nil {
			im.logger = logger
		}
		return nil
	}
}

// NewImporter creates a new importer.
// progress: where to write progress output (typically os.Stderr); nil discards it
func NewImporter(ruleRepo storage.RuleRepository, manifestRepo storage.ManifestRepository, config *Config, progress io.Writer, opts ...Option) (*Importer, error) {
	if ruleRepo == nil {
		return nil, ErrRuleRepositoryRequired
	}
	if manifestRepo == nil {
		return nil, ErrManifestRepositoryRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	im := &Importer{
		rules:     ruleRepo,
		manifests: manifestRepo,
		config:    config,
		progress:  progress,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(im); err != nil {
			return nil, err
		}
	}
	return im, nil
}

// ImportFile reads the rule source at path and imports it under that name.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	rows, err := rulefile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, path, rows)
}

// Import replaces the stored rules with rows.
// rows are validated as a whole before anything is written. The new rules
// are staged and swapped in only after every batch is written, so a failed
// import leaves the previous rules in place.
func (im *Importer) Import(ctx context.Context, source string, rows [][]string) (*Result, error) {
	table, err := rules.Build(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	ruleSet := table.Rules()
	fingerprint := fingerprintOf(ruleSet)

	result := &Result{
		Source:      source,
		Fingerprint: fingerprint,
		RuleCount:   len(ruleSet),
	}

	if !im.config.Force {
		current, err := im.isCurrent(ctx, source, fingerprint)
		if err != nil {
			return nil, err
		}
		if current {
			im.logger.Info("rule store already up to date", "source", source, "rules", len(ruleSet))
			result.Skipped = true
			return result, nil
		}
	}

	stage, err := im.rules.ReplaceRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start rule replacement: %w", err)
	}

	fmt.Fprintf(im.progress, "Importing %d rules from %s (batch size: %d)\n",
		len(ruleSet), source, im.config.BatchSize)

	tracker := NewProgressTracker(im.progress, len(ruleSet), im.config.ReportInterval)
	tracker.Start()

	if err := im.writeBatches(ctx, stage, ruleSet, tracker); err != nil {
		// The stored rules are untouched until Commit.
		if discardErr := stage.Discard(ctx); discardErr != nil {
			im.logger.Warn("failed to discard staged rules", "source", source, "err", discardErr)
		}
		return nil, err
	}
	if err := stage.Commit(ctx); err != nil {
		if discardErr := stage.Discard(ctx); discardErr != nil {
			im.logger.Warn("failed to discard staged rules", "source", source, "err", discardErr)
		}
		return nil, fmt.Errorf("failed to commit rules: %w", err)
	}

	tracker.Finish()

	manifest := &core.Manifest{
		Source:      source,
		Fingerprint: fingerprint,
		RuleCount:   len(ruleSet),
	}
	if err := im.manifests.SaveManifest(ctx, manifest); err != nil {
		return nil, fmt.Errorf("failed to save manifest: %w", err)
	}

	result.Elapsed = tracker.Elapsed()
	im.logger.Info("imported rules", "source", source, "rules", len(ruleSet), "elapsed", result.Elapsed)
	return result, nil
}

// writeBatches adds ruleSet to stage in batches of the configured size.
func (im *Importer) writeBatches(ctx context.Context, stage storage.RuleStage, ruleSet []core.Rule, tracker *ProgressTracker) error {
	for start := 0; start < len(ruleSet); start += im.config.BatchSize {
		end := min(start+im.config.BatchSize, len(ruleSet))
		batch := make([]*core.Rule, 0, end-start)
		for i := start; i < end; i++ {
			rule := ruleSet[i]
			batch = append(batch, &rule)
		}

		err := retryWithBackoff(ctx, func() error {
			_, err := stage.AddRules(ctx, batch...)
			return err
		}, im.config.MaxRetries, im.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to write rules %d-%d: %w", start, end-1, err)
		}
		tracker.Add(len(batch))
	}
	return nil
}

// isCurrent reports whether the store holds exactly the rules fingerprinted
// by fingerprint as the last import of source.
func (im *Importer) isCurrent(ctx context.Context, source string, fingerprint core.ID) (bool, error) {
	manifest, err := im.manifests.LoadManifest(ctx, source)
	if err != nil {
		return false, fmt.Errorf("failed to load manifest: %w", err)
	}
	if manifest == nil || manifest.Fingerprint != fingerprint {
		return false, nil
	}

	// Another source may have been imported since.
	stored, err := im.rules.GetRules(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read stored rules: %w", err)
	}
	storedRules := make([]core.Rule, len(stored))
	for i, r := range stored {
		storedRules[i] = *r
	}
	return fingerprintOf(storedRules) == fingerprint, nil
}

// fingerprintOf hashes rules in rule source form, ignoring IDs.
func fingerprintOf(ruleSet []core.Rule) core.ID {
	rows := make([][]string, len(ruleSet))
	for i, r := range ruleSet {
		rows[i] = []string{r.Left, r.Right, r.Combined}
	}
	return rulefile.Fingerprint(rows)
}
