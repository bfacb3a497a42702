package split

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/poiesic/sandhi/core"
	"github.com/poiesic/sandhi/rules"
	"golang.org/x/text/unicode/norm"
)

// Splitter enumerates candidate splits against a fixed rule table.
// A Splitter holds no mutable state and may be used from multiple goroutines.
type Splitter struct {
	table  *rules.Table
	config *Config
	logger *slog.Logger
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithConfig replaces the enumeration settings.
func WithConfig(config *Config) Option {
	return func(s *Splitter) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		cfg := *config
		s.config = &cfg
		return nil
	}
}

// WithWindowBound sets which window lengths are probed.
// Default is WindowInclusive.
func WithWindowBound(bound WindowBound) Option {
	return func(s *Splitter) error {
		cfg := *s.config
		cfg.Window = bound
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.config = &cfg
		return nil
	}
}

// WithTrailingPosition controls whether the end of the input is a split position.
// Default is false.
func WithTrailingPosition(include bool) Option {
	return func(s *Splitter) error {
		cfg := *s.config
		cfg.IncludeTrailing = include
		s.config = &cfg
		return nil
	}
}

// WithPreserveForm controls whether input is split as given instead of
// NFC-normalized first. Default is false.
func WithPreserveForm(preserve bool) Option {
	return func(s *Splitter) error {
		cfg := *s.config
		cfg.PreserveForm = preserve
		s.config = &cfg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Splitter) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Splitter over table.
func New(table *rules.Table, opts ...Option) (*Splitter, error) {
	if table == nil {
		return nil, ErrTableRequired
	}

	s := &Splitter{
		table:  table,
		config: DefaultConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Split is a convenience wrapper that builds a Splitter and enumerates input once.
func Split(input string, table *rules.Table, opts ...Option) ([]core.Candidate, error) {
	s, err := New(table, opts...)
	if err != nil {
		return nil, err
	}
	return s.Split(input)
}

// Table returns the rule table the Splitter searches.
func (s *Splitter) Table() *rules.Table {
	return s.table
}

// Split returns every candidate split of input in enumeration order.
// Returns core.ErrEmptyTable if the table has no rules.
func (s *Splitter) Split(input string) ([]core.Candidate, error) {
	return s.SplitWithMonitor(input, nil)
}

// SplitWithMonitor is Split with a monitor receiving callbacks during enumeration.
func (s *Splitter) SplitWithMonitor(input string, monitor Monitor) ([]core.Candidate, error) {
	seq, err := s.candidates(input, monitor)
	if err != nil {
		s.logger.Debug("cannot split input", "input", input, "err", err)
		return nil, err
	}
	return slices.Collect(seq), nil
}

// All returns a lazy sequence of candidate splits of input.
// The table is checked before the sequence is returned, so a nil error
// means iteration cannot fail.
func (s *Splitter) All(input string) (iter.Seq[core.Candidate], error) {
	return s.candidates(input, nil)
}

func (s *Splitter) candidates(input string, monitor Monitor) (iter.Seq[core.Candidate], error) {
	maxKey, err := s.table.MaxKeyLength()
	if err != nil {
		return nil, err
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	cfg := s.config
	table := s.table
	if !cfg.PreserveForm {
		input = norm.NFC.String(input)
	}

	return func(yield func(core.Candidate) bool) {
		// bounds[k] is the byte offset of rune k; bounds[n] == len(input).
		bounds := runeBounds(input)
		n := len(bounds) - 1

		last := n - 1
		if cfg.IncludeTrailing {
			last = n
		}

		count := 0
		monitor.Start(input, maxKey)
		defer func() { monitor.Finish(count) }()

		emit := func(c core.Candidate) bool {
			count++
			monitor.Emit(c)
			return yield(c)
		}

		for i := 0; i <= last; i++ {
			head := input[:bounds[i]]
			if !emit(core.Candidate{Prefix: head, Suffix: input[bounds[i]:], Position: i}) {
				return
			}

			first, lastWindow := cfg.windowRange(maxKey, n-i)
			for w := first; w <= lastWindow; w++ {
				key := input[bounds[i]:bounds[i+w]]
				tail := input[bounds[i+w]:]
				matches := 0
				for pair := range table.Pairs(key) {
					matches++
					c := core.Candidate{
						Prefix:   head + pair.Left,
						Suffix:   pair.Right + tail,
						Position: i,
						Window:   w,
						Key:      key,
					}
					if !emit(c) {
						return
					}
				}
				monitor.Probe(i, key, matches)
			}
		}
	}, nil
}

// runeBounds returns the byte offset of every rune in s followed by len(s).
func runeBounds(s string) []int {
	bounds := make([]int, 0, len(s)+1)
	for i := range s {
		bounds = append(bounds, i)
	}
	return append(bounds, len(s))
}
