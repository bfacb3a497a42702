package split

import (
	"fmt"
	"strings"
)

// WindowBound selects which window lengths are probed at each split position.
type WindowBound int

const (
	// WindowInclusive probes windows of length 1 through the maximum key length.
	WindowInclusive WindowBound = iota
	// WindowLegacy probes windows of length 0 through maximum key length - 1,
	// stopping one rune short of the end of the input.
	WindowLegacy
)

// String returns the flag spelling of the bound.
func (w WindowBound) String() string {
	switch w {
	case WindowInclusive:
		return "inclusive"
	case WindowLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("WindowBound(%d)", int(w))
	}
}

// ParseWindowBound parses "inclusive" or "legacy".
func ParseWindowBound(s string) (WindowBound, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inclusive", "":
		return WindowInclusive, nil
	case "legacy":
		return WindowLegacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidWindowBound, s)
	}
}

// Config holds the tunable parts of split enumeration.
type Config struct {
	// Window selects the probed window lengths.
	// Default: WindowInclusive
	Window WindowBound

	// IncludeTrailing adds the split position at the very end of the input.
	// Default: false
	IncludeTrailing bool

	// PreserveForm skips NFC normalization of the input. Rule files are
	// normalized on load, so decomposed input only matches when this is false.
	// Default: false
	PreserveForm bool
}

// DefaultConfig returns the default enumeration settings.
func DefaultConfig() *Config {
	return &Config{
		Window:          WindowInclusive,
		IncludeTrailing: false,
		PreserveForm:    false,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Window != WindowInclusive && c.Window != WindowLegacy {
		return fmt.Errorf("split config: %w: %d", ErrInvalidWindowBound, int(c.Window))
	}
	return nil
}

// windowRange returns the first and last window lengths to probe at a
// position with remaining runes left, for a table whose longest key is maxKey.
// The range is empty when first > last.
func (c *Config) windowRange(maxKey, remaining int) (first, last int) {
	switch c.Window {
	case WindowLegacy:
		return 0, min(maxKey, remaining) - 1
	default:
		return 1, min(maxKey, remaining)
	}
}
