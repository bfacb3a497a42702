package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Rule is a single sandhi rule: Left and Right fuse into Combined.
type Rule struct {
	Id       ID
	Left     string
	Right    string
	Combined string
}

// Pair returns the decomposition registered for the rule's combined form.
func (r Rule) Pair() Pair {
	return Pair{Left: r.Left, Right: r.Right}
}

// Pair is one way of undoing a fusion: the two fragments that produced a combined form.
type Pair struct {
	Left  string
	Right string
}

// Candidate is one proposed split of an input string.
type Candidate struct {
	Prefix string
	Suffix string

	Position int    // Rune offset of the split point in the normalized input
	Window   int    // Runes of input replaced by the rule; 0 for the baseline split
	Key      string // Combined form that matched; empty for the baseline split
}

// IsBaseline reports whether the candidate splits the input without undoing any fusion.
func (c Candidate) IsBaseline() bool {
	return c.Key == "" && c.Window == 0
}

// String renders the candidate as "prefix suffix".
func (c Candidate) String() string {
	return c.Prefix + " " + c.Suffix
}

// Manifest records the last import of a rule source into a store.
type Manifest struct {
	Source      string    // Name of the imported source, usually a file path
	Fingerprint ID        // Content hash of the imported rows
	RuleCount   int       // Number of rules written
	ImportedAt  time.Time // When the import finished
}
