// Package translit converts IAST romanized Sanskrit to SLP1.
package translit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// iastToSLP1 maps IAST sequences to their SLP1 letters.
// Keys are at most two runes long and in NFC.
var iastToSLP1 = map[string]string{
	// Vowels
	"ā": "A", "ī": "I", "ū": "U",
	"ṛ": "f", "ṝ": "F", "ḷ": "x", "ḹ": "X",
	"ai": "E", "au": "O",

	// Anusvara, visarga, candrabindu
	"ṃ": "M", "ṁ": "M", "ḥ": "H", "m̐": "~",

	// Aspirated stops
	"kh": "K", "gh": "G",
	"ch": "C", "jh": "J",
	"ṭh": "W", "ḍh": "Q",
	"th": "T", "dh": "D",
	"ph": "P", "bh": "B",

	// Other consonants
	"ṅ": "N", "ñ": "Y",
	"ṭ": "w", "ḍ": "q", "ṇ": "R",
	"ś": "S", "ṣ": "z",

	// Avagraha
	"’": "'",
}

// ToSLP1 transliterates IAST text to SLP1.
// Input is NFC-normalized and lowercased first. Characters without an
// IAST mapping, including plain ASCII letters shared by both schemes,
// pass through unchanged.
func ToSLP1(s string) string {
	runes := []rune(strings.ToLower(norm.NFC.String(s)))

	var b strings.Builder
	b.Grow(len(runes))
	for i := 0; i < len(runes); {
		if i+1 < len(runes) {
			if out, ok := iastToSLP1[string(runes[i:i+2])]; ok {
				b.WriteString(out)
				i += 2
				continue
			}
		}
		if out, ok := iastToSLP1[string(runes[i])]; ok {
			b.WriteString(out)
		} else {
			b.WriteRune(runes[i])
		}
		i++
	}
	return b.String()
}
