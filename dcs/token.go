package dcs

import (
	"fmt"
	"strings"
)

// Token is one annotated word of a DCS CoNLL-U file.
type Token struct {
	Form     string
	Lemma    string
	UPOS     string
	Features map[string]string
}

// ParseToken parses a CoNLL-U token line.
// Only the FORM, LEMMA, UPOS and FEATS columns are kept.
func ParseToken(line string) (*Token, error) {
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(cols) != 10 {
		return nil, fmt.Errorf("%w: expected 10 columns, got %d", ErrMalformedToken, len(cols))
	}

	return &Token{
		Form:     cols[1],
		Lemma:    cols[2],
		UPOS:     cols[3],
		Features: ParseFeatures(cols[5]),
	}, nil
}

// ParseFeatures parses a CoNLL-U FEATS column such as "Case=Nom|Number=Sing".
// "_" and the empty string yield an empty map.
func ParseFeatures(s string) map[string]string {
	features := make(map[string]string)
	if s == "" || s == "_" {
		return features
	}
	for _, pair := range strings.Split(s, "|") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		features[key] = value
	}
	return features
}
