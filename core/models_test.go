package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"simple content", "(a,i,e)"},
		{"empty string", ""},
		{"non-ascii content", "(a,i,ē)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("(a,i,e)")
	id2 := IDFromContent("(a,u,o)")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestRule_Pair(t *testing.T) {
	rule := Rule{Left: "a", Right: "i", Combined: "e"}
	if got := rule.Pair(); got != (Pair{Left: "a", Right: "i"}) {
		t.Errorf("Pair() = %+v", got)
	}
}

func TestCandidate(t *testing.T) {
	baseline := Candidate{Prefix: "t", Suffix: "e", Position: 1}
	if !baseline.IsBaseline() {
		t.Error("expected baseline candidate")
	}
	if got := baseline.String(); got != "t e" {
		t.Errorf("String() = %q, want %q", got, "t e")
	}

	fused := Candidate{Prefix: "ta", Suffix: "i", Position: 1, Window: 1, Key: "e"}
	if fused.IsBaseline() {
		t.Error("expected sandhi candidate")
	}
	if got := fused.String(); got != "ta i" {
		t.Errorf("String() = %q, want %q", got, "ta i")
	}

	empty := Candidate{Prefix: "", Suffix: "te"}
	if got := empty.String(); got != " te" {
		t.Errorf("String() = %q, want %q", got, " te")
	}
}
