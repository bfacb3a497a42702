package dcs

import (
	"strings"

	"github.com/poiesic/sandhi/translit"
)

// Standardize converts a DCS token into a ParsedWord.
// The word text is the standardized lemma, since DCS does not consistently
// record the surface form.
// Panics with *UnknownCategoryError if t.UPOS is not a known category.
func Standardize(t *Token) (*ParsedWord, error) {
	var semantics Semantics
	var err error

	switch t.UPOS {
	case "NOUN", "PRON", "ADJ", "PART", "NUM":
		semantics, err = parseSubanta(t)
	case "CCONJ", "SCONJ", "ADV":
		semantics = Avyaya{}
	case "VERB":
		if _, ok := t.Features["VerbForm"]; ok {
			semantics, err = parseParticiple(t)
		} else {
			semantics, err = parseVerb(t)
		}
	case "MANTRA":
		semantics = NoSemantics{}
	default:
		panic(&UnknownCategoryError{UPOS: t.UPOS})
	}
	if err != nil {
		return nil, err
	}

	return &ParsedWord{
		Text:      StandardizeLemma(t.Lemma),
		Semantics: semantics,
	}, nil
}

// StandardizeLemma converts a DCS lemma to SLP1 and to the citation forms
// expected by sandhi tooling.
func StandardizeLemma(raw string) string {
	lemma := translit.ToSLP1(raw)

	// Bagavant, hanumant
	if fragment, ok := strings.CutSuffix(lemma, "ant"); ok {
		return fragment + "at"
	}
	// kIrtay
	if fragment, ok := strings.CutSuffix(lemma, "ay"); ok {
		return fragment
	}

	switch lemma {
	case "mad":
		return "asmad"
	case "tvad":
		return "yuzmad"
	case "ka":
		return "kim"
	}
	return lemma
}

func parseSubanta(t *Token) (Semantics, error) {
	return parseNominal(t, BasicStem{Stem: StandardizeLemma(t.Lemma)})
}

func parseParticiple(t *Token) (Semantics, error) {
	tense, err := parseTense(t.Features)
	if err != nil {
		return nil, err
	}
	return parseNominal(t, KrdantaStem{
		Root:    StandardizeLemma(t.Lemma),
		Tense:   tense,
		Prayoga: StemPrayogaNone,
	})
}

func parseNominal(t *Token, stem Stem) (Semantics, error) {
	linga, err := parseLinga(t.Features)
	if err != nil {
		return nil, err
	}
	vibhakti, err := parseVibhakti(t.Features)
	if err != nil {
		return nil, err
	}
	vacana, err := parseVacana(t.Features)
	if err != nil {
		return nil, err
	}

	return Subanta{
		Stem:        stem,
		Linga:       linga,
		Vacana:      vacana,
		Vibhakti:    vibhakti,
		IsPurvapada: t.Features["Case"] == "Cpd",
	}, nil
}

func parseVerb(t *Token) (Semantics, error) {
	purusha, err := parsePurusha(t.Features)
	if err != nil {
		return nil, err
	}
	vacana, err := parseVacana(t.Features)
	if err != nil {
		return nil, err
	}
	lakara, err := parseLakara(t.Features)
	if err != nil {
		return nil, err
	}

	return Tinanta{
		Root:    StandardizeLemma(t.Lemma),
		Purusha: purusha,
		Vacana:  vacana,
		Lakara:  lakara,
		// DCS does not annotate pada.
		Pada: VerbPadaNone,
	}, nil
}

var (
	tenses = map[string]StemTense{
		"Pres": Present,
		"Past": Past,
		"Fut":  Future,
	}
	lingas = map[string]Linga{
		"Masc": Pum,
		"Fem":  Stri,
		"Neut": Napumsaka,
	}
	vibhaktis = map[string]Vibhakti{
		"Nom": V1,
		"Acc": V2,
		"Ins": V3,
		"Dat": V4,
		"Abl": V5,
		"Gen": V6,
		"Loc": V7,
		"Voc": Sambodhana,
		"Cpd": VibhaktiNone,
	}
	purushas = map[string]Purusha{
		"3": Prathama,
		"2": Madhyama,
		"1": Uttama,
	}
	vacanas = map[string]Vacana{
		"Sing": Eka,
		"Dual": Dvi,
		"Plur": Bahu,
	}
	// Tense and mood pairs without an entry map to LakaraNone.
	lakaras = map[[2]string]Lakara{
		{"Aor", "Ind"}:  Lun,
		{"Aor", "Jus"}:  LunNoAgama,
		{"Aor", "Prec"}: LinAshih,
		{"Fut", "Cond"}: Lrn,
		{"Fut", "Ind"}:  Lrt,
		{"Impf", "Ind"}: Lan,
		{"Perf", "Ind"}: Lit,
		{"Pres", "Imp"}: Lot,
		{"Pres", "Ind"}: Lat,
		{"Pres", "Opt"}: LinVidhi,
		{"Pres", "Sub"}: Lot,
	}
)

// lookupFeature maps an optional feature through table.
// A missing feature yields the zero value; an unmapped one is an error.
func lookupFeature[T any](features map[string]string, name string, table map[string]T) (T, error) {
	var zero T
	value, ok := features[name]
	if !ok {
		return zero, nil
	}
	mapped, ok := table[value]
	if !ok {
		return zero, &ConversionError{Value: value}
	}
	return mapped, nil
}

func parseTense(f map[string]string) (StemTense, error) {
	return lookupFeature(f, "Tense", tenses)
}

func parseLinga(f map[string]string) (Linga, error) {
	return lookupFeature(f, "Gender", lingas)
}

func parseVibhakti(f map[string]string) (Vibhakti, error) {
	return lookupFeature(f, "Case", vibhaktis)
}

func parsePurusha(f map[string]string) (Purusha, error) {
	return lookupFeature(f, "Person", purushas)
}

func parseVacana(f map[string]string) (Vacana, error) {
	return lookupFeature(f, "Number", vacanas)
}

func parseLakara(f map[string]string) (Lakara, error) {
	tense, ok := f["Tense"]
	if !ok {
		return LakaraNone, &ConversionError{Value: "`Tense` not found"}
	}
	mood, ok := f["Mood"]
	if !ok {
		return LakaraNone, &ConversionError{Value: "`Mood` not found"}
	}
	return lakaras[[2]string{tense, mood}], nil
}
