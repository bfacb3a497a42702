package dcs

// Linga is grammatical gender.
type Linga int

const (
	LingaNone Linga = iota
	Pum
	Stri
	Napumsaka
)

func (l Linga) String() string {
	switch l {
	case Pum:
		return "pum"
	case Stri:
		return "stri"
	case Napumsaka:
		return "napumsaka"
	default:
		return "none"
	}
}

// Vibhakti is grammatical case.
type Vibhakti int

const (
	VibhaktiNone Vibhakti = iota
	V1
	V2
	V3
	V4
	V5
	V6
	V7
	Sambodhana
)

func (v Vibhakti) String() string {
	switch v {
	case V1, V2, V3, V4, V5, V6, V7:
		return "v" + string(rune('0'+int(v)))
	case Sambodhana:
		return "sambodhana"
	default:
		return "none"
	}
}

// Vacana is grammatical number.
type Vacana int

const (
	VacanaNone Vacana = iota
	Eka
	Dvi
	Bahu
)

func (v Vacana) String() string {
	switch v {
	case Eka:
		return "eka"
	case Dvi:
		return "dvi"
	case Bahu:
		return "bahu"
	default:
		return "none"
	}
}

// Purusha is grammatical person.
type Purusha int

const (
	PurushaNone Purusha = iota
	Prathama
	Madhyama
	Uttama
)

func (p Purusha) String() string {
	switch p {
	case Prathama:
		return "prathama"
	case Madhyama:
		return "madhyama"
	case Uttama:
		return "uttama"
	default:
		return "none"
	}
}

// Lakara is tense and mood of a finite verb.
type Lakara int

const (
	LakaraNone Lakara = iota
	Lat
	Lit
	Lut
	Lrt
	Let
	Lot
	Lan
	LinVidhi
	LinAshih
	Lun
	LunNoAgama
	Lrn
)

var lakaraNames = [...]string{
	LakaraNone: "none",
	Lat:        "lat",
	Lit:        "lit",
	Lut:        "lut",
	Lrt:        "lrt",
	Let:        "let",
	Lot:        "lot",
	Lan:        "lan",
	LinVidhi:   "vidhi-lin",
	LinAshih:   "ashir-lin",
	Lun:        "lun",
	LunNoAgama: "lun-no-agama",
	Lrn:        "lrn",
}

func (l Lakara) String() string {
	if l < 0 || int(l) >= len(lakaraNames) {
		return "none"
	}
	return lakaraNames[l]
}

// StemTense is the tense of a participle stem.
type StemTense int

const (
	StemTenseNone StemTense = iota
	Past
	Present
	Future
)

func (t StemTense) String() string {
	switch t {
	case Past:
		return "past"
	case Present:
		return "present"
	case Future:
		return "future"
	default:
		return "none"
	}
}

// StemPrayoga is the voice of a participle stem.
type StemPrayoga int

const (
	StemPrayogaNone StemPrayoga = iota
	Kartari
	Karmani
)

// VerbPada is the verb's voice (parasmaipada or atmanepada).
type VerbPada int

const (
	VerbPadaNone VerbPada = iota
	Parasmai
	Atmane
)

// Stem is a nominal stem.
// It is either a BasicStem or a KrdantaStem.
type Stem interface {
	isStem()
}

// BasicStem is a stem listed as-is.
type BasicStem struct {
	Stem   string
	Lingas []Linga
}

// KrdantaStem is a stem derived from a verb root.
type KrdantaStem struct {
	Root    string
	Tense   StemTense
	Prayoga StemPrayoga
}

func (BasicStem) isStem()   {}
func (KrdantaStem) isStem() {}

// Semantics describes what a word means grammatically.
// It is one of Subanta, Tinanta, Avyaya or NoSemantics.
type Semantics interface {
	isSemantics()
}

// Subanta is an inflected nominal.
type Subanta struct {
	Stem        Stem
	Linga       Linga
	Vacana      Vacana
	Vibhakti    Vibhakti
	IsPurvapada bool
}

// Tinanta is an inflected finite verb.
type Tinanta struct {
	Root    string
	Purusha Purusha
	Vacana  Vacana
	Lakara  Lakara
	Pada    VerbPada
}

// Avyaya is an indeclinable.
type Avyaya struct{}

// NoSemantics marks a word with no grammatical analysis.
type NoSemantics struct{}

func (Subanta) isSemantics()     {}
func (Tinanta) isSemantics()     {}
func (Avyaya) isSemantics()      {}
func (NoSemantics) isSemantics() {}

// ParsedWord is a standardized word.
type ParsedWord struct {
	Text      string
	Semantics Semantics
}
