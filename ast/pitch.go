package ast

import "fmt"

// Step is a diatonic pitch class, ranked C..B so that stepping "up" means
// increasing rank and wrapping at the B/C boundary changes octave.
type Step int

const (
	StepC Step = iota
	StepD
	StepE
	StepF
	StepG
	StepA
	StepB
)

func (s Step) String() string {
	names := [...]string{"C", "D", "E", "F", "G", "A", "B"}
	if s < StepC || s > StepB {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return names[s]
}

// stepsPerOctave is the number of diatonic steps, used to wrap a stacked
// step value back into 0..6 while bumping the octave.
const stepsPerOctave = 7

// Accidental is the written alteration sign on a note or chord interval.
// The wider taxonomy (triple sharps/flats included) is used throughout,
// rather than single-accidental-only, so key signatures beyond seven
// sharps or flats still resolve correctly.
type Accidental int

const (
	Natural Accidental = iota
	Flat
	DoubleFlat
	TripleFlat
	Sharp
	DoubleSharp
	TripleSharp
)

// Alter is the signed semitone (well, diatonic-alteration unit) offset of
// an accidental: natural=0, flat=-1, double_flat=-2, triple_flat=-3,
// sharp=1, double_sharp=2, triple_sharp=3.
func (a Accidental) Alter() int {
	switch a {
	case Flat:
		return -1
	case DoubleFlat:
		return -2
	case TripleFlat:
		return -3
	case Sharp:
		return 1
	case DoubleSharp:
		return 2
	case TripleSharp:
		return 3
	default:
		return 0
	}
}

func (a Accidental) String() string {
	switch a {
	case Natural:
		return "natural"
	case Flat:
		return "flat"
	case DoubleFlat:
		return "double_flat"
	case TripleFlat:
		return "triple_flat"
	case Sharp:
		return "sharp"
	case DoubleSharp:
		return "double_sharp"
	case TripleSharp:
		return "triple_sharp"
	default:
		return fmt.Sprintf("Accidental(%d)", int(a))
	}
}

// Interval is a diatonic interval class ranked 1 (second) through 7
// (octave). Steps returns how many diatonic steps it spans, which is the
// rank itself (a second moves one step, an octave moves seven).
type Interval struct {
	Rank int // 1..7
}

func (i Interval) Steps() int { return i.Rank }

func (i Interval) IsValid() bool { return i.Rank >= 1 && i.Rank <= 7 }

// KeySignature is a signed accidental count. The plain ±7 range covers
// every real-world key; the wider ±14 range accommodates the theoretical
// keys used to notate double-sharp/double-flat key signatures that some
// braille transcriptions carry.
type KeySignature int

// TimeSignature preserves both the original integer numerator/denominator
// (braille encodes these literally) and exposes their rational value.
type TimeSignature struct {
	Numerator, Denominator int
}

func (t TimeSignature) Rational() Rational {
	return NewRational(int64(t.Numerator), int64(t.Denominator))
}

func (t TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
}

// Beat is the rational length of one beat under this time signature,
// 1/Denominator — the unit the disambiguator uses for "on beat" checks.
func (t TimeSignature) Beat() Rational {
	return NewRational(1, int64(t.Denominator))
}

// Pitched holds the fields shared by a Note and a chord/moving-note
// Interval: an optional explicit accidental/octave mark plus the fields
// the octave and alteration calculators fill in.
type Pitched struct {
	ExplicitAccidental *Accidental
	OctaveSpec         *int // explicit octave mark, 0..9, nil if absent
	Step               Step
	Octave             int // filled in by the octave calculator
	Alter              int // filled in by the alteration calculator
	Tie                *Tie
}
