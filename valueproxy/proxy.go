// Package valueproxy implements the transient, POD-like candidate handles
// the partial-voice interpreter builds while searching for a legal
// rhythmic reading of a measure. A proxy never mutates the AST; only
// Accept, called on the single winning interpretation's proxies, writes
// the resolved fields back.
package valueproxy

import "braillemusic/ast"

// Kind records which concrete sign a Proxy refers back to.
type Kind int

const (
	NoteKind Kind = iota
	RestKind
	WholeMeasureRestKind
	ChordKind
	MovingNoteKind
	SimileKind
)

// Proxy is one candidate interpretation of one rhythmic sign.
type Proxy struct {
	Kind      Kind
	Category  ast.Category
	ValueType ast.AmbiguousValue
	Dots      int

	// Duration is the cached, fully-resolved rational duration of this
	// candidate: undotted value, dotted out, times the active tuplet
	// factor (or, for a whole-measure rest/simile, the literal span it
	// stands for).
	Duration ast.Rational

	// Tuplet bookkeeping, applied uniformly to every proxy created in the
	// same interpreter recursion step.
	Factor      ast.Rational
	TupletBegin []ast.TupletMarker
	TupletEnd   int
	NoteGroup   ast.NoteGroupRole

	note       *ast.Note
	rest       *ast.Rest
	chord      *ast.Chord
	movingNote *ast.MovingNote
	simile     *ast.Simile
}

func undotted(category ast.Category, valueType ast.AmbiguousValue) ast.Rational {
	return ast.Undotted[category][valueType]
}

func calculateDuration(category ast.Category, valueType ast.AmbiguousValue, dots int, factor ast.Rational) ast.Rational {
	base := undotted(category, valueType)
	d := ast.Dotted(base, dots)
	if !factor.Equal(ast.One) {
		d = d.Mul(factor)
	}
	return d
}

// noFactor is used by constructors invoked outside of tuplet context (the
// factor is then attached afterwards with WithTuplet).
var noFactor = ast.One

// NewNote builds a proxy for note interpreted in the given family, keeping
// the sign's own ambiguous value class.
func NewNote(note *ast.Note, category ast.Category) Proxy {
	return NewNoteAs(note, category, note.AmbiguousValue)
}

// NewNoteAs builds a proxy for note forced into valueType (used by note
// groups, which override the sign's own class with the leading sign's).
func NewNoteAs(note *ast.Note, category ast.Category, valueType ast.AmbiguousValue) Proxy {
	return Proxy{
		Kind:      NoteKind,
		Category:  category,
		ValueType: valueType,
		Dots:      note.Dots,
		Factor:    noFactor,
		Duration:  calculateDuration(category, valueType, note.Dots, noFactor),
		note:      note,
	}
}

func NewRest(rest *ast.Rest, category ast.Category) Proxy {
	return NewRestAs(rest, category, rest.AmbiguousValue)
}

func NewRestAs(rest *ast.Rest, category ast.Category, valueType ast.AmbiguousValue) Proxy {
	return Proxy{
		Kind:      RestKind,
		Category:  category,
		ValueType: valueType,
		Dots:      rest.Dots,
		Factor:    noFactor,
		Duration:  calculateDuration(category, valueType, rest.Dots, noFactor),
		rest:      rest,
	}
}

// NewWholeMeasureRest builds the special proxy for a bare rest standing
// for an entire measure.
func NewWholeMeasureRest(rest *ast.Rest, measureDuration ast.Rational) Proxy {
	return Proxy{
		Kind:     WholeMeasureRestKind,
		Duration: measureDuration,
		rest:     rest,
	}
}

func NewChord(chord *ast.Chord, category ast.Category) Proxy {
	return NewChordAs(chord, category, chord.Base.AmbiguousValue)
}

func NewChordAs(chord *ast.Chord, category ast.Category, valueType ast.AmbiguousValue) Proxy {
	return Proxy{
		Kind:      ChordKind,
		Category:  category,
		ValueType: valueType,
		Dots:      chord.Base.Dots,
		Factor:    noFactor,
		Duration:  calculateDuration(category, valueType, chord.Base.Dots, noFactor),
		chord:     chord,
	}
}

func NewMovingNote(mn *ast.MovingNote, category ast.Category) Proxy {
	return NewMovingNoteAs(mn, category, mn.Base.AmbiguousValue)
}

func NewMovingNoteAs(mn *ast.MovingNote, category ast.Category, valueType ast.AmbiguousValue) Proxy {
	return Proxy{
		Kind:       MovingNoteKind,
		Category:   category,
		ValueType:  valueType,
		Dots:       mn.Base.Dots,
		Factor:     noFactor,
		Duration:   calculateDuration(category, valueType, mn.Base.Dots, noFactor),
		movingNote: mn,
	}
}

// NewSimile builds a proxy standing for simile.Count repetitions of
// perRepeatDuration (either the previous measure's duration, for a
// full-measure simile, or the current measure's music-so-far, for a
// partial-measure simile).
func NewSimile(simile *ast.Simile, perRepeatDuration ast.Rational) Proxy {
	return Proxy{
		Kind:     SimileKind,
		Duration: perRepeatDuration.MulInt(int64(simile.Count)),
		simile:   simile,
	}
}

// WithTuplet returns a copy of p with the active tuplet state applied: the
// duration is rescaled by factor (relative to the no-tuplet duration this
// proxy was built with) and the rendering markers are attached. Rest,
// Chord and MovingNote share the note-shaped tuplet treatment; a
// whole-measure rest or simile is never inside a tuplet.
func (p Proxy) WithTuplet(factor ast.Rational, begin []ast.TupletMarker, end int) Proxy {
	if p.Kind == WholeMeasureRestKind || p.Kind == SimileKind {
		return p
	}
	p.Duration = calculateDuration(p.Category, p.ValueType, p.Dots, factor)
	p.Factor = factor
	p.TupletBegin = begin
	p.TupletEnd = end
	return p
}

// WithNoteGroup marks p as the begin/middle/end member of a disambiguated
// note group.
func (p Proxy) WithNoteGroup(role ast.NoteGroupRole) Proxy {
	p.NoteGroup = role
	return p
}

// Rational is the value-as-rational operation: the cached duration,
// exposed for arithmetic and comparison by the composer/disambiguator.
func (p Proxy) Rational() ast.Rational { return p.Duration }

// Accept writes this proxy's resolved interpretation back into the sign
// it refers to. Called only on proxies belonging to the single winning
// measure interpretation.
func (p Proxy) Accept() {
	switch p.Kind {
	case NoteKind:
		p.note.Type = undotted(p.Category, p.ValueType)
		p.note.NoteGroup = p.NoteGroup
		p.note.Factor = p.Factor
		p.note.TupletBegin = p.TupletBegin
		p.note.TupletEnd = p.TupletEnd
	case RestKind:
		p.rest.Type = undotted(p.Category, p.ValueType)
		p.rest.NoteGroup = p.NoteGroup
		p.rest.Factor = p.Factor
		p.rest.TupletBegin = p.TupletBegin
		p.rest.TupletEnd = p.TupletEnd
	case WholeMeasureRestKind:
		p.rest.Type = p.Duration
		p.rest.WholeMeasure = true
	case ChordKind:
		p.chord.Base.Type = undotted(p.Category, p.ValueType)
		p.chord.Base.NoteGroup = p.NoteGroup
		p.chord.Base.Factor = p.Factor
		p.chord.Base.TupletBegin = p.TupletBegin
		p.chord.Base.TupletEnd = p.TupletEnd
	case MovingNoteKind:
		p.movingNote.Base.Type = undotted(p.Category, p.ValueType)
		p.movingNote.Base.NoteGroup = p.NoteGroup
		p.movingNote.Base.Factor = p.Factor
		p.movingNote.Base.TupletBegin = p.TupletBegin
		p.movingNote.Base.TupletEnd = p.TupletEnd
	case SimileKind:
		p.simile.Duration = p.Duration
	}
}

// Duration sums a slice of proxies (used by the interpreter/composer to
// total a partial voice).
func Duration(values []Proxy) ast.Rational {
	total := ast.Zero
	for _, v := range values {
		total = total.Add(v.Rational())
	}
	return total
}
