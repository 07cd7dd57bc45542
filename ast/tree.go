package ast

// PartialVoice is a sequence of signs read left to right.
type PartialVoice struct {
	ID    int
	Signs []Sign
}

// PartialMeasure is a list of partial voices played simultaneously — a
// braille "partial in-accord".
type PartialMeasure struct {
	ID     int
	Voices []*PartialVoice
}

// Voice is a sequence of partial measures played one after another inside
// a measure.
type Voice struct {
	ID    int
	Parts []*PartialMeasure
}

// Measure is an ordered set of voices that, once resolved, all share one
// total duration.
type Measure struct {
	ID     int
	Ending *int
	Voices []*Voice
}

func (m *Measure) isStaffElement() {}

// KeyAndTimeSignature changes the prevailing key and/or time signature at
// the point it occurs in a staff.
type KeyAndTimeSignature struct {
	ID   int
	Key  KeySignature
	Time TimeSignature
}

func (k *KeyAndTimeSignature) isStaffElement() {}

// StaffElement is either a Measure or a KeyAndTimeSignature, in the order
// they appear in a staff's music.
type StaffElement interface {
	isStaffElement()
}

// Paragraph is a run of staff elements sharing one line of engraving.
type Paragraph struct {
	Elements []StaffElement
}

// Section optionally carries a number or range (e.g. a movement or verse
// number) and groups the paragraphs that belong to it.
type Section struct {
	Number     *int
	RangeFrom  *int
	RangeTo    *int
	Paragraphs []*Paragraph
}

// Elements flattens a section's paragraphs into one ordered stream of
// staff elements — the shape every compiler pass actually consumes, since
// paragraph breaks are a layout concern, not a musical one.
func (s *Section) Elements() []StaffElement {
	var out []StaffElement
	for _, p := range s.Paragraphs {
		out = append(out, p.Elements...)
	}
	return out
}

// Staff is one continuous line of music for one hand/voice group within a
// Part — in a piano score, a Part normally holds two Staves (right hand,
// left hand). It sits between Part and Section because a part's two
// hands read independently of each other but each hand's own music still
// breaks into sections and paragraphs.
type Staff struct {
	Sections []*Section
}

// Elements flattens every section's staff elements into one ordered
// stream, which is the unit the driver (§4.8) processes per staff.
func (s *Staff) Elements() []StaffElement {
	var out []StaffElement
	for _, sec := range s.Sections {
		out = append(out, sec.Elements()...)
	}
	return out
}

// Part is one instrument's music: one staff, or two for a grand staff
// instrument such as piano (right hand then left hand).
type Part struct {
	Staves []*Staff
}

// Score is the root of the ambiguous AST the driver compiles.
type Score struct {
	KeySig      KeySignature
	TimeSig     *TimeSignature
	Parts       []*Part
	UnfoldedPart []UnfoldedPart
}

// Duration returns the rational duration of any node the disambiguator has
// already resolved: the sum over children for the sequential containers
// (PartialVoice, Voice), the first child's duration for the simultaneous
// ones (PartialMeasure, Measure), and the sign's own FullDuration for a
// leaf rhythmic sign. Exposed for
// whatever back-end consumes a resolved score.
func Duration(node any) Rational {
	switch n := node.(type) {
	case Rhythmic:
		return n.Rhythm().FullDuration()
	case *Simile:
		return n.Duration
	case *PartialVoice:
		total := Zero
		for _, s := range n.Signs {
			total = total.Add(Duration(s))
		}
		return total
	case *PartialMeasure:
		if len(n.Voices) == 0 {
			return Zero
		}
		return Duration(n.Voices[0])
	case *Voice:
		total := Zero
		for _, pm := range n.Parts {
			total = total.Add(Duration(pm))
		}
		return total
	case *Measure:
		if len(n.Voices) == 0 {
			return Zero
		}
		return Duration(n.Voices[0])
	default:
		return Zero
	}
}
