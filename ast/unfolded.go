package ast

// The unfolded representation mirrors the ambiguous/resolved tree but with
// every Simile sign expanded into the literal material it repeats; all
// other signs are copied through unchanged. The
// unfolder builds this tree alongside the original score without
// mutating the original parts.

// UnfoldedPartialVoice is a PartialVoice with its similes expanded.
type UnfoldedPartialVoice struct {
	ID    int
	Signs []Sign
}

type UnfoldedPartialMeasure struct {
	ID     int
	Voices []*UnfoldedPartialVoice
}

type UnfoldedVoice struct {
	ID    int
	Parts []*UnfoldedPartialMeasure
}

// UnfoldedMeasure is one literal copy of a measure; Count records how many
// identical copies it stands for when it is the product of a full-measure
// simile collapsed for compactness (this implementation always expands to
// Count==1 literal measures — see unfold package — but the field is kept
// so a renderer may choose to re-collapse them).
type UnfoldedMeasure struct {
	ID     int
	Ending *int
	Voices []*UnfoldedVoice
	Count  int
}

func (m *UnfoldedMeasure) isUnfoldedStaffElement() {}

// UnfoldedStaffElement is either an UnfoldedMeasure or a pass-through
// KeyAndTimeSignature.
type UnfoldedStaffElement interface {
	isUnfoldedStaffElement()
}

func (k *KeyAndTimeSignature) isUnfoldedStaffElement() {}

type UnfoldedStaff struct {
	Elements []UnfoldedStaffElement
}

type UnfoldedPart struct {
	Staves []*UnfoldedStaff
}
