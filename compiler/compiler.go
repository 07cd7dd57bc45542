// Package compiler orchestrates the four resolution passes over a
// score: value disambiguation, octave calculation, alteration
// calculation, then unfolding, run per staff in source order.
package compiler

import (
	"braillemusic/alteration"
	"braillemusic/ast"
	"braillemusic/disambiguate"
	"braillemusic/octave"
	"braillemusic/unfold"
)

// ReportError is the caller-supplied diagnostic callback: invoked with
// the source-position id of the offending node and a human-readable
// message.
type ReportError func(id int, message string)

// Compile runs the resolution pipeline over every part and staff of
// score, in source order, stopping at the first staff that fails.
// Returns true iff every staff disambiguated cleanly.
func Compile(score *ast.Score, report ReportError) bool {
	for _, part := range score.Parts {
		if len(part.Staves) > 2 {
			report(0, "Too many staves")
			return false
		}
		for staffIndex, staff := range part.Staves {
			direction, ok := octave.DirectionForStaff(staffIndex)
			if !ok {
				report(0, "Too many staves")
				return false
			}
			if !compileStaff(staff, score, direction, report) {
				return false
			}
		}
	}
	return true
}

func compileStaff(staff *ast.Staff, score *ast.Score, direction octave.Direction, report ReportError) bool {
	key := score.KeySig
	var timeSig ast.TimeSignature
	if score.TimeSig != nil {
		timeSig = *score.TimeSig
	}

	dis := disambiguate.New(report)
	oct := octave.New(direction, report)

	for _, el := range staff.Elements() {
		switch e := el.(type) {
		case *ast.KeyAndTimeSignature:
			key = e.Key
			timeSig = e.Time
		case *ast.Measure:
			if !dis.Measure(e, timeSig.Rational(), timeSig.Beat()) {
				return false
			}
			if !oct.Measure(e) {
				return false
			}
			alteration.Measure(e, key)
		}
	}
	return dis.EndOfStaff()
}

// Unfold fills in score.UnfoldedPart after a successful Compile. Calling
// it before a successful Compile produces an unfolded tree reflecting
// whatever (possibly unresolved) durations the ambiguous AST currently
// carries.
func Unfold(score *ast.Score) {
	unfolded := make([]ast.UnfoldedPart, len(score.Parts))
	for i, part := range score.Parts {
		staves := make([]*ast.UnfoldedStaff, len(part.Staves))
		for j, staff := range part.Staves {
			staves[j] = unfold.Staff(staff)
		}
		unfolded[i] = ast.UnfoldedPart{Staves: staves}
	}
	score.UnfoldedPart = unfolded
}
