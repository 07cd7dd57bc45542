// Package unfold implements the unfolder: it builds a parallel
// "unfolded" representation of a staff in which every simile is expanded
// into the literal material it stands for, without touching the
// original ambiguous/resolved tree.
package unfold

import "braillemusic/ast"

// Staff builds the unfolded representation of staff. It must run after a
// successful compile, since a full-measure simile's expansion needs the
// previous measure's resolved content.
func Staff(staff *ast.Staff) *ast.UnfoldedStaff {
	elements := staff.Elements()
	out := make([]ast.UnfoldedStaffElement, 0, len(elements))
	var prev *ast.Measure

	for _, el := range elements {
		switch e := el.(type) {
		case *ast.KeyAndTimeSignature:
			out = append(out, e)
		case *ast.Measure:
			if count, ok := fullMeasureSimileCount(e); ok {
				for i := 0; i < count; i++ {
					out = append(out, measureToUnfolded(prev))
				}
			} else {
				out = append(out, expandMeasure(e))
				prev = e
			}
		}
	}
	return &ast.UnfoldedStaff{Elements: out}
}

// fullMeasureSimileCount reports whether m's entire content is a single
// full-measure simile sign (one voice, one partial measure, one partial
// voice, one sign), and if so its repeat count.
func fullMeasureSimileCount(m *ast.Measure) (int, bool) {
	if len(m.Voices) != 1 || len(m.Voices[0].Parts) != 1 {
		return 0, false
	}
	pm := m.Voices[0].Parts[0]
	if len(pm.Voices) != 1 || len(pm.Voices[0].Signs) != 1 {
		return 0, false
	}
	sim, ok := pm.Voices[0].Signs[0].(*ast.Simile)
	if !ok {
		return 0, false
	}
	return sim.Count, true
}

// expandMeasure copies m into its unfolded shape, expanding any
// partial-measure similes inline within each partial voice.
func expandMeasure(m *ast.Measure) *ast.UnfoldedMeasure {
	voices := make([]*ast.UnfoldedVoice, len(m.Voices))
	for i, v := range m.Voices {
		voices[i] = expandVoice(v)
	}
	return &ast.UnfoldedMeasure{ID: m.ID, Ending: m.Ending, Voices: voices, Count: 1}
}

func expandVoice(v *ast.Voice) *ast.UnfoldedVoice {
	parts := make([]*ast.UnfoldedPartialMeasure, len(v.Parts))
	for i, pm := range v.Parts {
		parts[i] = expandPartialMeasure(pm)
	}
	return &ast.UnfoldedVoice{ID: v.ID, Parts: parts}
}

func expandPartialMeasure(pm *ast.PartialMeasure) *ast.UnfoldedPartialMeasure {
	voices := make([]*ast.UnfoldedPartialVoice, len(pm.Voices))
	for i, pv := range pm.Voices {
		voices[i] = &ast.UnfoldedPartialVoice{ID: pv.ID, Signs: expandPartialVoiceSigns(pv.Signs)}
	}
	return &ast.UnfoldedPartialMeasure{ID: pm.ID, Voices: voices}
}

// expandPartialVoiceSigns replaces every partial-measure Simile with a
// clone of the signs written since the start of this run (or since the
// previous simile within it, whichever is closer), repeated Count times.
func expandPartialVoiceSigns(signs []ast.Sign) []ast.Sign {
	var out []ast.Sign
	segmentStart := 0
	for _, s := range signs {
		if sim, ok := s.(*ast.Simile); ok {
			unit := out[segmentStart:]
			repeated := make([]ast.Sign, 0, len(unit)*sim.Count)
			for i := 0; i < sim.Count; i++ {
				for _, u := range unit {
					repeated = append(repeated, cloneSign(u))
				}
			}
			out = append(out, repeated...)
			segmentStart = len(out)
			continue
		}
		out = append(out, s)
	}
	return out
}

// measureToUnfolded clones an already-unfolded-eligible measure verbatim,
// standing in for one repetition of a full-measure simile. prev may be
// nil only for a malformed score (a simile with no preceding measure);
// that case is left for the driver's compile step to have already
// rejected.
func measureToUnfolded(prev *ast.Measure) *ast.UnfoldedMeasure {
	if prev == nil {
		return &ast.UnfoldedMeasure{}
	}
	return expandMeasure(prev)
}

func cloneSign(s ast.Sign) ast.Sign {
	switch n := s.(type) {
	case *ast.Note:
		nc := *n
		return &nc
	case *ast.Rest:
		rc := *n
		return &rc
	case *ast.Chord:
		base := *n.Base
		cc := *n
		cc.Base = &base
		cc.Intervals = cloneIntervals(n.Intervals)
		return &cc
	case *ast.MovingNote:
		base := *n.Base
		mc := *n
		mc.Base = &base
		mc.Intervals = cloneIntervals(n.Intervals)
		return &mc
	case *ast.Barline:
		bc := *n
		return &bc
	case *ast.Clef:
		cc := *n
		return &cc
	case *ast.HandSign:
		hc := *n
		return &hc
	case *ast.Tie:
		tc := *n
		return &tc
	case *ast.ValueDistinction:
		vc := *n
		return &vc
	case *ast.TupletStart:
		tc := *n
		return &tc
	default:
		return s
	}
}

func cloneIntervals(intervals []*ast.ChordInterval) []*ast.ChordInterval {
	out := make([]*ast.ChordInterval, len(intervals))
	for i, iv := range intervals {
		c := *iv
		out[i] = &c
	}
	return out
}
