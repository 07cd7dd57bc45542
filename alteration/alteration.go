// Package alteration implements the alteration calculator: per-measure
// accidental-memory bookkeeping seeded from the key signature and
// updated chronologically by explicit accidentals.
package alteration

import (
	"sort"

	"braillemusic/ast"
)

// memory is the 10 (octave) × 7 (step) accidental-memory matrix; the
// zero value is ast.Natural, matching an unseeded, unwritten slot.
type memory [10][7]ast.Accidental

var sharpOrder = [7]ast.Step{ast.StepF, ast.StepC, ast.StepG, ast.StepD, ast.StepA, ast.StepE, ast.StepB}
var flatOrder = [7]ast.Step{ast.StepB, ast.StepE, ast.StepA, ast.StepD, ast.StepG, ast.StepC, ast.StepF}

func setStepAllOctaves(m *memory, step ast.Step, acc ast.Accidental) {
	for octave := range m {
		m[octave][step] = acc
	}
}

// seed pre-loads m according to key, extended through ±14 for
// double-sharp/double-flat key signatures.
func seed(key ast.KeySignature) memory {
	var m memory
	n := int(key)
	switch {
	case n > 0:
		applyOrder(&m, sharpOrder, n, ast.Sharp, ast.DoubleSharp)
	case n < 0:
		applyOrder(&m, flatOrder, -n, ast.Flat, ast.DoubleFlat)
	}
	return m
}

func applyOrder(m *memory, order [7]ast.Step, count int, single, double ast.Accidental) {
	if count > 14 {
		count = 14
	}
	for i := 0; i < count && i < 7; i++ {
		setStepAllOctaves(m, order[i], single)
	}
	for i := 7; i < count; i++ {
		setStepAllOctaves(m, order[i-7], double)
	}
}

// pitchedSign pairs a note-shaped sign (Note, or a Chord/MovingNote's
// base + intervals) with its chronological onset position.
type pitchedSign struct {
	position ast.Rational
	sign     ast.Sign
}

// onsets walks m's voices, recording the onset position of every Note,
// Chord and MovingNote, in program order, with simultaneous partial
// voices sharing the position their partial measure begins at.
func onsets(m *ast.Measure) []pitchedSign {
	var out []pitchedSign
	for _, v := range m.Voices {
		pos := ast.Zero
		for _, pm := range v.Parts {
			for _, pv := range pm.Voices {
				local := pos
				for _, s := range pv.Signs {
					switch s.(type) {
					case *ast.Note, *ast.Chord, *ast.MovingNote:
						out = append(out, pitchedSign{position: local, sign: s})
					}
					local = local.Add(ast.Duration(s))
				}
			}
			pos = pos.Add(ast.Duration(pm))
		}
	}
	return out
}

// Measure resolves every note and chord/moving-note interval's alter
// field in m, given the prevailing key signature. It must run after the
// octave calculator, since chord/moving-note intervals are
// looked up in memory by their resolved octave+step.
func Measure(m *ast.Measure, key ast.KeySignature) {
	mem := seed(key)
	for _, item := range stableSortByPosition(onsets(m)) {
		switch s := item.sign.(type) {
		case *ast.Note:
			resolveNote(&mem, s)
		case *ast.Chord:
			resolveNote(&mem, s.Base)
			for _, iv := range s.Intervals {
				resolveInterval(&mem, iv)
			}
		case *ast.MovingNote:
			resolveNote(&mem, s.Base)
			for _, iv := range s.Intervals {
				resolveInterval(&mem, iv)
			}
		}
	}
}

func stableSortByPosition(items []pitchedSign) []pitchedSign {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].position.Less(items[j].position)
	})
	return items
}

func resolveNote(mem *memory, n *ast.Note) {
	if n.ExplicitAccidental != nil {
		mem[n.Octave][n.Step] = *n.ExplicitAccidental
		n.Alter = n.ExplicitAccidental.Alter()
		return
	}
	n.Alter = mem[n.Octave][n.Step].Alter()
}

func resolveInterval(mem *memory, iv *ast.ChordInterval) {
	if iv.ExplicitAccidental != nil {
		mem[iv.Octave][iv.Step] = *iv.ExplicitAccidental
		iv.Alter = iv.ExplicitAccidental.Alter()
		return
	}
	iv.Alter = mem[iv.Octave][iv.Step].Alter()
}
