// Package compose stacks partial-voice interpretations into partial
// measures, partial measures into voices, and voices into measures,
// enforcing the equal-duration constraint each level requires.
package compose

import (
	"braillemusic/ast"
	"braillemusic/interpret"
)

// PartialMeasureInterpretation is one way of reading every partial voice
// of a PartialMeasure such that they all share one total duration.
type PartialMeasureInterpretation struct {
	Voices   []interpret.Result
	Duration ast.Rational
}

// PartialMeasures enumerates every legal reading of pm: the cartesian
// product of each partial voice's own interpretations, keeping only the
// combinations where every voice's duration agrees.
// doubled carries forward, per partial-voice slot, any tuplet state left
// open by the previous partial measure in the same voice.
func PartialMeasures(pm *ast.PartialMeasure, start, maxDuration ast.Rational, state interpret.State, doubled [][]interpret.DoubledTuplet) []PartialMeasureInterpretation {
	if len(pm.Voices) == 0 {
		return []PartialMeasureInterpretation{{Duration: ast.Zero}}
	}

	perVoice := make([][]interpret.Result, len(pm.Voices))
	for i, pv := range pm.Voices {
		var carried []interpret.DoubledTuplet
		if i < len(doubled) {
			carried = doubled[i]
		}
		perVoice[i] = interpret.Interpret(pv.Signs, start, maxDuration, state, carried)
	}

	var out []PartialMeasureInterpretation
	var combine func(idx int, acc []interpret.Result, duration ast.Rational, durationSet bool)
	combine = func(idx int, acc []interpret.Result, duration ast.Rational, durationSet bool) {
		if idx == len(perVoice) {
			cp := append([]interpret.Result(nil), acc...)
			out = append(out, PartialMeasureInterpretation{Voices: cp, Duration: duration})
			return
		}
		for _, r := range perVoice[idx] {
			d := r.Duration()
			if durationSet && !d.Equal(duration) {
				continue
			}
			combine(idx+1, append(append([]interpret.Result(nil), acc...), r), d, true)
		}
	}
	combine(0, nil, ast.Zero, false)
	return out
}

// VoiceInterpretation is one way of reading every partial measure of a
// Voice, in order.
type VoiceInterpretation struct {
	Parts    []PartialMeasureInterpretation
	Doubled  [][]interpret.DoubledTuplet
	Duration ast.Rational
}

// Voices enumerates every legal reading of v: partial-measure
// interpretations are concatenated sequentially, each one's duration
// subtracted from the length budget still available.
func Voices(v *ast.Voice, start, maxDuration ast.Rational, state interpret.State, doubled [][]interpret.DoubledTuplet) []VoiceInterpretation {
	return voiceRecurse(v.Parts, 0, start, maxDuration, state, doubled, nil, ast.Zero)
}

func voiceRecurse(parts []*ast.PartialMeasure, idx int, position, maxDuration ast.Rational, state interpret.State, doubled [][]interpret.DoubledTuplet, acc []PartialMeasureInterpretation, accDuration ast.Rational) []VoiceInterpretation {
	if idx == len(parts) {
		return []VoiceInterpretation{{
			Parts:    append([]PartialMeasureInterpretation(nil), acc...),
			Doubled:  doubled,
			Duration: accDuration,
		}}
	}
	var out []VoiceInterpretation
	for _, pmi := range PartialMeasures(parts[idx], position, maxDuration, state, doubled) {
		nextDoubled := make([][]interpret.DoubledTuplet, len(pmi.Voices))
		for i, r := range pmi.Voices {
			nextDoubled[i] = r.Doubled
		}
		out = append(out, voiceRecurse(
			parts, idx+1,
			position.Add(pmi.Duration), maxDuration.Sub(pmi.Duration),
			state, nextDoubled,
			append(acc, pmi), accDuration.Add(pmi.Duration),
		)...)
	}
	return out
}

// MeasureInterpretation is one way of reading every voice of a Measure
// such that they all share one total duration.
type MeasureInterpretation struct {
	Voices   []VoiceInterpretation
	Duration ast.Rational
	Complete bool
}

// Measures enumerates every legal reading of m: the cartesian product of
// each voice's own interpretations, keeping only the combinations where
// every voice's duration agrees. A combination is Complete when that
// shared duration equals the time signature; otherwise it is a candidate
// anacrusis fragment and must be strictly less.
func Measures(m *ast.Measure, timeSignature ast.Rational, state interpret.State, doubledPerVoice [][][]interpret.DoubledTuplet) []MeasureInterpretation {
	if len(m.Voices) == 0 {
		return nil
	}
	perVoice := make([][]VoiceInterpretation, len(m.Voices))
	for i, v := range m.Voices {
		var doubled [][]interpret.DoubledTuplet
		if i < len(doubledPerVoice) {
			doubled = doubledPerVoice[i]
		}
		perVoice[i] = Voices(v, ast.Zero, timeSignature, state, doubled)
	}

	var out []MeasureInterpretation
	var combine func(idx int, acc []VoiceInterpretation, duration ast.Rational, durationSet bool)
	combine = func(idx int, acc []VoiceInterpretation, duration ast.Rational, durationSet bool) {
		if idx == len(perVoice) {
			if !duration.Greater(timeSignature) {
				out = append(out, MeasureInterpretation{
					Voices:   append([]VoiceInterpretation(nil), acc...),
					Duration: duration,
					Complete: duration.Equal(timeSignature),
				})
			}
			return
		}
		for _, vi := range perVoice[idx] {
			if durationSet && !vi.Duration.Equal(duration) {
				continue
			}
			combine(idx+1, append(append([]VoiceInterpretation(nil), acc...), vi), vi.Duration, true)
		}
	}
	combine(0, nil, ast.Zero, false)
	return out
}
