// Package disambiguate implements the measure-level disambiguator: it
// enumerates a measure's interpretations, discards incomplete ones once
// a complete one exists, scores survivors by harmonic mean, prunes by a
// margin below the best score, and resolves anacruses across a bar
// line.
package disambiguate

import (
	"fmt"

	"braillemusic/ast"
	"braillemusic/compose"
	"braillemusic/interpret"
	"braillemusic/valueproxy"
)

// pruneMargin is the fraction of the best harmonic-mean score below
// which a surviving interpretation is discarded (see DESIGN.md's note on
// why this is 3/4 rather than a narrower margin).
const pruneMargin = 0.75

// Disambiguator carries the cross-measure state a measure's resolution
// requires: the previous measure's duration and any doubled tuplets still open per voice and partial-voice slot,
// plus a pending anacrusis fragment awaiting its pairing measure.
type Disambiguator struct {
	report func(id int, message string)

	prevDuration ast.Rational
	prevDoubled  [][][]interpret.DoubledTuplet

	anacrusis   []compose.MeasureInterpretation
	anacrusisID int
}

// New builds a Disambiguator that reports errors through report.
func New(report func(id int, message string)) *Disambiguator {
	return &Disambiguator{report: report, prevDuration: ast.Zero}
}

func flattenProxies(mi compose.MeasureInterpretation) []valueproxy.Proxy {
	var out []valueproxy.Proxy
	for _, v := range mi.Voices {
		for _, pm := range v.Parts {
			for _, r := range pm.Voices {
				out = append(out, r.Proxies...)
			}
		}
	}
	return out
}

func doubledOf(mi compose.MeasureInterpretation) [][][]interpret.DoubledTuplet {
	out := make([][][]interpret.DoubledTuplet, len(mi.Voices))
	for i, v := range mi.Voices {
		out[i] = v.Doubled
	}
	return out
}

// harmonicMean is the reciprocal of the mean of the reciprocals of every
// proxy's duration, computed in floating point for speed rather than
// with intermediate gcd reduction.
func harmonicMean(proxies []valueproxy.Proxy) float64 {
	if len(proxies) == 0 {
		return 0
	}
	sumReciprocal := 0.0
	for _, p := range proxies {
		d := p.Rational().Float64()
		if d == 0 {
			continue
		}
		sumReciprocal += 1 / d
	}
	if sumReciprocal == 0 {
		return 0
	}
	return float64(len(proxies)) / sumReciprocal
}

func acceptAll(mi compose.MeasureInterpretation) {
	for _, p := range flattenProxies(mi) {
		p.Accept()
	}
}

type scored struct {
	interp compose.MeasureInterpretation
	score  float64
}

// prune applies the harmonic-mean scoring and 3/4-margin rule, returning
// the surviving interpretations (one, if resolution succeeded).
func prune(interpretations []compose.MeasureInterpretation) []scored {
	scoredList := make([]scored, len(interpretations))
	best := 0.0
	for i, mi := range interpretations {
		s := harmonicMean(flattenProxies(mi))
		scoredList[i] = scored{interp: mi, score: s}
		if s > best {
			best = s
		}
	}
	bestCount := 0
	for _, s := range scoredList {
		if s.score == best {
			bestCount++
		}
	}
	if bestCount != 1 {
		return scoredList
	}
	threshold := best * pruneMargin
	var survivors []scored
	for _, s := range scoredList {
		if s.score >= threshold {
			survivors = append(survivors, s)
		}
	}
	return survivors
}

func partition(interpretations []compose.MeasureInterpretation) (complete, incomplete []compose.MeasureInterpretation) {
	for _, mi := range interpretations {
		if mi.Complete {
			complete = append(complete, mi)
		} else {
			incomplete = append(incomplete, mi)
		}
	}
	return
}

// pairAnacrusis looks for exactly one (lhs, rhs) pair across anacrusis ×
// current whose durations sum to timeSignature — the measure completes
// uniquely only if there is exactly one such pair.
func pairAnacrusis(anacrusis, current []compose.MeasureInterpretation, timeSignature ast.Rational) (lhs, rhs compose.MeasureInterpretation, ok bool) {
	count := 0
	for _, l := range anacrusis {
		for _, r := range current {
			if l.Duration.Add(r.Duration).Equal(timeSignature) {
				lhs, rhs = l, r
				count++
			}
		}
	}
	return lhs, rhs, count == 1
}

// Measure resolves one measure, given the prevailing time signature and
// beat unit. It returns true on success (the winning interpretation's
// proxies have been accepted, or an anacrusis was deferred) and false if
// an error was reported.
func (d *Disambiguator) Measure(measure *ast.Measure, timeSignature, beat ast.Rational) bool {
	state := interpret.State{Beat: beat, TimeSignature: timeSignature}
	interpretations := compose.Measures(measure, timeSignature, state, d.prevDoubled)
	complete, incomplete := partition(interpretations)

	if len(complete) == 0 && len(incomplete) > 0 {
		if d.anacrusis == nil {
			d.anacrusis = incomplete
			d.anacrusisID = measure.ID
			d.prevDuration = ast.Zero
			d.prevDoubled = nil
			return true
		}
		if lhs, rhs, ok := pairAnacrusis(d.anacrusis, incomplete, timeSignature); ok {
			acceptAll(lhs)
			acceptAll(rhs)
			d.prevDuration = rhs.Duration
			d.prevDoubled = doubledOf(rhs)
			d.anacrusis = nil
			return true
		}
		d.report(measure.ID, "No possible interpretations")
		return false
	}

	if d.anacrusis != nil {
		d.report(d.anacrusisID, "Unterminated anacrusis")
		return false
	}

	if len(complete) == 0 {
		d.report(measure.ID, "No possible interpretations")
		return false
	}

	survivors := prune(complete)
	if len(survivors) == 1 {
		acceptAll(survivors[0].interp)
		d.prevDuration = survivors[0].interp.Duration
		d.prevDoubled = doubledOf(survivors[0].interp)
		return true
	}

	msg := fmt.Sprintf("%d possible interpretations", len(survivors))
	for _, s := range survivors {
		msg += fmt.Sprintf("; score %.6f", s.score)
	}
	d.report(measure.ID, msg)
	return false
}

// PrevDuration is the duration of the last accepted measure. The
// interpreter does not read it: a Simile sign has no reading in the
// search, so a measure containing one gets no interpretation.
func (d *Disambiguator) PrevDuration() ast.Rational { return d.prevDuration }

// EndOfStaff checks for an unresolved pending anacrusis at the end of a
// staff.
func (d *Disambiguator) EndOfStaff() bool {
	if d.anacrusis != nil {
		d.report(d.anacrusisID, "Unterminated anacrusis")
		return false
	}
	return true
}

// Reset clears cross-measure state, for starting a new staff.
func (d *Disambiguator) Reset() {
	d.prevDuration = ast.Zero
	d.prevDoubled = nil
	d.anacrusis = nil
}
