// Package interpret implements the partial-voice interpreter: given a
// sequence of ambiguous signs and the duration still available in the
// enclosing measure, it enumerates every legal rhythmic reading as a
// slice of resolved valueproxy.Proxy values.
package interpret

import (
	"braillemusic/ast"
	"braillemusic/valueproxy"
)

// tupletLevel is one entry of the active tuplet stack, mirroring the
// bmc compiler's tuplet_level (lib/value_disambiguation.cpp): a tuplet
// number, the ratio chosen for it, a time-to-live counter of how many
// more rhythmic signs it still covers, and whether it is "doubled"
// (persists across its own terminator until explicitly cancelled).
type tupletLevel struct {
	Number      int
	Factor      ast.Rational
	FirstTuplet bool
	TTL         int
	Doubled     bool
}

// tupletNumberFactors is the ratio table for each supported tuplet number;
// 5 and 7 carry two historically attested ratios, both tried by the
// search (grounded on lib/value_disambiguation.cpp's tuplet_number_factors).
var tupletNumberFactors = map[int][]ast.Rational{
	2: {ast.NewRational(3, 2)},
	3: {ast.NewRational(2, 3)},
	4: {ast.NewRational(3, 4)},
	5: {ast.NewRational(2, 5), ast.NewRational(4, 5)},
	6: {ast.NewRational(4, 6)},
	7: {ast.NewRational(4, 7), ast.NewRational(8, 7)},
}

// processTupletInfo computes the factor/markers active at the position
// the given tuplet stack describes, and returns the stack advanced by one
// rhythmic sign (TTLs decremented, and the innermost level popped once it
// is exhausted and not doubled).
func processTupletInfo(levels []tupletLevel) (next []tupletLevel, factor ast.Rational, begin []ast.TupletMarker, end int) {
	factor = ast.One
	next = append([]tupletLevel(nil), levels...)
	for i := range next {
		level := &next[i]
		if level.TTL > 0 {
			if level.FirstTuplet {
				begin = append(begin, ast.TupletMarker{Factor: level.Factor})
				level.FirstTuplet = false
			}
			if level.TTL == 1 {
				end++
			}
			factor = factor.Mul(level.Factor)
			level.TTL--
		}
	}
	if n := len(next); n > 0 && next[n-1].TTL == 0 && !next[n-1].Doubled {
		next = next[:n-1]
	}
	return next, factor, begin, end
}

// State carries the position-independent facts a partial-voice
// interpretation needs: the beat unit (for on-beat checks) and the
// measure's time signature (for the bare whole-measure-rest special case).
type State struct {
	Beat          ast.Rational
	TimeSignature ast.Rational
	// LastPartialMeasure and ExactMatchFound together implement the bmc
	// compiler's early-exit optimization (skip yielding interpretations
	// that can't possibly finish on time once an exact match already
	// exists); both are optional and default to false/false, which
	// always yields.
	LastPartialMeasure bool
	ExactMatchFound    bool
}

func onBeat(beat, position ast.Rational) bool {
	return ast.NoRemainder(position, beat)
}

// Result is one legal reading of a partial voice.
type Result struct {
	Proxies []valueproxy.Proxy
	Doubled []DoubledTuplet
}

// Duration is the total resolved duration of this reading.
func (r Result) Duration() ast.Rational {
	return valueproxy.Duration(r.Proxies)
}

// DoubledTuplet names a tuplet ratio carried, unterminated, past the end
// of a partial voice, for the next partial measure's interpreter to
// resume.
type DoubledTuplet struct {
	Number int
	Factor ast.Rational
}

func extractDoubled(levels []tupletLevel) []DoubledTuplet {
	var out []DoubledTuplet
	for _, l := range levels {
		if l.Doubled {
			out = append(out, DoubledTuplet{Number: l.Number, Factor: l.Factor})
		}
	}
	return out
}

// seedTuplets rebuilds the tuplet stack a partial voice should start with
// from the doubled tuplets its predecessor carried forward.
func seedTuplets(signs []ast.Sign, doubled []DoubledTuplet) []tupletLevel {
	levels := make([]tupletLevel, 0, len(doubled))
	for _, d := range doubled {
		ttl := countRhythmic(signs, tupletEndIndex(signs, 0, d.Number, true))
		levels = append(levels, tupletLevel{
			Number:      d.Number,
			Factor:      d.Factor,
			FirstTuplet: true,
			TTL:         ttl,
			Doubled:     true,
		})
	}
	return levels
}

func isRhythmic(s ast.Sign) bool {
	_, ok := s.(ast.Rhythmic)
	return ok
}

func ambiguousValue(s ast.Sign) (ast.AmbiguousValue, bool) {
	if r, ok := s.(ast.Rhythmic); ok {
		return r.Rhythm().AmbiguousValue, true
	}
	return ast.UnknownValue, false
}

func countRhythmic(signs []ast.Sign, end int) int {
	n := 0
	for i := 0; i < end && i < len(signs); i++ {
		if isRhythmic(signs[i]) {
			n++
		}
	}
	return n
}

// noteGroupEligible reports whether s can be a follower in a note group:
// an eighth/128th-class rhythmic sign that is neither a rest nor dotted.
func noteGroupEligible(s ast.Sign) bool {
	r, ok := s.(ast.Rhythmic)
	if !ok {
		return false
	}
	if _, isRest := s.(*ast.Rest); isRest {
		return false
	}
	data := r.Rhythm()
	return data.AmbiguousValue == ast.EighthOr128th && data.Dots == 0
}

// notegroupEnd returns the index one past a valid note group starting at i.
// The leading sign at i must be rhythmic but NOT of the eighth_or_128th
// class; it is followed by two or more eighth_or_128th-class signs that
// are neither rests nor dotted (the group's resolved type is derived from
// the leading sign, so the leading sign itself is part of the group).
// Returns i if no such group starts there.
func notegroupEnd(signs []ast.Sign, i int) int {
	if i >= len(signs) {
		return i
	}
	v, ok := ambiguousValue(signs[i])
	if !ok || v == ast.EighthOr128th {
		return i
	}
	j := i + 1
	for j < len(signs) && noteGroupEligible(signs[j]) {
		j++
	}
	if j-i > 2 {
		return j
	}
	return i
}

// sameCategoryEnd returns the index one past the run of rhythmic signs
// that an explicit ValueDistinction at i forces into one category; i
// itself is the distinction sign and is not part of the run.
func sameCategoryEnd(signs []ast.Sign, i int, kind ast.ValueDistinctionKind) int {
	if i >= len(signs) {
		return i
	}
	vd, ok := signs[i].(*ast.ValueDistinction)
	if !ok || vd.Kind != kind {
		return i
	}
	j := i + 1
	for j < len(signs) {
		if !isRhythmic(signs[j]) {
			break
		}
		j++
	}
	return j
}

// tupletEndIndex scans forward from start for the index the tuplet begun
// by (number, simple) ends at: a simile, a begin of the same number (to
// avoid same-number nesting), or the end of the slice.
func tupletEndIndex(signs []ast.Sign, start, number int, simple bool) int {
	for i := start; i < len(signs); i++ {
		switch s := signs[i].(type) {
		case *ast.Simile:
			return i
		case *ast.TupletStart:
			if s.Number == number {
				return i
			}
		}
	}
	return len(signs)
}

func maybeWholeMeasureRest(s ast.Sign) (*ast.Rest, bool) {
	r, ok := s.(*ast.Rest)
	if !ok {
		return nil, false
	}
	return r, true
}

// interpreter holds the fixed parameters of one partial-voice search.
type interpreter struct {
	signs     []ast.Sign
	state     State
	results   []Result
	start     ast.Rational
}

// Interpret enumerates every legal reading of signs, given the duration
// still available (maxDuration) and the position within the measure this
// partial voice begins at. doubled carries forward any tuplet ratios an
// earlier partial voice left active.
func Interpret(signs []ast.Sign, start, maxDuration ast.Rational, state State, doubled []DoubledTuplet) []Result {
	it := &interpreter{signs: signs, state: state, start: start}
	tuplet := seedTuplets(signs, doubled)
	it.recurse(0, nil, maxDuration, start, tuplet)
	return it.results
}

func (it *interpreter) yield(proxies []valueproxy.Proxy, residual ast.Rational, tuplet []tupletLevel) {
	if it.state.LastPartialMeasure && it.state.ExactMatchFound && !residual.IsZero() {
		return
	}
	cp := append([]valueproxy.Proxy(nil), proxies...)
	it.results = append(it.results, Result{Proxies: cp, Doubled: extractDoubled(tuplet)})
}

func (it *interpreter) recurse(i int, proxies []valueproxy.Proxy, maxDuration, position ast.Rational, tuplet []tupletLevel) {
	if i >= len(it.signs) {
		it.yield(proxies, maxDuration, tuplet)
		return
	}

	sign := it.signs[i]

	if onBeat(it.state.Beat, position) {
		if tail := notegroupEnd(it.signs, i); tail > i {
			it.tryNoteGroup(i, tail, proxies, maxDuration, position, tuplet)
			it.largeAndSmall(i, proxies, maxDuration, position, tuplet)
			return
		}
	}

	if tail := sameCategoryEnd(it.signs, i, ast.LargeFollows); tail > i {
		it.trySameCategory(i+1, tail, ast.Large, proxies, maxDuration, position, tuplet)
		return
	}
	if tail := sameCategoryEnd(it.signs, i, ast.SmallFollows); tail > i {
		it.trySameCategory(i+1, tail, ast.Small, proxies, maxDuration, position, tuplet)
		return
	}

	if ts, ok := sign.(*ast.TupletStart); ok {
		it.tryTuplet(i, ts, proxies, maxDuration, position, tuplet)
		return
	}

	// Signs without a duration of their own are skipped.
	switch sign.(type) {
	case *ast.Tie, *ast.HandSign, *ast.Clef, *ast.Barline, *ast.ValueDistinction:
		it.recurse(i+1, proxies, maxDuration, position, tuplet)
		return
	}

	it.largeAndSmall(i, proxies, maxDuration, position, tuplet)

	if len(proxies) == 0 && position.IsZero() && !it.state.TimeSignature.Equal(ast.One) {
		if rest, ok := maybeWholeMeasureRest(sign); ok {
			p := valueproxy.NewWholeMeasureRest(rest, it.state.TimeSignature)
			it.recurse(i+1, append(proxies, p), ast.Zero, position.Add(it.state.TimeSignature), tuplet)
		}
	}
}

func (it *interpreter) tryNoteGroup(i, tail int, proxies []valueproxy.Proxy, maxDuration, position ast.Rational, tuplet []tupletLevel) {
	group, nextTuplet, ok := it.buildNoteGroup(i, tail, tuplet)
	if !ok {
		return
	}
	groupWithRoles := markNoteGroup(group)
	groupDuration := valueproxy.Duration(groupWithRoles)
	if groupDuration.Greater(maxDuration) {
		return
	}
	next := position.Add(groupDuration)
	if !onBeat(it.state.Beat, next) {
		return
	}
	it.recurse(tail, append(append([]valueproxy.Proxy(nil), proxies...), groupWithRoles...), maxDuration.Sub(groupDuration), next, nextTuplet)
}

func markNoteGroup(group []valueproxy.Proxy) []valueproxy.Proxy {
	out := make([]valueproxy.Proxy, len(group))
	for i, p := range group {
		switch {
		case i == 0:
			out[i] = p.WithNoteGroup(ast.GroupBegin)
		case i == len(group)-1:
			out[i] = p.WithNoteGroup(ast.GroupEnd)
		default:
			out[i] = p.WithNoteGroup(ast.GroupMiddle)
		}
	}
	return out
}

// buildRun builds proxies for signs[i:tail] forced into one category,
// advancing the tuplet stack once per member so the caller can recurse
// with the state active after the whole run.
func (it *interpreter) buildRun(i, tail int, category ast.Category, tuplet []tupletLevel) ([]valueproxy.Proxy, []tupletLevel, bool) {
	out := make([]valueproxy.Proxy, 0, tail-i)
	current := tuplet
	for j := i; j < tail; j++ {
		p, ok := proxyFor(it.signs[j], category)
		if !ok {
			return nil, tuplet, false
		}
		next, factor, begin, end := processTupletInfo(current)
		out = append(out, p.WithTuplet(factor, begin, end))
		current = next
	}
	return out, current, true
}

// buildNoteGroup builds proxies for a note group spanning signs[i:tail]:
// every member, including the leading sign at i, is resolved into the
// small family using the leading sign's own ambiguous value. The tuplet
// stack advances once per member, as in buildRun.
func (it *interpreter) buildNoteGroup(i, tail int, tuplet []tupletLevel) ([]valueproxy.Proxy, []tupletLevel, bool) {
	valueType, ok := ambiguousValue(it.signs[i])
	if !ok {
		return nil, tuplet, false
	}
	out := make([]valueproxy.Proxy, 0, tail-i)
	current := tuplet
	for j := i; j < tail; j++ {
		p, ok := proxyForAs(it.signs[j], ast.Small, valueType)
		if !ok {
			return nil, tuplet, false
		}
		next, factor, begin, end := processTupletInfo(current)
		out = append(out, p.WithTuplet(factor, begin, end))
		current = next
	}
	return out, current, true
}

func (it *interpreter) trySameCategory(i, tail int, category ast.Category, proxies []valueproxy.Proxy, maxDuration, position ast.Rational, tuplet []tupletLevel) {
	group, nextTuplet, ok := it.buildRun(i, tail, category, tuplet)
	if !ok {
		return
	}
	d := valueproxy.Duration(group)
	if d.Greater(maxDuration) {
		return
	}
	it.recurse(tail, append(append([]valueproxy.Proxy(nil), proxies...), group...), maxDuration.Sub(d), position.Add(d), nextTuplet)
}

func (it *interpreter) tryTuplet(i int, ts *ast.TupletStart, proxies []valueproxy.Proxy, maxDuration, position ast.Rational, tuplet []tupletLevel) {
	tail := i + 1
	t := append([]tupletLevel(nil), tuplet...)
	parentTTL := 0
	if len(t) > 0 {
		parentTTL = t[len(t)-1].TTL
	}

	if n := len(t); n > 0 && t[n-1].Doubled && !ts.Doubled && t[n-1].Number == ts.Number {
		t[n-1].Doubled = false
		t[n-1].FirstTuplet = true
		ttl := countRhythmic(it.signs, tupletEndIndex(it.signs, tail, ts.Number, ts.SimpleTriplet))
		for ; ttl > 0; ttl-- {
			t[n-1].TTL = ttl
			it.recurse(tail, proxies, maxDuration, position, t)
		}
		return
	}

	if len(t) == 0 || t[len(t)-1].TTL > 0 {
		t = append(t, tupletLevel{})
	}
	level := len(t) - 1
	t[level].Number = ts.Number
	t[level].FirstTuplet = true
	ttl := countRhythmic(it.signs, tupletEndIndex(it.signs, tail, ts.Number, ts.SimpleTriplet))
	if parentTTL > 0 && parentTTL < ttl {
		ttl = parentTTL
	}

	factors := tupletNumberFactors[ts.Number]
	if ts.Doubled {
		t[level].Doubled = true
		t[level].TTL = ttl
		for _, f := range factors {
			t[level].Factor = f
			it.recurse(tail, proxies, maxDuration, position, t)
		}
		return
	}
	for remaining := ttl; remaining > 0; remaining-- {
		t[level].TTL = remaining
		for _, f := range factors {
			t[level].Factor = f
			it.recurse(tail, proxies, maxDuration, position, t)
		}
	}
}

// largeAndSmall is the per-sign fallback: try interpreting the current
// sign as large, then as small, each as its own one-sign run carrying
// forward whatever tuplet state is active.
func (it *interpreter) largeAndSmall(i int, proxies []valueproxy.Proxy, maxDuration, position ast.Rational, tuplet []tupletLevel) {
	for _, category := range [2]ast.Category{ast.Large, ast.Small} {
		run, nextTuplet, ok := it.buildRun(i, i+1, category, tuplet)
		if !ok {
			continue
		}
		d := valueproxy.Duration(run)
		if d.Greater(maxDuration) {
			continue
		}
		it.recurse(i+1, append(append([]valueproxy.Proxy(nil), proxies...), run...), maxDuration.Sub(d), position.Add(d), nextTuplet)
	}
}

// proxyFor builds the base (no-tuplet) proxy for one rhythmic sign forced
// into category, or reports false if the sign is not a rhythmic sign at
// all (a non-rhythmic sign reaching here ends the candidate run).
func proxyFor(sign ast.Sign, category ast.Category) (valueproxy.Proxy, bool) {
	switch s := sign.(type) {
	case *ast.Note:
		return valueproxy.NewNote(s, category), true
	case *ast.Rest:
		return valueproxy.NewRest(s, category), true
	case *ast.Chord:
		return valueproxy.NewChord(s, category), true
	case *ast.MovingNote:
		return valueproxy.NewMovingNote(s, category), true
	default:
		return valueproxy.Proxy{}, false
	}
}

// proxyForAs is proxyFor with the resolved value type forced rather than
// taken from the sign itself, as a note group requires.
func proxyForAs(sign ast.Sign, category ast.Category, valueType ast.AmbiguousValue) (valueproxy.Proxy, bool) {
	switch s := sign.(type) {
	case *ast.Note:
		return valueproxy.NewNoteAs(s, category, valueType), true
	case *ast.Rest:
		return valueproxy.NewRestAs(s, category, valueType), true
	case *ast.Chord:
		return valueproxy.NewChordAs(s, category, valueType), true
	case *ast.MovingNote:
		return valueproxy.NewMovingNoteAs(s, category, valueType), true
	default:
		return valueproxy.Proxy{}, false
	}
}
