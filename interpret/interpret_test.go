package interpret

import (
	"testing"

	"braillemusic/ast"
	"braillemusic/valueproxy"
)

func quarterNote(id int) *ast.Note {
	return &ast.Note{RhythmicData: ast.RhythmicData{ID: id, AmbiguousValue: ast.QuarterOr64th}}
}

func eighthNote(id int) *ast.Note {
	return &ast.Note{RhythmicData: ast.RhythmicData{ID: id, AmbiguousValue: ast.EighthOr128th}}
}

func TestInterpretTwoQuartersLargeLarge(t *testing.T) {
	signs := []ast.Sign{quarterNote(1), quarterNote(2)}
	state := State{Beat: ast.NewRational(1, 4), TimeSignature: ast.NewRational(3, 4)}

	results := Interpret(signs, ast.Zero, ast.NewRational(1, 2), state, nil)

	found := false
	for _, r := range results {
		if r.Duration().Equal(ast.NewRational(1, 2)) {
			found = true
			if len(r.Proxies) != 2 {
				t.Errorf("expected 2 proxies in the large/large reading, got %d", len(r.Proxies))
			}
		}
	}
	if !found {
		t.Error("expected a reading where both quarters are large (total 1/2)")
	}
}

func TestInterpretNoteGroup(t *testing.T) {
	// A valid note group needs a leading sign that is NOT eighth_or_128th,
	// followed by at least two eighth_or_128th followers; every member,
	// including the leading sign, resolves to the small family using the
	// leading sign's own ambiguous value.
	signs := []ast.Sign{quarterNote(1), eighthNote(2), eighthNote(3)}
	state := State{Beat: ast.NewRational(1, 64), TimeSignature: ast.NewRational(3, 4)}

	results := Interpret(signs, ast.Zero, ast.NewRational(3, 4), state, nil)

	wantGroup := ast.Undotted[ast.Small][ast.QuarterOr64th].MulInt(3)
	foundGroup := false
	for _, r := range results {
		if len(r.Proxies) == 3 && r.Proxies[0].NoteGroup == ast.GroupBegin && r.Duration().Equal(wantGroup) {
			foundGroup = true
			if r.Proxies[1].NoteGroup != ast.GroupMiddle || r.Proxies[2].NoteGroup != ast.GroupEnd {
				t.Error("note group roles should be begin/middle/end")
			}
			for _, p := range r.Proxies {
				if p.Category != ast.Small || p.ValueType != ast.QuarterOr64th {
					t.Error("note group members should all share the leading sign's resolved type")
				}
			}
		}
	}
	if !foundGroup {
		t.Error("expected a note-group reading with a distinct leading sign and two eighth/128th followers")
	}
}

func TestInterpretTuplet(t *testing.T) {
	tuplet := &ast.TupletStart{ID: 1, Number: 3, SimpleTriplet: true}
	signs := []ast.Sign{tuplet, eighthNote(2), eighthNote(3), eighthNote(4)}
	state := State{Beat: ast.NewRational(1, 4), TimeSignature: ast.NewRational(3, 4)}

	results := Interpret(signs, ast.Zero, ast.NewRational(3, 4), state, nil)

	wantDuration := ast.NewRational(1, 8).Mul(ast.NewRational(2, 3)).MulInt(3)
	found := false
	for _, r := range results {
		if r.Duration().Equal(wantDuration) && len(r.Proxies) == 3 {
			allTripleted := true
			for _, p := range r.Proxies {
				if !p.Factor.Equal(ast.NewRational(2, 3)) {
					allTripleted = false
				}
			}
			if allTripleted {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected a triplet reading where all three eighths carry factor 2/3")
	}
}

func TestInterpretWholeMeasureRest(t *testing.T) {
	rest := &ast.Rest{RhythmicData: ast.RhythmicData{ID: 1, AmbiguousValue: ast.WholeOr16th}}
	signs := []ast.Sign{rest}
	state := State{Beat: ast.NewRational(1, 4), TimeSignature: ast.NewRational(3, 4)}

	results := Interpret(signs, ast.Zero, ast.NewRational(3, 4), state, nil)

	found := false
	for _, r := range results {
		if len(r.Proxies) == 1 && r.Proxies[0].Kind == valueproxy.WholeMeasureRestKind {
			found = true
			if !r.Duration().Equal(ast.NewRational(3, 4)) {
				t.Errorf("whole-measure rest duration = %v, want 3/4", r.Duration())
			}
		}
	}
	if !found {
		t.Error("expected a whole-measure-rest reading")
	}
}
