package disambiguate

import (
	"testing"

	"braillemusic/ast"
)

func quarterNote(id int) *ast.Note {
	return &ast.Note{RhythmicData: ast.RhythmicData{ID: id, AmbiguousValue: ast.QuarterOr64th}}
}

func measureOf(id int, signs ...ast.Sign) *ast.Measure {
	return &ast.Measure{
		ID: id,
		Voices: []*ast.Voice{{
			ID: id,
			Parts: []*ast.PartialMeasure{{
				ID:     id,
				Voices: []*ast.PartialVoice{{ID: id, Signs: signs}},
			}},
		}},
	}
}

func TestMeasureAcceptsUniqueCompleteReading(t *testing.T) {
	var gotID int
	var gotMsg string
	d := New(func(id int, msg string) { gotID, gotMsg = id, msg })

	m := measureOf(1, quarterNote(1), quarterNote(2))
	ok := d.Measure(m, ast.NewRational(2, 4), ast.NewRational(1, 4))

	if !ok {
		t.Fatalf("Measure failed: id=%d msg=%q", gotID, gotMsg)
	}
	if !m.Voices[0].Parts[0].Voices[0].Signs[0].(*ast.Note).Type.Equal(ast.NewRational(1, 4)) {
		t.Error("winning interpretation should have been written back to the note")
	}
}

func TestMeasureDefersAnacrusisAndPairs(t *testing.T) {
	var errs []string
	d := New(func(id int, msg string) { errs = append(errs, msg) })

	// anacrusis: a single quarter in 4/4 time can never complete the bar
	// on its own, so it must be deferred.
	anacrusis := measureOf(1, quarterNote(1))
	if !d.Measure(anacrusis, ast.NewRational(4, 4), ast.NewRational(1, 4)) {
		t.Fatalf("expected anacrusis to defer cleanly, got errors: %v", errs)
	}

	// pairing measure: three quarters complete the bar together with the
	// deferred quarter (1/4 + 3/4 = 4/4); no other pair of readings sums
	// to 4/4, so the pairing is unique.
	rest := measureOf(2, quarterNote(2), quarterNote(3), quarterNote(4))
	if !d.Measure(rest, ast.NewRational(4, 4), ast.NewRational(1, 4)) {
		t.Fatalf("expected anacrusis pairing to succeed, got errors: %v", errs)
	}
	if d.anacrusis != nil {
		t.Error("anacrusis should be cleared after a successful pairing")
	}
}

func TestEndOfStaffReportsUnterminatedAnacrusis(t *testing.T) {
	var gotMsg string
	d := New(func(id int, msg string) { gotMsg = msg })

	anacrusis := measureOf(1, quarterNote(1))
	if !d.Measure(anacrusis, ast.NewRational(4, 4), ast.NewRational(1, 4)) {
		t.Fatal("expected anacrusis to defer cleanly")
	}
	if d.EndOfStaff() {
		t.Error("EndOfStaff should fail with a pending anacrusis")
	}
	if gotMsg != "Unterminated anacrusis" {
		t.Errorf("message = %q, want %q", gotMsg, "Unterminated anacrusis")
	}
}
