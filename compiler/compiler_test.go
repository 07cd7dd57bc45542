package compiler

import (
	"testing"

	"braillemusic/ast"
	"braillemusic/internal/fixtures"
)

func scoreWithOneStaffMeasure(t *testing.T, yamlDoc string, timeSig ast.TimeSignature, key ast.KeySignature) *ast.Score {
	t.Helper()
	measure, ts, ks, err := fixtures.LoadMeasure([]byte(yamlDoc), 1)
	if err != nil {
		t.Fatalf("LoadMeasure: %v", err)
	}
	if ts != (ast.TimeSignature{}) {
		timeSig = ts
	}
	if ks != 0 {
		key = ks
	}
	staff := &ast.Staff{Sections: []*ast.Section{{
		Paragraphs: []*ast.Paragraph{{Elements: []ast.StaffElement{measure}}},
	}}}
	part := &ast.Part{Staves: []*ast.Staff{staff}}
	return &ast.Score{KeySig: key, TimeSig: &timeSig, Parts: []*ast.Part{part}}
}

func TestCompileResolvesASimpleMeasure(t *testing.T) {
	doc := `
time_signature: "2/4"
key_signature: 0
voices:
  - ["NC4:q", "ND4:q"]
`
	score := scoreWithOneStaffMeasure(t, doc, ast.TimeSignature{Numerator: 2, Denominator: 4}, 0)

	var errs []string
	ok := Compile(score, func(id int, msg string) { errs = append(errs, msg) })
	if !ok {
		t.Fatalf("Compile failed: %v", errs)
	}

	measure := score.Parts[0].Staves[0].Sections[0].Paragraphs[0].Elements[0].(*ast.Measure)
	note := measure.Voices[0].Parts[0].Voices[0].Signs[0].(*ast.Note)
	if !note.Type.Equal(ast.NewRational(1, 4)) {
		t.Errorf("note Type = %v, want 1/4", note.Type)
	}
	if note.Octave == 0 {
		t.Error("octave calculator should have resolved the first note's octave from its explicit mark")
	}
}

func TestCompileReportsTooManyStaves(t *testing.T) {
	staff := &ast.Staff{}
	part := &ast.Part{Staves: []*ast.Staff{staff, staff, staff}}
	score := &ast.Score{Parts: []*ast.Part{part}}

	var gotMsg string
	ok := Compile(score, func(id int, msg string) { gotMsg = msg })
	if ok {
		t.Fatal("expected Compile to fail for a part with three staves")
	}
	if gotMsg != "Too many staves" {
		t.Errorf("message = %q, want %q", gotMsg, "Too many staves")
	}
}

func TestUnfoldFillsUnfoldedPart(t *testing.T) {
	doc := `
time_signature: "2/4"
key_signature: 0
voices:
  - ["NC4:q", "ND4:q"]
`
	score := scoreWithOneStaffMeasure(t, doc, ast.TimeSignature{Numerator: 2, Denominator: 4}, 0)
	if !Compile(score, func(int, string) {}) {
		t.Fatal("Compile failed")
	}
	Unfold(score)

	if len(score.UnfoldedPart) != 1 || len(score.UnfoldedPart[0].Staves) != 1 {
		t.Fatal("Unfold should produce one unfolded staff for the single part/staff score")
	}
	if len(score.UnfoldedPart[0].Staves[0].Elements) != 1 {
		t.Error("expected one unfolded measure")
	}
}
