package valueproxy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"braillemusic/ast"
)

func TestNewNoteAsDuration(t *testing.T) {
	note := &ast.Note{RhythmicData: ast.RhythmicData{ID: 1, AmbiguousValue: ast.QuarterOr64th}}

	large := NewNoteAs(note, ast.Large, ast.QuarterOr64th)
	require.True(t, large.Rational().Equal(ast.NewRational(1, 4)))

	small := NewNoteAs(note, ast.Small, ast.QuarterOr64th)
	require.True(t, small.Rational().Equal(ast.NewRational(1, 64)))
}

func TestWithTupletRescales(t *testing.T) {
	note := &ast.Note{RhythmicData: ast.RhythmicData{ID: 1, AmbiguousValue: ast.EighthOr128th}}
	p := NewNoteAs(note, ast.Large, ast.EighthOr128th)
	require.True(t, p.Rational().Equal(ast.NewRational(1, 8)))

	tripleted := p.WithTuplet(ast.NewRational(2, 3), []ast.TupletMarker{{Factor: ast.NewRational(2, 3)}}, 0)
	require.True(t, tripleted.Rational().Equal(ast.NewRational(1, 12)))
	require.Len(t, tripleted.TupletBegin, 1)
}

func TestAcceptWritesBackToNote(t *testing.T) {
	note := &ast.Note{RhythmicData: ast.RhythmicData{ID: 1, AmbiguousValue: ast.QuarterOr64th, Dots: 1}}
	p := NewNoteAs(note, ast.Large, ast.QuarterOr64th)
	p = p.WithNoteGroup(ast.GroupBegin)
	p.Accept()

	require.True(t, note.Type.Equal(ast.NewRational(1, 4)))
	require.Equal(t, ast.GroupBegin, note.NoteGroup)
	require.True(t, note.Factor.Equal(ast.One))
	require.True(t, note.FullDuration().Equal(ast.NewRational(3, 8)))
}

func TestWholeMeasureRestAccept(t *testing.T) {
	rest := &ast.Rest{RhythmicData: ast.RhythmicData{ID: 1, AmbiguousValue: ast.WholeOr16th}}
	p := NewWholeMeasureRest(rest, ast.NewRational(3, 4))
	p.Accept()

	require.True(t, rest.WholeMeasure)
	require.True(t, rest.Type.Equal(ast.NewRational(3, 4)))
}

func TestDurationSumsProxies(t *testing.T) {
	n1 := &ast.Note{RhythmicData: ast.RhythmicData{ID: 1, AmbiguousValue: ast.QuarterOr64th}}
	n2 := &ast.Note{RhythmicData: ast.RhythmicData{ID: 2, AmbiguousValue: ast.QuarterOr64th}}
	total := Duration([]Proxy{NewNoteAs(n1, ast.Large, ast.QuarterOr64th), NewNoteAs(n2, ast.Large, ast.QuarterOr64th)})
	require.True(t, total.Equal(ast.NewRational(1, 2)))
}
