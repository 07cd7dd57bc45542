package ast

import "testing"

func TestRhythmicDataFullDuration(t *testing.T) {
	r := RhythmicData{Type: NewRational(1, 4), Factor: One}
	if got := r.FullDuration(); !got.Equal(NewRational(1, 4)) {
		t.Errorf("FullDuration() = %v, want 1/4", got)
	}

	dotted := RhythmicData{Type: NewRational(1, 4), Dots: 1, Factor: One}
	if got := dotted.FullDuration(); !got.Equal(NewRational(3, 8)) {
		t.Errorf("FullDuration() with one dot = %v, want 3/8", got)
	}

	tripleted := RhythmicData{Type: NewRational(1, 8), Factor: NewRational(2, 3)}
	if got := tripleted.FullDuration(); !got.Equal(NewRational(1, 12)) {
		t.Errorf("FullDuration() under a triplet factor = %v, want 1/12", got)
	}
}

func TestDurationSumsContainers(t *testing.T) {
	note := &Note{RhythmicData: RhythmicData{ID: 1, Type: NewRational(1, 4), Factor: One}}
	rest := &Rest{RhythmicData: RhythmicData{ID: 2, Type: NewRational(1, 4), Factor: One}}

	pv := &PartialVoice{ID: 1, Signs: []Sign{note, rest}}
	if got := Duration(pv); !got.Equal(NewRational(1, 2)) {
		t.Errorf("Duration(partial voice) = %v, want 1/2", got)
	}

	pm := &PartialMeasure{ID: 1, Voices: []*PartialVoice{pv}}
	if got := Duration(pm); !got.Equal(NewRational(1, 2)) {
		t.Errorf("Duration(partial measure) = %v, want 1/2", got)
	}

	voice := &Voice{ID: 1, Parts: []*PartialMeasure{pm, pm}}
	if got := Duration(voice); !got.Equal(NewRational(1, 1)) {
		t.Errorf("Duration(voice) = %v, want 1", got)
	}

	measure := &Measure{ID: 1, Voices: []*Voice{voice}}
	if got := Duration(measure); !got.Equal(NewRational(1, 1)) {
		t.Errorf("Duration(measure) = %v, want 1", got)
	}
}
