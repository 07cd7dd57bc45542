// Package fixtures loads small YAML-described measures into ast nodes for
// tests, adapting a LoadTrack/StringOrList-style YAML decode into a terse
// shorthand for partial-voice runs instead of a track description.
package fixtures

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"braillemusic/ast"
)

// Measure is the YAML shape of one measure fixture: a time signature, an
// optional key signature, and one list of sign tokens per voice.
type Measure struct {
	TimeSignature string   `yaml:"time_signature"`
	KeySignature  int      `yaml:"key_signature"`
	Voices        SignRows `yaml:"voices"`
}

// SignRows is one partial voice's worth of shorthand tokens per voice;
// it exists only so YAML's block-sequence-of-sequences decodes directly
// into [][]string without an intermediate alias at every call site.
type SignRows [][]string

// LoadMeasure decodes a YAML fixture document into a Measure description
// and the ast.Measure it describes, assigning sequential ids starting at
// firstID.
func LoadMeasure(data []byte, firstID int) (*ast.Measure, ast.TimeSignature, ast.KeySignature, error) {
	var m Measure
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, ast.TimeSignature{}, 0, fmt.Errorf("fixtures: %w", err)
	}
	ts, err := parseTimeSignature(m.TimeSignature)
	if err != nil {
		return nil, ast.TimeSignature{}, 0, err
	}

	id := firstID
	next := func() int { id++; return id }

	voices := make([]*ast.Voice, len(m.Voices))
	for i, row := range m.Voices {
		signs, err := ParseSigns(row, next)
		if err != nil {
			return nil, ast.TimeSignature{}, 0, fmt.Errorf("fixtures: voice %d: %w", i, err)
		}
		voices[i] = &ast.Voice{
			ID: next(),
			Parts: []*ast.PartialMeasure{{
				ID:     next(),
				Voices: []*ast.PartialVoice{{ID: next(), Signs: signs}},
			}},
		}
	}

	return &ast.Measure{ID: firstID, Voices: voices}, ts, ast.KeySignature(m.KeySignature), nil
}

func parseTimeSignature(s string) (ast.TimeSignature, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return ast.TimeSignature{}, fmt.Errorf("fixtures: bad time signature %q", s)
	}
	num, err := strconv.Atoi(parts[0])
	if err != nil {
		return ast.TimeSignature{}, fmt.Errorf("fixtures: bad time signature %q: %w", s, err)
	}
	den, err := strconv.Atoi(parts[1])
	if err != nil {
		return ast.TimeSignature{}, fmt.Errorf("fixtures: bad time signature %q: %w", s, err)
	}
	return ast.TimeSignature{Numerator: num, Denominator: den}, nil
}

var valueTokens = map[byte]ast.AmbiguousValue{
	'w': ast.WholeOr16th,
	'h': ast.HalfOr32nd,
	'q': ast.QuarterOr64th,
	'e': ast.EighthOr128th,
}

var stepTokens = map[byte]ast.Step{
	'C': ast.StepC, 'D': ast.StepD, 'E': ast.StepE, 'F': ast.StepF,
	'G': ast.StepG, 'A': ast.StepA, 'B': ast.StepB,
}

// ParseSigns decodes a row of shorthand tokens into signs. Supported
// forms:
//
//	N<step><octave>:<value>[.<dots>]   note, e.g. "NC4:q" or "NC4:q.1"
//	R:<value>[.<dots>]                 rest, e.g. "R:h"
//	T<number>[d]                       tuplet start, e.g. "T3" or "T3d"
//	DL / DS / DD                       value distinction
//	S<count>                           simile
func ParseSigns(tokens []string, nextID func() int) ([]ast.Sign, error) {
	out := make([]ast.Sign, 0, len(tokens))
	for _, tok := range tokens {
		s, err := parseOne(tok, nextID)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseOne(tok string, nextID func() int) (ast.Sign, error) {
	switch {
	case strings.HasPrefix(tok, "N"):
		return parseNote(tok, nextID)
	case strings.HasPrefix(tok, "R:"):
		value, dots, err := parseValueSuffix(strings.TrimPrefix(tok, "R:"))
		if err != nil {
			return nil, err
		}
		return &ast.Rest{RhythmicData: ast.RhythmicData{ID: nextID(), AmbiguousValue: value, Dots: dots}}, nil
	case strings.HasPrefix(tok, "T"):
		body := strings.TrimPrefix(tok, "T")
		doubled := strings.HasSuffix(body, "d")
		if doubled {
			body = strings.TrimSuffix(body, "d")
		}
		number, err := strconv.Atoi(body)
		if err != nil {
			return nil, fmt.Errorf("fixtures: bad tuplet token %q: %w", tok, err)
		}
		return &ast.TupletStart{ID: nextID(), Number: number, SimpleTriplet: true, Doubled: doubled}, nil
	case tok == "DL":
		return &ast.ValueDistinction{ID: nextID(), Kind: ast.LargeFollows}, nil
	case tok == "DS":
		return &ast.ValueDistinction{ID: nextID(), Kind: ast.SmallFollows}, nil
	case tok == "DD":
		return &ast.ValueDistinction{ID: nextID(), Kind: ast.Distinct}, nil
	case strings.HasPrefix(tok, "S"):
		count, err := strconv.Atoi(strings.TrimPrefix(tok, "S"))
		if err != nil {
			return nil, fmt.Errorf("fixtures: bad simile token %q: %w", tok, err)
		}
		return &ast.Simile{ID: nextID(), Count: count}, nil
	default:
		return nil, fmt.Errorf("fixtures: unrecognised token %q", tok)
	}
}

func parseNote(tok string, nextID func() int) (ast.Sign, error) {
	body := strings.TrimPrefix(tok, "N")
	parts := strings.SplitN(body, ":", 2)
	if len(parts) != 2 || len(parts[0]) < 2 {
		return nil, fmt.Errorf("fixtures: bad note token %q", tok)
	}
	step, ok := stepTokens[parts[0][0]]
	if !ok {
		return nil, fmt.Errorf("fixtures: bad note step in %q", tok)
	}
	octave, err := strconv.Atoi(parts[0][1:])
	if err != nil {
		return nil, fmt.Errorf("fixtures: bad note octave in %q: %w", tok, err)
	}
	value, dots, err := parseValueSuffix(parts[1])
	if err != nil {
		return nil, err
	}
	return &ast.Note{
		RhythmicData: ast.RhythmicData{ID: nextID(), AmbiguousValue: value, Dots: dots},
		Pitched:      ast.Pitched{Step: step, OctaveSpec: &octave},
	}, nil
}

func parseValueSuffix(s string) (ast.AmbiguousValue, int, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts[0]) != 1 {
		return 0, 0, fmt.Errorf("fixtures: bad value %q", s)
	}
	value, ok := valueTokens[parts[0][0]]
	if !ok {
		return 0, 0, fmt.Errorf("fixtures: bad value %q", s)
	}
	dots := 0
	if len(parts) == 2 {
		d, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("fixtures: bad dot count in %q: %w", s, err)
		}
		dots = d
	}
	return value, dots, nil
}
