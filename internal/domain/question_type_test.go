package domain

import (
	"errors"
	"testing"
)

func TestRegistryProfiles(t *testing.T) {
	cases := []struct {
		typ     QuestionType
		options bool
		shape   AnswerShape
		min     int
		max     int
	}{
		{ShortText, false, ShapeText, 0, 0},
		{LongText, false, ShapeText, 0, 0},
		{SingleChoice, true, ShapeChoice, 0, 0},
		{MultiChoice, true, ShapeChoiceSet, 0, 0},
		{Dropdown, true, ShapeChoice, 0, 0},
		{Scale, false, ShapeNumber, 1, 10},
		{NPS, false, ShapeNumber, 0, 10},
	}
	for _, tc := range cases {
		p, err := tc.typ.Profile()
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.typ, err)
		}
		if p.CarriesOptions != tc.options || p.Shape != tc.shape || p.Min != tc.min || p.Max != tc.max {
			t.Fatalf("%s: unexpected profile %+v", tc.typ, p)
		}
	}
	if got := len(QuestionTypes()); got != len(cases) {
		t.Fatalf("expected %d registered types, got %d", len(cases), got)
	}
}

func TestParseQuestionTypeRejectsUnknown(t *testing.T) {
	if _, err := ParseQuestionType("checkbox-grid"); !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("expected ErrUnknownQuestionType, got %v", err)
	}
	typ, err := ParseQuestionType("nps")
	if err != nil || typ != NPS {
		t.Fatalf("expected nps, got %q %v", typ, err)
	}
}

func TestInRange(t *testing.T) {
	scale, _ := Scale.Profile()
	nps, _ := NPS.Profile()
	if scale.InRange(0) || !scale.InRange(1) || !scale.InRange(10) || scale.InRange(11) {
		t.Fatalf("scale range should be 1..10")
	}
	if !nps.InRange(0) || !nps.InRange(10) || nps.InRange(-1) || nps.InRange(11) {
		t.Fatalf("nps range should be 0..10")
	}
	text, _ := ShortText.Profile()
	if text.InRange(1) {
		t.Fatalf("text types have no numeric domain")
	}
}
