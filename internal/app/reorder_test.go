package app_test

import (
	"errors"
	"reflect"
	"testing"

	"survey-service/internal/app"
	"survey-service/internal/domain"
)

func TestReorder(t *testing.T) {
	base := []string{"A", "B", "C", "D"}
	cases := []struct {
		src, dst int
		want     []string
	}{
		{0, 2, []string{"B", "C", "A", "D"}},
		{2, 2, []string{"A", "B", "C", "D"}},
		{3, 0, []string{"D", "A", "B", "C"}},
		{0, 3, []string{"B", "C", "D", "A"}},
		{1, 2, []string{"A", "C", "B", "D"}},
	}
	for _, tc := range cases {
		got, err := app.Reorder(base, tc.src, tc.dst)
		if err != nil {
			t.Fatalf("reorder(%d,%d): %v", tc.src, tc.dst, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("reorder(%d,%d): expected %v, got %v", tc.src, tc.dst, tc.want, got)
		}
	}
	if !reflect.DeepEqual(base, []string{"A", "B", "C", "D"}) {
		t.Fatalf("input slice was modified: %v", base)
	}
}

func TestReorderRejectsBadIndexes(t *testing.T) {
	base := []string{"A", "B", "C", "D"}
	for _, pair := range [][2]int{{5, 0}, {0, 4}, {-1, 0}, {0, -1}} {
		if _, err := app.Reorder(base, pair[0], pair[1]); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Fatalf("reorder(%d,%d): expected ErrIndexOutOfRange, got %v", pair[0], pair[1], err)
		}
	}
}

func TestReorderKeepsQuestionContents(t *testing.T) {
	survey := sampleSurvey()
	got, err := app.Reorder(survey.Questions, 3, 0)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if !reflect.DeepEqual(got[0], survey.Questions[3]) {
		t.Fatalf("moved question changed: %+v", got[0])
	}
}
