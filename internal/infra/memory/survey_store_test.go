package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"survey-service/internal/domain"
)

func TestSurveyStoreListsByOwner(t *testing.T) {
	ctx := context.Background()
	older := sampleSurvey()
	older.ID = "s0"
	older.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleSurvey()
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	foreign := sampleSurvey()
	foreign.ID = "s9"
	foreign.OwnerID = "owner-2"

	store := NewSurveyStore(newer, foreign, older)
	list, err := store.ListSurveys(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "s0" || list[1].ID != "s1" {
		t.Fatalf("unexpected list %+v", list)
	}

	if _, err := store.LoadSurvey(ctx, "missing"); !errors.Is(err, domain.ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound, got %v", err)
	}
}

func TestResponseStoreKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := NewResponseStore()
	for _, id := range []string{"r1", "r2", "r3"} {
		_ = store.AddResponse(ctx, domain.Response{ID: id, SurveyID: "s1"})
	}
	_ = store.AddResponse(ctx, domain.Response{ID: "x", SurveyID: "s2"})

	list, _ := store.ListResponses(ctx, "s1")
	if len(list) != 3 || list[0].ID != "r1" || list[2].ID != "r3" {
		t.Fatalf("unexpected responses %+v", list)
	}
	if empty, _ := store.ListResponses(ctx, "none"); len(empty) != 0 {
		t.Fatalf("expected no responses, got %v", empty)
	}
}
