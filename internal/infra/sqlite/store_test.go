package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"survey-service/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.db")
	store, err := Open(context.Background(), "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreSurveyRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	survey := domain.Survey{
		ID:              "s1",
		OwnerID:         "owner-1",
		Name:            "Feedback",
		Status:          domain.StatusActive,
		LogicallyActive: true,
		CreatedAt:       created,
		ModifiedAt:      created,
		Questions: []domain.Question{
			{ID: "q1", Caption: "Plan", PromptText: "Which plan?", Type: domain.Dropdown, Options: []domain.Option{{ID: "o1", Label: "Free"}}},
			{ID: "q2", Caption: "Recommend", PromptText: "Would you recommend us?", Type: domain.NPS, Options: []domain.Option{}},
		},
	}
	if err := store.SaveSurvey(ctx, survey); err != nil {
		t.Fatalf("save: %v", err)
	}

	survey.Name = "Feedback 2"
	survey.ModifiedAt = created.Add(time.Hour)
	if err := store.SaveSurvey(ctx, survey); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.LoadSurvey(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "Feedback 2" || len(got.Questions) != 2 || got.Questions[1].Type != domain.NPS {
		t.Fatalf("unexpected survey: %+v", got)
	}
	if !got.ModifiedAt.Equal(survey.ModifiedAt) {
		t.Fatalf("expected modified %v, got %v", survey.ModifiedAt, got.ModifiedAt)
	}

	list, err := store.ListSurveys(ctx, "owner-1")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one survey, got %d (%v)", len(list), err)
	}
	if other, _ := store.ListSurveys(ctx, "owner-2"); len(other) != 0 {
		t.Fatalf("expected no surveys for other owner, got %d", len(other))
	}
}

func TestStoreLoadMissingSurvey(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.LoadSurvey(context.Background(), "missing"); !errors.Is(err, domain.ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound, got %v", err)
	}
}

func TestStoreResponsesInSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := store.SaveSurvey(ctx, domain.Survey{ID: "s1", OwnerID: "owner-1", CreatedAt: base, ModifiedAt: base}); err != nil {
		t.Fatalf("save: %v", err)
	}
	later := domain.Response{
		ID: "r2", SurveyID: "s1", RespondentID: domain.AnonymousRespondent, SubmittedAt: base.Add(2 * time.Minute),
		Answers: []domain.Answer{{QuestionID: "q1", Value: domain.SetValue{"o1", "o2"}}},
	}
	earlier := domain.Response{
		ID: "r1", SurveyID: "s1", RespondentID: domain.AnonymousRespondent, SubmittedAt: base.Add(time.Minute),
		Answers: []domain.Answer{{QuestionID: "q1", Value: domain.NumberValue(9)}},
	}
	for _, r := range []domain.Response{later, earlier} {
		if err := store.AddResponse(ctx, r); err != nil {
			t.Fatalf("add response: %v", err)
		}
	}

	got, err := store.ListResponses(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r2" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if v, ok := got[0].Answers[0].Value.(domain.NumberValue); !ok || v != 9 {
		t.Fatalf("expected number 9, got %#v", got[0].Answers[0].Value)
	}
	if set, ok := got[1].Answers[0].Value.(domain.SetValue); !ok || len(set) != 2 {
		t.Fatalf("expected two-member set, got %#v", got[1].Answers[0].Value)
	}
}
