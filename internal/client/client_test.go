package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"survey-service/internal/app"
	"survey-service/internal/auth"
	"survey-service/internal/client"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
	transport "survey-service/internal/transport/http"
)

type fixture struct {
	server   *httptest.Server
	verifier *auth.Verifier
	failing  atomic.Bool
}

// newFixture serves the real API. While failing is set, response
// submissions get a 503 before reaching the handler.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	surveys := memory.NewSurveyStore(sampleSurvey())
	responses := memory.NewResponseStore()
	editor := app.NewSurveyService(surveys)
	respond := app.NewResponseService(surveys, responses, memory.NewSessionStore())
	analytics := app.NewAnalyticsService(surveys, responses, app.NewResultsHub())

	f := &fixture{verifier: auth.NewVerifier("secret", "")}
	api := transport.NewHandler(editor, respond, analytics, f.verifier).Routes(nil)
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.failing.Load() && r.Method == http.MethodPost {
			http.Error(w, "ingestion unavailable", http.StatusServiceUnavailable)
			return
		}
		api.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) session(t *testing.T, subject string) *auth.Session {
	t.Helper()
	token, err := f.verifier.Issue(subject, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	s := auth.NewSession()
	s.Init(token)
	return s
}

func TestLoadSurvey(t *testing.T) {
	f := newFixture(t)
	c := client.New(f.server.URL, f.session(t, "owner-1"), nil)

	survey, err := c.LoadSurvey(context.Background(), "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if survey.ID != "s1" || len(survey.Questions) != 2 {
		t.Fatalf("unexpected survey: %+v", survey)
	}

	if _, err := c.LoadSurvey(context.Background(), "missing"); !errors.Is(err, domain.ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound, got %v", err)
	}
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	f := newFixture(t)
	session := auth.NewSession()
	c := client.New(f.server.URL, session, nil)

	if _, err := c.LoadSurvey(context.Background(), "s1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without credential, got %v", err)
	}

	session.Init("stale-token")
	if _, err := c.ListResponses(context.Background(), "s1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for rejected credential, got %v", err)
	}
	if session.Active() {
		t.Fatalf("expected session to be torn down after 401")
	}
}

func TestSaveSurveyRoundTrip(t *testing.T) {
	f := newFixture(t)
	c := client.New(f.server.URL, f.session(t, "owner-1"), nil)
	ctx := context.Background()

	survey, err := c.LoadSurvey(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	survey.Name = "Renamed"
	survey.Questions = append(survey.Questions, domain.Question{Caption: "Ease", Type: domain.Scale})
	saved, err := c.SaveSurvey(ctx, survey)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Name != "Renamed" || len(saved.Questions) != 3 || saved.Questions[2].ID == "" {
		t.Fatalf("unexpected saved survey: %+v", saved)
	}

	survey.Questions[0].Type = "matrix"
	var te *domain.TransportError
	if _, err := c.SaveSurvey(ctx, survey); !errors.As(err, &te) || te.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 transport error, got %v", err)
	}
}

func TestSubmitFailureKeepsAnswers(t *testing.T) {
	f := newFixture(t)
	c := client.New(f.server.URL, auth.NewSession(), nil)
	ctx := context.Background()

	survey, err := c.LoadPublicSurvey(ctx, "s1")
	if err != nil {
		t.Fatalf("load public: %v", err)
	}
	session := app.NewResponseSession("local-1", survey, c)
	if _, err := session.SetAnswer("plan", app.TextInput("pro")); err != nil {
		t.Fatalf("answer plan: %v", err)
	}
	if _, err := session.SetAnswer("recommend", app.NumberInput(3)); err != nil {
		t.Fatalf("answer recommend: %v", err)
	}

	f.failing.Store(true)
	_, err = session.Submit(ctx)
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status != http.StatusServiceUnavailable || !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected 503 transport error, got %v", err)
	}
	if len(session.Unanswered()) != 0 {
		t.Fatalf("expected answers to survive a failed submit")
	}

	f.failing.Store(false)
	answers, err := session.Submit(ctx)
	if err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if len(answers) != 2 || answers[0].QuestionID != "plan" {
		t.Fatalf("unexpected submitted answers: %+v", answers)
	}

	owner := client.New(f.server.URL, f.session(t, "owner-1"), nil)
	responses, err := owner.ListResponses(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(responses) != 1 {
		t.Fatalf("expected one stored response, got %d", len(responses))
	}
}

func TestSubmitIncompleteAndUnreachable(t *testing.T) {
	f := newFixture(t)
	c := client.New(f.server.URL, auth.NewSession(), nil)
	ctx := context.Background()

	err := c.SubmitResponse(ctx, "s1", []domain.Answer{{QuestionID: "plan", Value: domain.TextValue("free")}})
	var incomplete *domain.IncompleteSubmissionError
	if !errors.As(err, &incomplete) || len(incomplete.Unanswered) != 1 || incomplete.Unanswered[0] != "recommend" {
		t.Fatalf("expected incomplete submission, got %v", err)
	}

	f.server.Close()
	err = c.SubmitResponse(ctx, "s1", nil)
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status != 0 {
		t.Fatalf("expected transport error without status, got %v", err)
	}
}

func sampleSurvey() domain.Survey {
	return domain.Survey{
		ID:              "s1",
		OwnerID:         "owner-1",
		Name:            "Onboarding",
		Status:          domain.StatusActive,
		LogicallyActive: true,
		Questions: []domain.Question{
			{ID: "plan", Caption: "Plan", Type: domain.SingleChoice, Options: []domain.Option{
				{ID: "free", Label: "Free"}, {ID: "pro", Label: "Pro"},
			}},
			{ID: "recommend", Caption: "Recommend", Type: domain.NPS, Options: []domain.Option{}},
		},
	}
}
