package app_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// stepClock advances by one second on every call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// sampleSurvey covers every question type, one of each, in registry order.
func sampleSurvey() domain.Survey {
	return domain.Survey{
		ID:              "s1",
		OwnerID:         "owner-1",
		Name:            "Customer feedback",
		Status:          domain.StatusActive,
		LogicallyActive: true,
		CreatedAt:       baseTime,
		ModifiedAt:      baseTime,
		Questions: []domain.Question{
			{ID: "name", Caption: "Name", Type: domain.ShortText},
			{ID: "comments", Caption: "Comments", Type: domain.LongText},
			{ID: "plan", Caption: "Plan", Type: domain.SingleChoice, Options: []domain.Option{
				{ID: "free", Label: "Free"}, {ID: "pro", Label: "Pro"},
			}},
			{ID: "features", Caption: "Features", Type: domain.MultiChoice, Options: []domain.Option{
				{ID: "export", Label: "Export"}, {ID: "charts", Label: "Charts"}, {ID: "api", Label: "API"},
			}},
			{ID: "country", Caption: "Country", Type: domain.Dropdown, Options: []domain.Option{
				{ID: "ar", Label: "Argentina"}, {ID: "cl", Label: "Chile"},
			}},
			{ID: "ease", Caption: "Ease", Type: domain.Scale},
			{ID: "recommend", Caption: "Recommend", Type: domain.NPS},
		},
	}
}

// fillAll answers every question of sampleSurvey.
func fillAll(store *app.AnswerStore, survey domain.Survey) error {
	inputs := map[string][]app.Input{
		"name":      {app.TextInput("Ada")},
		"comments":  {app.TextInput("Works well")},
		"plan":      {app.TextInput("pro")},
		"features":  {app.ToggleInput{OptionID: "charts", Included: true}, app.ToggleInput{OptionID: "export", Included: true}},
		"country":   {app.TextInput("cl")},
		"ease":      {app.NumberInput(7)},
		"recommend": {app.NumberInput(0)},
	}
	for _, q := range survey.Questions {
		for _, in := range inputs[q.ID] {
			if _, err := store.Set(q, in); err != nil {
				return err
			}
		}
	}
	return nil
}

type testEnv struct {
	surveys   *memory.SurveyStore
	responses *memory.ResponseStore
	sessions  *memory.SessionStore
	editor    *app.SurveyService
	respond   *app.ResponseService
	analytics *app.AnalyticsService
	hub       *app.ResultsHub
}

func newTestEnv() *testEnv {
	clock := &stepClock{now: baseTime}
	surveys := memory.NewSurveyStore()
	responses := memory.NewResponseStore()
	sessions := memory.NewSessionStore()
	hub := app.NewResultsHub()

	env := &testEnv{
		surveys:   surveys,
		responses: responses,
		sessions:  sessions,
		hub:       hub,
		editor:    app.NewSurveyService(surveys, app.WithClock(clock.Now), app.WithIDGenerator(sequentialIDs("id-"))),
		respond:   app.NewResponseService(surveys, responses, sessions, app.WithClock(clock.Now), app.WithIDGenerator(sequentialIDs("r-"))),
		analytics: app.NewAnalyticsService(surveys, responses, hub),
	}
	env.respond.SetListener(env.analytics)
	return env
}

func (e *testEnv) seed(survey domain.Survey) {
	if err := e.surveys.SaveSurvey(context.Background(), survey); err != nil {
		panic(err)
	}
}
