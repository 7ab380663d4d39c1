package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

// AnalyticsService computes results views for survey owners.
type AnalyticsService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	hub       *ResultsHub
}

func NewAnalyticsService(surveys SurveyRepository, responses ResponseRepository, hub *ResultsHub) *AnalyticsService {
	return &AnalyticsService{surveys: surveys, responses: responses, hub: hub}
}

// Summary recomputes the analytics of an owned survey from all its responses.
func (s *AnalyticsService) Summary(ctx context.Context, ownerID, surveyID string) (domain.AnalyticsSummary, error) {
	survey, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return domain.AnalyticsSummary{}, err
	}
	if survey.OwnerID != ownerID {
		return domain.AnalyticsSummary{}, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, surveyID)
	}
	return Aggregate(survey, responses), nil
}

// Labels returns the option labels of an owned survey for presenting distributions.
func (s *AnalyticsService) Labels(ctx context.Context, ownerID, surveyID string) (map[string]map[string]string, error) {
	survey, err := s.surveys.LoadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, surveyID)
	}
	return OptionLabels(survey), nil
}

// Subscribe returns a channel that receives a fresh summary every time a
// response is stored for surveyID, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *AnalyticsService) Subscribe(ctx context.Context, ownerID, surveyID string) (<-chan domain.AnalyticsSummary, func(), error) {
	initial, err := s.Summary(ctx, ownerID, surveyID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(surveyID, initial)
	return ch, cancel, nil
}

// ResponseIngested recomputes and publishes the summary when someone is watching.
func (s *AnalyticsService) ResponseIngested(ctx context.Context, surveyID string) {
	if !s.hub.HasSubscribers(surveyID) {
		return
	}
	survey, responses, err := s.load(ctx, surveyID)
	if err != nil {
		log.WithField("survey", surveyID).Warnf("analytics.refresh: %v", err)
		return
	}
	s.hub.Publish(surveyID, Aggregate(survey, responses))
}

func (s *AnalyticsService) load(ctx context.Context, surveyID string) (domain.Survey, []domain.Response, error) {
	var (
		survey    domain.Survey
		responses []domain.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		survey, err = s.surveys.LoadSurvey(gctx, surveyID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.responses.ListResponses(gctx, surveyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Survey{}, nil, err
	}
	return survey, responses, nil
}
