package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"survey-service/internal/domain"
)

// SurveyRepository abstracts where survey definitions live (memory, SQLite, Postgres, cached).
type SurveyRepository interface {
	LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error)
	SaveSurvey(ctx context.Context, survey domain.Survey) error
	ListSurveys(ctx context.Context, ownerID string) ([]domain.Survey, error)
}

// ResponseRepository persists submitted responses.
type ResponseRepository interface {
	AddResponse(ctx context.Context, response domain.Response) error
	ListResponses(ctx context.Context, surveyID string) ([]domain.Response, error)
}

// Option customizes the clock and ID generator of a service.
type Option func(*serviceOptions)

type serviceOptions struct {
	now   func() time.Time
	newID func() string
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// WithIDGenerator is used by tests for deterministic IDs.
func WithIDGenerator(newID func() string) Option {
	return func(o *serviceOptions) { o.newID = newID }
}

func buildOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SurveyService contains the survey editor use cases. Every mutation loads
// the survey, checks ownership, applies the change, bumps ModifiedAt and
// saves it back.
type SurveyService struct {
	surveys SurveyRepository
	now     func() time.Time
	newID   func() string

	// serializes load-modify-save cycles
	mu sync.Mutex
}

func NewSurveyService(surveys SurveyRepository, opts ...Option) *SurveyService {
	o := buildOptions(opts)
	return &SurveyService{surveys: surveys, now: o.now, newID: o.newID}
}

// Create starts a new, unpublished survey for ownerID.
func (s *SurveyService) Create(ctx context.Context, ownerID, name string) (domain.Survey, error) {
	if strings.TrimSpace(name) == "" {
		name = defaultSurveyName
	}
	now := s.now()
	survey := domain.Survey{
		ID:              s.newID(),
		OwnerID:         ownerID,
		Name:            name,
		Status:          domain.StatusNew,
		LogicallyActive: true,
		CreatedAt:       now,
		ModifiedAt:      now,
		Questions:       []domain.Question{},
	}
	if err := s.surveys.SaveSurvey(ctx, survey); err != nil {
		return domain.Survey{}, err
	}
	return survey, nil
}

// Get loads a survey owned by ownerID.
func (s *SurveyService) Get(ctx context.Context, ownerID, surveyID string) (domain.Survey, error) {
	survey, err := s.surveys.LoadSurvey(ctx, surveyID)
	if err != nil {
		return domain.Survey{}, err
	}
	if survey.OwnerID != ownerID {
		return domain.Survey{}, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, surveyID)
	}
	return survey, nil
}

// List returns the surveys owned by ownerID.
func (s *SurveyService) List(ctx context.Context, ownerID string) ([]domain.Survey, error) {
	return s.surveys.ListSurveys(ctx, ownerID)
}

// Public loads a survey for respondents. Only published surveys are visible.
func (s *SurveyService) Public(ctx context.Context, surveyID string) (domain.Survey, error) {
	return loadOpenSurvey(ctx, s.surveys, surveyID)
}

// Save replaces the name and questions of an owned survey with the given
// definition. Questions and options without an ID are added with a fresh
// one; IDs the survey does not hold are rejected, as are type changes and
// reordering of kept questions.
func (s *SurveyService) Save(ctx context.Context, ownerID string, def domain.Survey) (domain.Survey, error) {
	return s.mutate(ctx, ownerID, def.ID, func(survey *domain.Survey) error {
		next := def.Clone()
		if err := reconcileDefinition(*survey, &next, s.newID); err != nil {
			return err
		}
		if err := next.Check(); err != nil {
			return err
		}
		if strings.TrimSpace(next.Name) != "" {
			survey.Name = next.Name
		}
		survey.Questions = next.Questions
		return nil
	})
}

// Rename changes the display name of a survey.
func (s *SurveyService) Rename(ctx context.Context, ownerID, surveyID, name string) (domain.Survey, error) {
	return s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty name", domain.ErrInvalidSurvey)
		}
		survey.Name = name
		return nil
	})
}

// Publish opens the survey for public responses.
func (s *SurveyService) Publish(ctx context.Context, ownerID, surveyID string) (domain.Survey, error) {
	return s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		if len(survey.Questions) == 0 {
			return fmt.Errorf("%w: survey has no questions", domain.ErrInvalidSurvey)
		}
		survey.Status = domain.StatusActive
		survey.LogicallyActive = true
		return nil
	})
}

// Deactivate closes the survey. Surveys are never physically deleted.
func (s *SurveyService) Deactivate(ctx context.Context, ownerID, surveyID string) (domain.Survey, error) {
	return s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		survey.Status = domain.StatusInactive
		survey.LogicallyActive = false
		return nil
	})
}

// AddQuestion appends a question of type t with default texts.
func (s *SurveyService) AddQuestion(ctx context.Context, ownerID, surveyID string, t domain.QuestionType) (domain.Question, error) {
	var added domain.Question
	_, err := s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		q, err := addQuestion(survey, t, s.newID)
		added = q
		return err
	})
	return added, err
}

func (s *SurveyService) UpdateQuestion(ctx context.Context, ownerID, surveyID, questionID string, patch QuestionPatch) (domain.Question, error) {
	var updated domain.Question
	_, err := s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		q, err := updateQuestion(survey, questionID, patch)
		updated = q
		return err
	})
	return updated, err
}

func (s *SurveyService) DeleteQuestion(ctx context.Context, ownerID, surveyID, questionID string) (domain.Survey, error) {
	return s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		return deleteQuestion(survey, questionID)
	})
}

// MoveQuestion reorders the survey's questions with splice-move semantics.
func (s *SurveyService) MoveQuestion(ctx context.Context, ownerID, surveyID string, src, dst int) (domain.Survey, error) {
	return s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		return moveQuestion(survey, src, dst)
	})
}

func (s *SurveyService) AddOption(ctx context.Context, ownerID, surveyID, questionID, label string) (domain.Option, error) {
	var added domain.Option
	_, err := s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		o, err := addOption(survey, questionID, label, s.newID)
		added = o
		return err
	})
	return added, err
}

func (s *SurveyService) UpdateOption(ctx context.Context, ownerID, surveyID, questionID, optionID, label string) (domain.Option, error) {
	var updated domain.Option
	_, err := s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		o, err := updateOption(survey, questionID, optionID, label)
		updated = o
		return err
	})
	return updated, err
}

// RemoveOption deletes an option. The last option of a question cannot be removed.
func (s *SurveyService) RemoveOption(ctx context.Context, ownerID, surveyID, questionID, optionID string) (domain.Survey, error) {
	return s.mutate(ctx, ownerID, surveyID, func(survey *domain.Survey) error {
		return removeOption(survey, questionID, optionID)
	})
}

func (s *SurveyService) mutate(ctx context.Context, ownerID, surveyID string, apply func(*domain.Survey) error) (domain.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(ctx, ownerID, surveyID)
	if err != nil {
		return domain.Survey{}, err
	}
	survey := current.Clone()
	if err := apply(&survey); err != nil {
		return domain.Survey{}, err
	}
	survey.ModifiedAt = s.now()
	if err := s.surveys.SaveSurvey(ctx, survey); err != nil {
		return domain.Survey{}, err
	}
	return survey, nil
}

func loadOpenSurvey(ctx context.Context, surveys SurveyRepository, surveyID string) (domain.Survey, error) {
	survey, err := surveys.LoadSurvey(ctx, surveyID)
	if err != nil {
		return domain.Survey{}, err
	}
	if !survey.AcceptsResponses() {
		return domain.Survey{}, fmt.Errorf("%w: %s", domain.ErrSurveyClosed, surveyID)
	}
	return survey, nil
}
