package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"survey-service/internal/domain"
)

// SessionRepository abstracts where live response sessions are kept (in-memory, Redis-marked).
type SessionRepository interface {
	Put(session *ResponseSession)
	Get(sessionID string) (*ResponseSession, bool)
	Delete(sessionID string)
}

// IngestListener is told about every response that was stored.
type IngestListener interface {
	ResponseIngested(ctx context.Context, surveyID string)
}

// ResponseService contains the respondent-facing use cases.
type ResponseService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	sessions  SessionRepository
	listener  IngestListener
	now       func() time.Time
	newID     func() string
}

func NewResponseService(surveys SurveyRepository, responses ResponseRepository, sessions SessionRepository, opts ...Option) *ResponseService {
	o := buildOptions(opts)
	return &ResponseService{
		surveys:   surveys,
		responses: responses,
		sessions:  sessions,
		now:       o.now,
		newID:     o.newID,
	}
}

// SetListener registers the component notified after each stored response.
func (s *ResponseService) SetListener(l IngestListener) {
	s.listener = l
}

// Ingest validates answers against the published survey and stores them as
// a new response. Answers are replayed through capture so ranges and option
// IDs are enforced, then normalized into survey order.
func (s *ResponseService) Ingest(ctx context.Context, surveyID, respondentID string, answers []domain.Answer) (domain.Response, error) {
	survey, err := loadOpenSurvey(ctx, s.surveys, surveyID)
	if err != nil {
		return domain.Response{}, err
	}
	store, err := StoreFromAnswers(survey, answers)
	if err != nil {
		return domain.Response{}, err
	}
	normalized, err := Normalize(survey, store)
	if err != nil {
		return domain.Response{}, err
	}
	if respondentID == "" {
		respondentID = domain.AnonymousRespondent
	}

	response := domain.Response{
		ID:           s.newID(),
		SurveyID:     survey.ID,
		RespondentID: respondentID,
		Answers:      normalized,
		SubmittedAt:  s.now(),
	}
	if err := s.responses.AddResponse(ctx, response); err != nil {
		return domain.Response{}, err
	}
	if s.listener != nil {
		s.listener.ResponseIngested(ctx, survey.ID)
	}
	return response, nil
}

// SubmitResponse stores an anonymous response. It lets in-process sessions
// use the service as their ingestor.
func (s *ResponseService) SubmitResponse(ctx context.Context, surveyID string, answers []domain.Answer) error {
	_, err := s.Ingest(ctx, surveyID, domain.AnonymousRespondent, answers)
	return err
}

// Open starts a response session on a published survey.
func (s *ResponseService) Open(ctx context.Context, surveyID string) (*ResponseSession, error) {
	survey, err := loadOpenSurvey(ctx, s.surveys, surveyID)
	if err != nil {
		return nil, err
	}
	session := NewResponseSession(s.newID(), survey, s)
	s.sessions.Put(session)
	return session, nil
}

// Session looks up a live response session.
func (s *ResponseService) Session(sessionID string) (*ResponseSession, bool) {
	return s.sessions.Get(sessionID)
}

// Close discards a session. Unsubmitted answers are dropped and no response is created.
func (s *ResponseService) Close(sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Discard()
	s.sessions.Delete(sessionID)
}

// List returns the responses of an owned survey ordered by submission time.
func (s *ResponseService) List(ctx context.Context, ownerID, surveyID string) ([]domain.Response, error) {
	survey, err := s.surveys.LoadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, surveyID)
	}
	responses, err := s.responses.ListResponses(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].SubmittedAt.Before(responses[j].SubmittedAt)
	})
	return responses, nil
}
