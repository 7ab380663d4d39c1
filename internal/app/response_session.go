package app

import (
	"context"
	"fmt"
	"sync"

	"survey-service/internal/domain"
)

// Ingestor is the response-ingestion boundary a session submits to. It is
// implemented by ResponseService in-process and by the HTTP client remotely.
type Ingestor interface {
	SubmitResponse(ctx context.Context, surveyID string, answers []domain.Answer) error
}

// ResponseSession is one respondent filling in one survey. It owns the
// answer store and guards submission so that it cannot be re-entered while a
// request is outstanding.
type ResponseSession struct {
	id     string
	survey domain.Survey
	ingest Ingestor

	mu         sync.Mutex
	answers    *AnswerStore
	submitting bool
	submitted  bool
}

// NewResponseSession is exported for infrastructure layers and remote clients
// that run the form against a survey they loaded themselves.
func NewResponseSession(id string, survey domain.Survey, ingest Ingestor) *ResponseSession {
	return &ResponseSession{
		id:      id,
		survey:  survey,
		ingest:  ingest,
		answers: NewAnswerStore(),
	}
}

func (s *ResponseSession) ID() string { return s.id }

func (s *ResponseSession) SurveyID() string { return s.survey.ID }

// Survey returns the definition the session renders and validates against.
func (s *ResponseSession) Survey() domain.Survey { return s.survey }

// SetAnswer captures in for questionID.
func (s *ResponseSession) SetAnswer(questionID string, in Input) (domain.AnswerValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writableLocked(); err != nil {
		return nil, err
	}
	q, _, ok := s.survey.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}
	return s.answers.Set(q, in)
}

// Unanswered returns the IDs still missing an answer, in survey order.
func (s *ResponseSession) Unanswered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Validate(s.survey, s.answers)
}

// Submit validates, normalizes and hands the answers to the ingestor. While
// the call is outstanding further Submit or SetAnswer calls fail with
// ErrSubmitInFlight. A failed ingestion keeps every captured answer so the
// respondent can retry; success clears the store.
func (s *ResponseSession) Submit(ctx context.Context) ([]domain.Answer, error) {
	s.mu.Lock()
	if err := s.writableLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	answers, err := Normalize(s.survey, s.answers)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	s.mu.Unlock()

	err = s.ingest.SubmitResponse(ctx, s.survey.ID, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return nil, err
	}
	s.submitted = true
	s.answers.Reset()
	return answers, nil
}

// Submitted reports whether the session has been successfully submitted.
func (s *ResponseSession) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Discard drops the captured answers without creating any response.
func (s *ResponseSession) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers.Reset()
}

func (s *ResponseSession) writableLocked() error {
	if s.submitted {
		return domain.ErrAlreadySubmitted
	}
	if s.submitting {
		return domain.ErrSubmitInFlight
	}
	return nil
}
