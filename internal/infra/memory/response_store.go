package memory

import (
	"context"
	"sync"

	"survey-service/internal/domain"
)

// ResponseStore keeps submitted responses in insertion order per survey.
type ResponseStore struct {
	mu        sync.RWMutex
	responses map[string][]domain.Response
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{responses: make(map[string][]domain.Response)}
}

func (s *ResponseStore) AddResponse(_ context.Context, response domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	response.Answers = append([]domain.Answer(nil), response.Answers...)
	s.responses[response.SurveyID] = append(s.responses[response.SurveyID], response)
	return nil
}

func (s *ResponseStore) ListResponses(_ context.Context, surveyID string) ([]domain.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Response, len(s.responses[surveyID]))
	copy(out, s.responses[surveyID])
	return out, nil
}
