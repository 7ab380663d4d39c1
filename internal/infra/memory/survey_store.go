package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"survey-service/internal/domain"
)

// SurveyStore keeps survey definitions in process memory. Values are cloned
// on the way in and out so callers never share question slices.
type SurveyStore struct {
	mu      sync.RWMutex
	surveys map[string]domain.Survey
}

func NewSurveyStore(seed ...domain.Survey) *SurveyStore {
	s := &SurveyStore{surveys: make(map[string]domain.Survey)}
	for _, survey := range seed {
		s.surveys[survey.ID] = survey.Clone()
	}
	return s
}

func (s *SurveyStore) LoadSurvey(_ context.Context, surveyID string) (domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	survey, ok := s.surveys[surveyID]
	if !ok {
		return domain.Survey{}, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, surveyID)
	}
	return survey.Clone(), nil
}

func (s *SurveyStore) SaveSurvey(_ context.Context, survey domain.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveys[survey.ID] = survey.Clone()
	return nil
}

// ListSurveys returns the owner's surveys, oldest first.
func (s *SurveyStore) ListSurveys(_ context.Context, ownerID string) ([]domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Survey{}
	for _, survey := range s.surveys {
		if survey.OwnerID == ownerID {
			out = append(out, survey.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
