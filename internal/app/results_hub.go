package app

import (
	"sync"

	"survey-service/internal/domain"
)

// ResultsHub fans recomputed analytics out to the viewers of each survey.
type ResultsHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.AnalyticsSummary]struct{}
}

func NewResultsHub() *ResultsHub {
	return &ResultsHub{subscribers: make(map[string]map[chan domain.AnalyticsSummary]struct{})}
}

// Subscribe registers a viewer of surveyID and primes the channel with
// initial. The caller must invoke the returned cancel function to avoid leaks.
func (h *ResultsHub) Subscribe(surveyID string, initial domain.AnalyticsSummary) (<-chan domain.AnalyticsSummary, func()) {
	ch := make(chan domain.AnalyticsSummary, 8)
	ch <- initial

	h.mu.Lock()
	subs, ok := h.subscribers[surveyID]
	if !ok {
		subs = make(map[chan domain.AnalyticsSummary]struct{})
		h.subscribers[surveyID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subscribers[surveyID]
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, surveyID)
		}
	}
	return ch, cancel
}

// HasSubscribers reports whether anyone is watching surveyID.
func (h *ResultsHub) HasSubscribers(surveyID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[surveyID]) > 0
}

// Publish sends summary to every viewer of surveyID. A viewer that has not
// drained its buffer loses its oldest pending summary instead of blocking.
func (h *ResultsHub) Publish(surveyID string, summary domain.AnalyticsSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[surveyID] {
		select {
		case ch <- summary:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- summary
		}
	}
}
