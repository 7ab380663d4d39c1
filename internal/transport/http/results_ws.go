package http

import (
	"net/http"

	"survey-service/internal/auth"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

// ServeResultsWS streams the analytics summary of an owned survey, sending a
// fresh one after every stored response.
func (h *Handler) ServeResultsWS(w http.ResponseWriter, r *http.Request) {
	surveyID := r.URL.Query().Get("surveyId")
	if surveyID == "" {
		http.Error(w, "missing surveyId", http.StatusBadRequest)
		return
	}

	updates, cancel, err := h.analytics.Subscribe(r.Context(), auth.SubjectFromContext(r.Context()), surveyID)
	if err != nil {
		writeError(w, r, "analytics.subscribe", err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// The reader only detects the viewer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case summary, ok := <-updates:
			if !ok {
				return
			}
			msg := outboundMessage[domain.AnalyticsSummary]{Type: "summary", Payload: summary}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debugf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
