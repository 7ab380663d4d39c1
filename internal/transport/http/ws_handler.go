package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// answerPayload carries either a value (text, option ID or rating) or, for
// multi-choice questions, one option toggle.
type answerPayload struct {
	QuestionID string          `json:"questionId"`
	Value      json.RawMessage `json:"value,omitempty"`
	OptionID   string          `json:"optionId,omitempty"`
	Included   *bool           `json:"included,omitempty"`
}

type openedPayload struct {
	SessionID string        `json:"sessionId"`
	Survey    domain.Survey `json:"survey"`
}

type answeredPayload struct {
	QuestionID string             `json:"questionId"`
	Value      domain.AnswerValue `json:"value"`
}

type unansweredPayload struct {
	Unanswered []string `json:"unanswered"`
}

type submittedPayload struct {
	Answers []domain.Answer `json:"answers"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ServeRespondWS runs one live response session over a websocket. The
// session is discarded when the connection closes, so leaving without
// submitting never creates a response.
func (h *Handler) ServeRespondWS(w http.ResponseWriter, r *http.Request) {
	surveyID := r.URL.Query().Get("surveyId")
	if surveyID == "" {
		http.Error(w, "missing surveyId", http.StatusBadRequest)
		return
	}

	session, err := h.responses.Open(r.Context(), surveyID)
	if err != nil {
		writeError(w, r, "session.open", err)
		return
	}
	defer h.responses.Close(session.ID())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan any, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debugf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[openedPayload]{Type: "opened", Payload: openedPayload{
		SessionID: session.ID(),
		Survey:    session.Survey(),
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if !deliver(send, writerDone, h.handleRespondMessage(r.Context(), session, inbound)) {
			break
		}
	}

	close(send)
	<-writerDone
}

// deliver queues msg for the writer. It reports false once the writer has
// stopped, so the read loop does not block on a channel nobody drains.
func deliver(send chan<- any, writerDone <-chan struct{}, msg any) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

func (h *Handler) handleRespondMessage(ctx context.Context, session *app.ResponseSession, inbound inboundMessage) any {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage(fmt.Errorf("%w: invalid answer payload", domain.ErrAnswerShape))
		}
		in, err := payloadInput(payload)
		if err != nil {
			return errorMessage(err)
		}
		value, err := session.SetAnswer(payload.QuestionID, in)
		if err != nil {
			return errorMessage(err)
		}
		return outboundMessage[answeredPayload]{Type: "answered", Payload: answeredPayload{
			QuestionID: payload.QuestionID,
			Value:      value,
		}}

	case "validate":
		return outboundMessage[unansweredPayload]{Type: "validation", Payload: unansweredPayload{
			Unanswered: session.Unanswered(),
		}}

	case "submit":
		answers, err := session.Submit(ctx)
		var incomplete *domain.IncompleteSubmissionError
		if errors.As(err, &incomplete) {
			return outboundMessage[unansweredPayload]{Type: "incomplete", Payload: unansweredPayload{
				Unanswered: incomplete.Unanswered,
			}}
		}
		if err != nil {
			log.WithField("survey", session.SurveyID()).Warnf("session.submit: %v", err)
			return errorMessage(err)
		}
		return outboundMessage[submittedPayload]{Type: "submitted", Payload: submittedPayload{Answers: answers}}

	default:
		return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{
			Message: "unsupported message type",
			Status:  http.StatusBadRequest,
		}}
	}
}

func payloadInput(p answerPayload) (app.Input, error) {
	if p.OptionID != "" {
		included := true
		if p.Included != nil {
			included = *p.Included
		}
		return app.ToggleInput{OptionID: p.OptionID, Included: included}, nil
	}
	v, err := domain.DecodeAnswerValue(p.Value)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case domain.TextValue:
		return app.TextInput(v), nil
	case domain.NumberValue:
		return app.NumberInput(v), nil
	case nil:
		return app.TextInput(""), nil
	default:
		return nil, fmt.Errorf("%w: multi-choice answers are sent as option toggles", domain.ErrAnswerShape)
	}
}

func errorMessage(err error) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{
		Message: err.Error(),
		Status:  statusFor(err),
	}}
}
