package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

type errorBody struct {
	Error      string   `json:"error"`
	Unanswered []string `json:"unanswered,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSurveyNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrOptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrIncompleteSubmission):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrUnknownQuestionType),
		errors.Is(err, domain.ErrAnswerShape),
		errors.Is(err, domain.ErrLastOption),
		errors.Is(err, domain.ErrInvalidSurvey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSurveyClosed):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrSubmitInFlight),
		errors.Is(err, domain.ErrAlreadySubmitted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err under code and sends the mapped status. Internal
// errors are logged at error level and their text is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, code string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", code, err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	log.Debugf("%s: %s", code, err)

	body := errorBody{Error: err.Error()}
	var incomplete *domain.IncompleteSubmissionError
	if errors.As(err, &incomplete) {
		body.Unanswered = incomplete.Unanswered
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

// badRequest reports an unreadable request body.
func badRequest(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Debugf("%s: %s", code, err)
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorBody{Error: "invalid request body"})
}
