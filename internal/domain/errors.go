package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownQuestionType is returned for a type id outside the registry.
	ErrUnknownQuestionType = errors.New("unknown question type")
	// ErrOutOfRange is returned when a numeric answer falls outside its type's domain.
	ErrOutOfRange = errors.New("answer out of range")
	// ErrIncompleteSubmission is returned when a submission still has unanswered questions.
	ErrIncompleteSubmission = errors.New("incomplete submission")
	// ErrIndexOutOfRange is returned by reorder for an index outside the question list.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrSurveyNotFound indicates the survey does not exist or is not visible to the caller.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrUnauthorized indicates a missing, expired, or rejected bearer credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransport indicates the storage or ingestion boundary failed.
	ErrTransport = errors.New("transport error")

	// ErrQuestionNotFound indicates a question ID is not part of the survey.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates an option ID is not part of the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrLastOption is returned when removing the only option of a choice question.
	ErrLastOption = errors.New("cannot remove the last option")
	// ErrAnswerShape is returned when the raw input does not fit the question type.
	ErrAnswerShape = errors.New("answer does not match question type")
	// ErrSubmitInFlight is returned while a submission for the same session is outstanding.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrAlreadySubmitted is returned when a response session has already been submitted.
	ErrAlreadySubmitted = errors.New("response already submitted")
	// ErrSurveyClosed indicates the survey is not accepting public responses.
	ErrSurveyClosed = errors.New("survey is not accepting responses")
	// ErrInvalidSurvey indicates a survey definition breaks a structural invariant.
	ErrInvalidSurvey = errors.New("invalid survey")
)

// IncompleteSubmissionError carries the unanswered question IDs in survey order.
type IncompleteSubmissionError struct {
	Unanswered []string
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("%s: unanswered questions [%s]", ErrIncompleteSubmission, strings.Join(e.Unanswered, ", "))
}

func (e *IncompleteSubmissionError) Is(target error) bool {
	return target == ErrIncompleteSubmission
}

// TransportError wraps a failed call to the storage or ingestion boundary.
// Status is the HTTP status when one was received, zero otherwise.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
