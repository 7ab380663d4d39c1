package app

import "survey-service/internal/domain"

// Normalize turns a complete answer store into the submission payload: one
// Answer per question in survey order. Sets are emitted in insertion order.
// It refuses to fill gaps and returns an *domain.IncompleteSubmissionError
// when any question is unanswered.
func Normalize(survey domain.Survey, store *AnswerStore) ([]domain.Answer, error) {
	if missing := Validate(survey, store); len(missing) > 0 {
		return nil, &domain.IncompleteSubmissionError{Unanswered: missing}
	}

	answers := make([]domain.Answer, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		v, _ := store.Get(q.ID)
		if set, ok := v.(domain.SetValue); ok {
			v = append(domain.SetValue(nil), set...)
		}
		answers = append(answers, domain.Answer{QuestionID: q.ID, Value: v})
	}
	return answers, nil
}
