package app

import "survey-service/internal/domain"

// Validate returns the IDs of the questions in survey that have no usable
// answer in store, in survey order. An empty result means the store may be
// submitted.
func Validate(survey domain.Survey, store *AnswerStore) []string {
	unanswered := []string{}
	for _, q := range survey.Questions {
		v, ok := store.Get(q.ID)
		if !ok || !answered(q, v) {
			unanswered = append(unanswered, q.ID)
		}
	}
	return unanswered
}

func answered(q domain.Question, v domain.AnswerValue) bool {
	profile, err := q.Type.Profile()
	if err != nil {
		return false
	}
	switch profile.Shape {
	case domain.ShapeText, domain.ShapeChoice:
		text, ok := v.(domain.TextValue)
		return ok && !domain.Blank(text)
	case domain.ShapeChoiceSet:
		set, ok := v.(domain.SetValue)
		return ok && !domain.Blank(set)
	case domain.ShapeNumber:
		// 0 is a valid NPS rating
		_, ok := v.(domain.NumberValue)
		return ok
	default:
		return false
	}
}
