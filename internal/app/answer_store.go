package app

import (
	"fmt"

	"survey-service/internal/domain"
)

// Input is the raw value a respondent enters for one question: TextInput,
// NumberInput or ToggleInput.
type Input interface {
	isInput()
}

// TextInput is typed text or a picked option ID for single-choice and dropdown questions.
type TextInput string

// NumberInput is a rating for scale and NPS questions.
type NumberInput int

// ToggleInput includes or excludes one option of a multi-choice question.
type ToggleInput struct {
	OptionID string
	Included bool
}

func (TextInput) isInput()   {}
func (NumberInput) isInput() {}
func (ToggleInput) isInput() {}

// AnswerStore maps question IDs to the answers captured during one response
// session. It is owned by a single session and is not safe for concurrent use.
type AnswerStore struct {
	values map[string]domain.AnswerValue
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{values: make(map[string]domain.AnswerValue)}
}

// Get returns the captured answer for questionID.
func (s *AnswerStore) Get(questionID string) (domain.AnswerValue, bool) {
	v, ok := s.values[questionID]
	return v, ok
}

// Len reports how many questions have an entry.
func (s *AnswerStore) Len() int {
	return len(s.values)
}

// Reset drops every captured answer.
func (s *AnswerStore) Reset() {
	s.values = make(map[string]domain.AnswerValue)
}

// Set captures in for question q and returns the stored value. Only q's entry
// is touched. Text types accept any string, choice types require a known
// option ID, multi-choice toggles behave as set insert/remove and numeric
// types reject values outside their domain with ErrOutOfRange.
func (s *AnswerStore) Set(q domain.Question, in Input) (domain.AnswerValue, error) {
	profile, err := q.Type.Profile()
	if err != nil {
		return nil, err
	}

	var value domain.AnswerValue
	switch profile.Shape {
	case domain.ShapeText:
		text, ok := in.(TextInput)
		if !ok {
			return nil, shapeError(q, in)
		}
		value = domain.TextValue(text)

	case domain.ShapeChoice:
		text, ok := in.(TextInput)
		if !ok {
			return nil, shapeError(q, in)
		}
		if text != "" {
			if _, _, found := q.Option(string(text)); !found {
				return nil, fmt.Errorf("%w: %s on question %s", domain.ErrOptionNotFound, text, q.ID)
			}
		}
		value = domain.TextValue(text)

	case domain.ShapeChoiceSet:
		toggle, ok := in.(ToggleInput)
		if !ok {
			return nil, shapeError(q, in)
		}
		if _, _, found := q.Option(toggle.OptionID); !found {
			return nil, fmt.Errorf("%w: %s on question %s", domain.ErrOptionNotFound, toggle.OptionID, q.ID)
		}
		current, _ := s.values[q.ID].(domain.SetValue)
		if toggle.Included {
			value = current.With(toggle.OptionID)
		} else {
			value = current.Without(toggle.OptionID)
		}

	case domain.ShapeNumber:
		n, ok := in.(NumberInput)
		if !ok {
			return nil, shapeError(q, in)
		}
		if !profile.InRange(int(n)) {
			return nil, fmt.Errorf("%w: %d not in %d..%d for %s question %s",
				domain.ErrOutOfRange, n, profile.Min, profile.Max, q.Type, q.ID)
		}
		value = domain.NumberValue(n)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownQuestionType, string(q.Type))
	}

	s.values[q.ID] = value
	return value, nil
}

// InputFromValue converts a decoded wire value into the inputs that rebuild
// it on question q. A set expands into one inclusion toggle per member.
func InputFromValue(q domain.Question, v domain.AnswerValue) ([]Input, error) {
	profile, err := q.Type.Profile()
	if err != nil {
		return nil, err
	}
	switch profile.Shape {
	case domain.ShapeText, domain.ShapeChoice:
		text, ok := v.(domain.TextValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s question %s expects a string", domain.ErrAnswerShape, q.Type, q.ID)
		}
		return []Input{TextInput(text)}, nil
	case domain.ShapeChoiceSet:
		set, ok := v.(domain.SetValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s question %s expects a list of option ids", domain.ErrAnswerShape, q.Type, q.ID)
		}
		inputs := make([]Input, 0, len(set))
		for _, id := range set {
			inputs = append(inputs, ToggleInput{OptionID: id, Included: true})
		}
		return inputs, nil
	case domain.ShapeNumber:
		n, ok := v.(domain.NumberValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s question %s expects an integer", domain.ErrAnswerShape, q.Type, q.ID)
		}
		return []Input{NumberInput(n)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownQuestionType, string(q.Type))
	}
}

// StoreFromAnswers replays submitted answers through capture so that ranges,
// option membership and shapes are enforced exactly as in an interactive
// session. Answers for questions outside the survey are rejected.
func StoreFromAnswers(survey domain.Survey, answers []domain.Answer) (*AnswerStore, error) {
	store := NewAnswerStore()
	for _, a := range answers {
		q, _, ok := survey.Question(a.QuestionID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, a.QuestionID)
		}
		if a.Value == nil {
			continue
		}
		inputs, err := InputFromValue(q, a.Value)
		if err != nil {
			return nil, err
		}
		if len(inputs) == 0 {
			// an explicit empty set stays an (unanswered) entry
			store.values[q.ID] = domain.SetValue{}
			continue
		}
		for _, in := range inputs {
			if _, err := store.Set(q, in); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}

func shapeError(q domain.Question, in Input) error {
	return fmt.Errorf("%w: %T for %s question %s", domain.ErrAnswerShape, in, q.Type, q.ID)
}
