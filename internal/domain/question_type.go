package domain

import "fmt"

// QuestionType is the closed set of question variants a survey can hold.
type QuestionType string

const (
	ShortText    QuestionType = "short-text"
	LongText     QuestionType = "long-text"
	SingleChoice QuestionType = "single-choice"
	MultiChoice  QuestionType = "multi-choice"
	Dropdown     QuestionType = "dropdown"
	Scale        QuestionType = "scale"
	NPS          QuestionType = "nps"
)

// AnswerShape is the kind of value a question type captures.
type AnswerShape int

const (
	// ShapeText is free text.
	ShapeText AnswerShape = iota + 1
	// ShapeChoice is a single option ID.
	ShapeChoice
	// ShapeChoiceSet is a set of option IDs.
	ShapeChoiceSet
	// ShapeNumber is an integer inside [Min, Max].
	ShapeNumber
)

// TypeProfile describes the capabilities of a question type. Every operation
// that depends on the type dispatches on the profile's Shape.
type TypeProfile struct {
	Type           QuestionType
	CarriesOptions bool
	Shape          AnswerShape
	Min            int
	Max            int
}

var registry = []TypeProfile{
	{Type: ShortText, Shape: ShapeText},
	{Type: LongText, Shape: ShapeText},
	{Type: SingleChoice, CarriesOptions: true, Shape: ShapeChoice},
	{Type: MultiChoice, CarriesOptions: true, Shape: ShapeChoiceSet},
	{Type: Dropdown, CarriesOptions: true, Shape: ShapeChoice},
	{Type: Scale, Shape: ShapeNumber, Min: 1, Max: 10},
	{Type: NPS, Shape: ShapeNumber, Min: 0, Max: 10},
}

// QuestionTypes lists the registered types in registry order.
func QuestionTypes() []QuestionType {
	out := make([]QuestionType, 0, len(registry))
	for _, p := range registry {
		out = append(out, p.Type)
	}
	return out
}

// ParseQuestionType validates a raw type id.
func ParseQuestionType(raw string) (QuestionType, error) {
	t := QuestionType(raw)
	if _, err := t.Profile(); err != nil {
		return "", err
	}
	return t, nil
}

// Profile returns the capability profile of t.
func (t QuestionType) Profile() (TypeProfile, error) {
	for _, p := range registry {
		if p.Type == t {
			return p, nil
		}
	}
	return TypeProfile{}, fmt.Errorf("%w: %q", ErrUnknownQuestionType, string(t))
}

// InRange reports whether v is inside the numeric domain of a ShapeNumber profile.
func (p TypeProfile) InRange(v int) bool {
	return p.Shape == ShapeNumber && v >= p.Min && v <= p.Max
}
