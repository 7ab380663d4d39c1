package app

import (
	"fmt"
	"strings"

	"survey-service/internal/domain"
)

const (
	defaultSurveyName = "Untitled survey"
	defaultPrompt     = "Write your question here"
)

// QuestionPatch updates the text of a question. Nil fields are left unchanged.
type QuestionPatch struct {
	Caption    *string `json:"caption,omitempty"`
	PromptText *string `json:"promptText,omitempty"`
}

func addQuestion(s *domain.Survey, t domain.QuestionType, newID func() string) (domain.Question, error) {
	profile, err := t.Profile()
	if err != nil {
		return domain.Question{}, err
	}
	q := domain.Question{
		ID:         newID(),
		Caption:    fmt.Sprintf("Question %d", len(s.Questions)+1),
		PromptText: defaultPrompt,
		Type:       t,
		Options:    []domain.Option{},
	}
	if profile.CarriesOptions {
		q.Options = append(q.Options, domain.Option{ID: newID(), Label: "Option 1"})
	}
	s.Questions = append(s.Questions, q)
	return q, nil
}

func updateQuestion(s *domain.Survey, questionID string, patch QuestionPatch) (domain.Question, error) {
	_, i, ok := s.Question(questionID)
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}
	if patch.Caption != nil {
		s.Questions[i].Caption = *patch.Caption
	}
	if patch.PromptText != nil {
		s.Questions[i].PromptText = *patch.PromptText
	}
	return s.Questions[i], nil
}

func deleteQuestion(s *domain.Survey, questionID string) error {
	_, i, ok := s.Question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}
	s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
	return nil
}

func moveQuestion(s *domain.Survey, src, dst int) error {
	reordered, err := Reorder(s.Questions, src, dst)
	if err != nil {
		return err
	}
	s.Questions = reordered
	return nil
}

func choiceQuestion(s *domain.Survey, questionID string) (int, error) {
	q, i, ok := s.Question(questionID)
	if !ok {
		return -1, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}
	profile, err := q.Type.Profile()
	if err != nil {
		return -1, err
	}
	if !profile.CarriesOptions {
		return -1, fmt.Errorf("%w: %s question %s has no options", domain.ErrInvalidSurvey, q.Type, q.ID)
	}
	return i, nil
}

func addOption(s *domain.Survey, questionID, label string, newID func() string) (domain.Option, error) {
	i, err := choiceQuestion(s, questionID)
	if err != nil {
		return domain.Option{}, err
	}
	q := &s.Questions[i]
	if strings.TrimSpace(label) == "" {
		label = fmt.Sprintf("Option %d", len(q.Options)+1)
	}
	opt := domain.Option{ID: newID(), Label: label}
	q.Options = append(q.Options, opt)
	return opt, nil
}

func updateOption(s *domain.Survey, questionID, optionID, label string) (domain.Option, error) {
	i, err := choiceQuestion(s, questionID)
	if err != nil {
		return domain.Option{}, err
	}
	_, j, ok := s.Questions[i].Option(optionID)
	if !ok {
		return domain.Option{}, fmt.Errorf("%w: %s", domain.ErrOptionNotFound, optionID)
	}
	s.Questions[i].Options[j].Label = label
	return s.Questions[i].Options[j], nil
}

func removeOption(s *domain.Survey, questionID, optionID string) error {
	i, err := choiceQuestion(s, questionID)
	if err != nil {
		return err
	}
	q := &s.Questions[i]
	_, j, ok := q.Option(optionID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrOptionNotFound, optionID)
	}
	if len(q.Options) == 1 {
		return fmt.Errorf("%w: question %s", domain.ErrLastOption, questionID)
	}
	q.Options = append(q.Options[:j], q.Options[j+1:]...)
	return nil
}

// reconcileDefinition checks a full-replace definition against the stored
// survey. Kept questions and options must carry an ID the survey already
// has, a kept question keeps its type and kept questions keep their stored
// relative order. Questions and options without an ID are new and get a
// fresh one.
func reconcileDefinition(current domain.Survey, next *domain.Survey, newID func() string) error {
	position := make(map[string]int, len(current.Questions))
	for i, q := range current.Questions {
		position[q.ID] = i
	}

	last := -1
	for i := range next.Questions {
		q := &next.Questions[i]
		if q.Options == nil {
			q.Options = []domain.Option{}
		}
		if q.ID == "" {
			q.ID = newID()
			for j := range q.Options {
				if q.Options[j].ID != "" {
					return fmt.Errorf("%w: new question carries option id %s", domain.ErrInvalidSurvey, q.Options[j].ID)
				}
				q.Options[j].ID = newID()
			}
			continue
		}

		at, ok := position[q.ID]
		if !ok {
			return fmt.Errorf("%w: unknown question id %s", domain.ErrInvalidSurvey, q.ID)
		}
		if _, err := q.Type.Profile(); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
		stored := current.Questions[at]
		if q.Type != stored.Type {
			return fmt.Errorf("%w: question %s cannot change type from %s to %s", domain.ErrInvalidSurvey, q.ID, stored.Type, q.Type)
		}
		if at < last {
			return fmt.Errorf("%w: question %s is out of order, move it instead", domain.ErrInvalidSurvey, q.ID)
		}
		last = at

		for j := range q.Options {
			o := &q.Options[j]
			if o.ID == "" {
				o.ID = newID()
				continue
			}
			if _, _, ok := stored.Option(o.ID); !ok {
				return fmt.Errorf("%w: unknown option id %s in question %s", domain.ErrInvalidSurvey, o.ID, q.ID)
			}
		}
	}
	return nil
}
