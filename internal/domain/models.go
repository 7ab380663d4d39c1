package domain

import (
	"fmt"
	"time"
)

// SurveyStatus is the publication state of a survey.
type SurveyStatus string

const (
	StatusNew      SurveyStatus = "New"
	StatusActive   SurveyStatus = "Active"
	StatusInactive SurveyStatus = "Inactive"
)

// AnonymousRespondent is the respondent ID recorded for public submissions.
const AnonymousRespondent = "anonymous"

// Option is one fixed choice of a choice question.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question is a single survey question. Options is non-empty only for types
// whose profile carries options.
type Question struct {
	ID         string       `json:"id"`
	Caption    string       `json:"caption"`
	PromptText string       `json:"promptText"`
	Type       QuestionType `json:"type"`
	Options    []Option     `json:"options"`
}

// Option returns the option with the given ID and its index.
func (q Question) Option(id string) (Option, int, bool) {
	for i, o := range q.Options {
		if o.ID == id {
			return o, i, true
		}
	}
	return Option{}, -1, false
}

// Survey is a named, ordered list of questions owned by one user. The order
// of Questions is canonical for rendering and for submission payloads.
type Survey struct {
	ID              string       `json:"id"`
	OwnerID         string       `json:"ownerId"`
	Name            string       `json:"name"`
	Status          SurveyStatus `json:"status"`
	LogicallyActive bool         `json:"logicallyActive"`
	CreatedAt       time.Time    `json:"createdAt"`
	ModifiedAt      time.Time    `json:"modifiedAt"`
	Questions       []Question   `json:"questions"`
}

// Question returns the question with the given ID and its index.
func (s Survey) Question(id string) (Question, int, bool) {
	for i, q := range s.Questions {
		if q.ID == id {
			return q, i, true
		}
	}
	return Question{}, -1, false
}

// AcceptsResponses reports whether the survey is open for public responses.
func (s Survey) AcceptsResponses() bool {
	return s.Status == StatusActive && s.LogicallyActive
}

// Clone returns a deep copy so callers can mutate questions and options freely.
func (s Survey) Clone() Survey {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]Option(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}

// Check verifies the structural invariants of a survey definition: known
// question types, unique question IDs, options present only on option
// carrying types, at least one option on those, and unique option IDs.
func (s Survey) Check() error {
	seen := make(map[string]struct{}, len(s.Questions))
	for _, q := range s.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question without id", ErrInvalidSurvey)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %s", ErrInvalidSurvey, q.ID)
		}
		seen[q.ID] = struct{}{}

		profile, err := q.Type.Profile()
		if err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
		if !profile.CarriesOptions {
			if len(q.Options) > 0 {
				return fmt.Errorf("%w: %s question %s has options", ErrInvalidSurvey, q.Type, q.ID)
			}
			continue
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: %s question %s has no options", ErrInvalidSurvey, q.Type, q.ID)
		}
		optIDs := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return fmt.Errorf("%w: question %s has an option without id", ErrInvalidSurvey, q.ID)
			}
			if _, dup := optIDs[o.ID]; dup {
				return fmt.Errorf("%w: duplicate option id %s in question %s", ErrInvalidSurvey, o.ID, q.ID)
			}
			optIDs[o.ID] = struct{}{}
		}
	}
	return nil
}

// Response is an immutable, submitted set of answers in survey order.
type Response struct {
	ID           string    `json:"id"`
	SurveyID     string    `json:"surveyId"`
	RespondentID string    `json:"respondentId"`
	Answers      []Answer  `json:"answers"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Bucket is the count of one observed value and its share of the question's respondents.
type Bucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution maps an observed answer value to its bucket. Choice values are option IDs.
type Distribution map[string]Bucket

// NPSBreakdown is the Net Promoter Score classification of a 0..10 rating question.
type NPSBreakdown struct {
	QuestionID string `json:"questionId"`
	Score      int    `json:"score"`
	Detractors int    `json:"detractors"`
	Passives   int    `json:"passives"`
	Promoters  int    `json:"promoters"`
	Total      int    `json:"total"`
}

// AnalyticsSummary is derived from all responses of a survey and never persisted.
type AnalyticsSummary struct {
	SurveyID       string                  `json:"surveyId"`
	TotalResponses int                     `json:"totalResponses"`
	NPS            *NPSBreakdown           `json:"npsBreakdown,omitempty"`
	PerQuestion    map[string]Distribution `json:"perQuestion"`
}
