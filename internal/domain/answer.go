package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AnswerValue is one of TextValue, NumberValue or SetValue.
type AnswerValue interface {
	isAnswerValue()
}

// TextValue holds free text or a single option ID.
type TextValue string

// NumberValue holds a scale or NPS rating.
type NumberValue int

// SetValue holds the option IDs picked on a multi-choice question, in the
// order they were first added. Members are unique.
type SetValue []string

func (TextValue) isAnswerValue()   {}
func (NumberValue) isAnswerValue() {}
func (SetValue) isAnswerValue()    {}

// Contains reports whether id is a member of s.
func (s SetValue) Contains(id string) bool {
	for _, m := range s {
		if m == id {
			return true
		}
	}
	return false
}

// With returns a copy of s that includes id. Adding a present id is a no-op.
func (s SetValue) With(id string) SetValue {
	out := make(SetValue, 0, len(s)+1)
	out = append(out, s...)
	if s.Contains(id) {
		return out
	}
	return append(out, id)
}

// Without returns a copy of s that excludes id. Removing an absent id is a no-op.
func (s SetValue) Without(id string) SetValue {
	out := make(SetValue, 0, len(s))
	for _, m := range s {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}

func (s SetValue) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Blank reports whether v counts as unanswered: absent, whitespace-only text,
// or an empty set. A number is never blank, zero included.
func Blank(v AnswerValue) bool {
	switch v := v.(type) {
	case nil:
		return true
	case TextValue:
		return strings.TrimSpace(string(v)) == ""
	case SetValue:
		return len(v) == 0
	case NumberValue:
		return false
	default:
		return true
	}
}

// Answer is one answered question inside a Response.
type Answer struct {
	QuestionID string      `json:"questionId"`
	Value      AnswerValue `json:"value"`
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuestionID string          `json:"questionId"`
		Value      json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := DecodeAnswerValue(raw.Value)
	if err != nil {
		return fmt.Errorf("question %s: %w", raw.QuestionID, err)
	}
	a.QuestionID = raw.QuestionID
	a.Value = v
	return nil
}

// DecodeAnswerValue decodes a wire value: a JSON string becomes a TextValue,
// an integer a NumberValue and an array of strings a SetValue. Null or an
// empty payload decodes to nil.
func DecodeAnswerValue(raw json.RawMessage) (AnswerValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return TextValue(s), nil
	case '[':
		var members []string
		if err := json.Unmarshal(raw, &members); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnswerShape, err)
		}
		set := SetValue{}
		for _, m := range members {
			set = set.With(m)
		}
		return set, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrAnswerShape, string(raw))
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not an integer", ErrAnswerShape, n)
		}
		return NumberValue(i), nil
	}
}
