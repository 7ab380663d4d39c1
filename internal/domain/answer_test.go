package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestBlank(t *testing.T) {
	cases := []struct {
		name  string
		value AnswerValue
		blank bool
	}{
		{"absent", nil, true},
		{"empty text", TextValue(""), true},
		{"whitespace text", TextValue("  \t\n"), true},
		{"text", TextValue("hello"), false},
		{"empty set", SetValue{}, true},
		{"set", SetValue{"o1"}, false},
		{"zero", NumberValue(0), false},
		{"ten", NumberValue(10), false},
	}
	for _, tc := range cases {
		if got := Blank(tc.value); got != tc.blank {
			t.Fatalf("%s: expected blank=%v, got %v", tc.name, tc.blank, got)
		}
	}
}

func TestSetValueIsASet(t *testing.T) {
	s := SetValue{}.With("o1").With("o1")
	if !reflect.DeepEqual(s, SetValue{"o1"}) {
		t.Fatalf("expected single member, got %v", s)
	}
	s = s.With("o2").Without("o3").Without("o1")
	if !reflect.DeepEqual(s, SetValue{"o2"}) {
		t.Fatalf("expected [o2], got %v", s)
	}
}

func TestAnswerWireFormat(t *testing.T) {
	in := []Answer{
		{QuestionID: "q1", Value: TextValue("fine")},
		{QuestionID: "q2", Value: NumberValue(0)},
		{QuestionID: "q3", Value: SetValue{"b", "a"}},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"questionId":"q1","value":"fine"},{"questionId":"q2","value":0},{"questionId":"q3","value":["b","a"]}]`
	if string(data) != want {
		t.Fatalf("unexpected wire format %s", data)
	}

	var out []Answer
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("expected %#v, got %#v", in, out)
	}
}

func TestDecodeAnswerValueRejectsFractions(t *testing.T) {
	if _, err := DecodeAnswerValue(json.RawMessage(`7.5`)); !errors.Is(err, ErrAnswerShape) {
		t.Fatalf("expected ErrAnswerShape, got %v", err)
	}
	if _, err := DecodeAnswerValue(json.RawMessage(`{"a":1}`)); !errors.Is(err, ErrAnswerShape) {
		t.Fatalf("expected ErrAnswerShape for object, got %v", err)
	}
	v, err := DecodeAnswerValue(json.RawMessage(`null`))
	if err != nil || v != nil {
		t.Fatalf("expected nil value for null, got %v %v", v, err)
	}
}
