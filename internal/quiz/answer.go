package quiz

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// AnswerKind discriminates the Answer union.
type AnswerKind uint8

const (
	// KindGeneric is the fallback for types without dedicated validation
	// (number, scale, email, phone, date) and for values decoded without
	// question context.
	KindGeneric AnswerKind = iota
	KindChoice
	KindText
)

func (k AnswerKind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindText:
		return "text"
	default:
		return "generic"
	}
}

// KindFor maps an answer type to the union variant that carries its value.
func KindFor(t AnswerType) AnswerKind {
	switch t {
	case AnswerSingleChoice, AnswerYesNo:
		return KindChoice
	case AnswerText:
		return KindText
	default:
		return KindGeneric
	}
}

// Answer is a submitted value tagged with the variant it was validated as.
// On the wire it is a bare JSON string.
type Answer struct {
	Kind  AnswerKind
	Value string
}

func NewAnswer(t AnswerType, value string) Answer {
	return Answer{Kind: KindFor(t), Value: value}
}

func (a Answer) String() string { return a.Value }

func (a Answer) IsEmpty() bool { return a.Value == "" }

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts strings, numbers and booleans. Decoded answers are
// always KindGeneric since the question type is unknown at this point.
func (a *Answer) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		a.Value = ""
	case string:
		a.Value = v
	case float64:
		a.Value = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		a.Value = strconv.FormatBool(v)
	default:
		return fmt.Errorf("quiz: answer must be a string, number or boolean, got %T", raw)
	}
	a.Kind = KindGeneric
	return nil
}

// Answers maps a question id to its answer.
type Answers map[string]Answer

// Retag returns a copy whose variants follow the given questions. Answers
// for unknown question ids keep their current kind.
func (a Answers) Retag(questions []Question) Answers {
	types := make(map[string]AnswerType, len(questions))
	for _, q := range questions {
		types[q.ID] = q.Type
	}
	out := make(Answers, len(a))
	for id, ans := range a {
		if t, ok := types[id]; ok {
			ans.Kind = KindFor(t)
		}
		out[id] = ans
	}
	return out
}

func (a Answers) Values() map[string]string {
	out := make(map[string]string, len(a))
	for id, ans := range a {
		out[id] = ans.Value
	}
	return out
}
