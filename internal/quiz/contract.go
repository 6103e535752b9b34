package quiz

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

const (
	MinTextLength = 5
	MaxTextLength = 1000
)

var ErrInvalidAnswer = errors.New("invalid answer")

// FieldError describes why one answer was rejected.
type FieldError struct {
	QuestionID string `json:"questionId"`
	Message    string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("question %s: %s", e.QuestionID, e.Message)
}

func (e *FieldError) Is(target error) bool { return target == ErrInvalidAnswer }

// Contract is the validation rule derived from one question.
type Contract struct {
	q    Question
	kind AnswerKind
}

func ContractFor(q Question) Contract {
	return Contract{q: q, kind: KindFor(q.Type)}
}

func (c Contract) Kind() AnswerKind { return c.kind }

// Validate checks a raw value. Optional questions accept any value,
// including the empty string.
func (c Contract) Validate(value string) error {
	if !c.q.Required {
		return nil
	}

	switch c.kind {
	case KindChoice:
		if value == "" {
			return c.fail("an option must be selected")
		}
		if !slices.Contains(c.q.Options, value) {
			return c.fail(fmt.Sprintf("%q is not one of the allowed options", value))
		}
	case KindText:
		n := utf8.RuneCountInString(value)
		if n == 0 {
			return c.fail("answer is required")
		}
		if n < MinTextLength {
			return c.fail(fmt.Sprintf("answer must be at least %d characters", MinTextLength))
		}
		if n > MaxTextLength {
			return c.fail(fmt.Sprintf("answer must be at most %d characters", MaxTextLength))
		}
	default:
		// number, scale, email, phone and date get no format checks.
		n := utf8.RuneCountInString(value)
		if n == 0 {
			return c.fail("answer is required")
		}
		if n > MaxTextLength {
			return c.fail(fmt.Sprintf("answer must be at most %d characters", MaxTextLength))
		}
	}
	return nil
}

func (c Contract) fail(msg string) error {
	return &FieldError{QuestionID: c.q.ID, Message: msg}
}
