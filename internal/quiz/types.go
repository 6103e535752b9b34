// Package quiz holds the questionnaire domain shared by the store, the
// submission service and the quiz runner. It has no I/O.
package quiz

import (
	"errors"
	"fmt"
)

type AnswerType string

const (
	AnswerSingleChoice AnswerType = "single_choice"
	AnswerText         AnswerType = "text"
	AnswerNumber       AnswerType = "number"
	AnswerScale        AnswerType = "scale" // 1 to 10
	AnswerYesNo        AnswerType = "yes_no"
	AnswerEmail        AnswerType = "email"
	AnswerPhone        AnswerType = "phone"
	AnswerDate         AnswerType = "date"
)

// AnswerTypes lists every supported answer type in display order.
var AnswerTypes = []AnswerType{
	AnswerSingleChoice, AnswerText, AnswerNumber, AnswerScale,
	AnswerYesNo, AnswerEmail, AnswerPhone, AnswerDate,
}

func (t AnswerType) Valid() bool {
	for _, at := range AnswerTypes {
		if at == t {
			return true
		}
	}
	return false
}

// RequiresOptions reports whether questions of this type carry a closed option list.
func (t AnswerType) RequiresOptions() bool {
	return t == AnswerSingleChoice || t == AnswerYesNo
}

func (t AnswerType) String() string { return string(t) }

type QuestionnaireType string

const (
	QuestionnaireInitialAssessment QuestionnaireType = "initial_assessment"
	QuestionnaireFollowUp          QuestionnaireType = "follow_up"
	QuestionnaireSatisfaction      QuestionnaireType = "satisfaction"
	QuestionnaireCustom            QuestionnaireType = "custom"
)

func (t QuestionnaireType) Valid() bool {
	switch t {
	case QuestionnaireInitialAssessment, QuestionnaireFollowUp, QuestionnaireSatisfaction, QuestionnaireCustom:
		return true
	}
	return false
}

var (
	ErrUnknownAnswerType = errors.New("unknown answer type")
	ErrOptionsRequired   = errors.New("answer type requires a non-empty option list")
	ErrOptionsNotAllowed = errors.New("answer type does not accept options")
	ErrDuplicateOption   = errors.New("duplicate option")
	ErrEmptyOption       = errors.New("options must not be blank")
)

// CheckOptions enforces that options are present exactly when the answer
// type needs them.
func CheckOptions(t AnswerType, options []string) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAnswerType, t)
	}
	if !t.RequiresOptions() {
		if len(options) > 0 {
			return fmt.Errorf("%w: %s", ErrOptionsNotAllowed, t)
		}
		return nil
	}
	if len(options) == 0 {
		return fmt.Errorf("%w: %s", ErrOptionsRequired, t)
	}
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if o == "" {
			return ErrEmptyOption
		}
		if _, dup := seen[o]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateOption, o)
		}
		seen[o] = struct{}{}
	}
	return nil
}

// Question is the subset of a stored question the validator and runner need.
type Question struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Type     AnswerType `json:"type"`
	Options  []string   `json:"options,omitempty"`
	Required bool       `json:"required"`
}
